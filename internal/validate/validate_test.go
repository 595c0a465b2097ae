package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-manager/internal/apperror"
)

type payload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestStruct_Success(t *testing.T) {
	err := Struct(payload{Name: "alice", Email: "alice@example.com", Kind: "a"}, nil)
	assert.NoError(t, err)
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(payload{Email: "nope", Kind: "c"}, map[string]string{
		"name": "Name is required",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperror.ErrValidation))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Fields, 3)

	assert.Equal(t, apperror.FieldError{Field: "name", Message: "Name is required"}, appErr.Fields[0])
	assert.Equal(t, "email", appErr.Fields[1].Field)
	assert.Equal(t, "email must be a valid email address", appErr.Fields[1].Message)
	assert.Equal(t, "kind", appErr.Fields[2].Field)
	assert.Equal(t, "kind must be one of: a, b", appErr.Fields[2].Message)
}

func TestStruct_FieldTagMessageWinsOverFieldMessage(t *testing.T) {
	err := Struct(payload{Name: "x", Email: "bad"}, map[string]string{
		"email":       "generic email problem",
		"email.email": "Please include a valid email",
	})

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "Please include a valid email", appErr.Fields[0].Message)
}
