package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return NewPasswordServiceWithCost(bcrypt.MinCost)
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	hash, err := newTestPasswordService().Hash("secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestHash_Salted(t *testing.T) {
	ps := newTestPasswordService()

	a, err := ps.Hash("secret123")
	require.NoError(t, err)
	b, err := ps.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestHash_Length(t *testing.T) {
	ps := newTestPasswordService()

	_, err := ps.Hash(strings.Repeat("x", MaxPasswordBytes))
	assert.NoError(t, err)

	_, err = ps.Hash(strings.Repeat("x", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()

	tests := []struct {
		name     string
		password string
	}{
		{"ascii", "secret123"},
		{"symbols", "p@$$w0rd!#%"},
		{"unicode", "пароль-密码"},
		{"surrounding spaces kept", "  padded  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := ps.Hash(tt.password)
			require.NoError(t, err)

			assert.NoError(t, ps.Verify(hash, tt.password))
			assert.ErrorIs(t, ps.Verify(hash, tt.password+"x"), ErrPasswordMismatch)
		})
	}
}

func TestVerify_CorruptHash(t *testing.T) {
	err := newTestPasswordService().Verify("not-a-bcrypt-hash", "secret123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch, "a corrupt hash is not a wrong password")
}
