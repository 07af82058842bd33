package password_test

import (
	"strings"
	"testing"

	"hostel/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		err      error
	}{
		{name: "staff password", password: "frontdesk-2024"},
		{name: "unicode password", password: "пароль123"},
		{name: "bcrypt limit", password: strings.Repeat("a", 72)},
		{name: "empty password", password: "", err: password.ErrEmptyPassword},
		{name: "over bcrypt limit", password: strings.Repeat("a", 100), err: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2"))

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, password.DefaultCost, cost)
			assert.NoError(t, password.Verify(tt.password, hash))
		})
	}
}

func TestHashIsSalted(t *testing.T) {
	first, err := password.Hash("reception")
	require.NoError(t, err)

	second, err := password.Hash("reception")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, password.Verify("reception", first))
	assert.NoError(t, password.Verify("reception", second))
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("night-manager")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		err      error
	}{
		{name: "match", password: "night-manager", hash: hash},
		{name: "mismatch", password: "day-manager", hash: hash, err: password.ErrInvalidPassword},
		{name: "suffix added", password: "night-manager!", hash: hash, err: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, err: password.ErrInvalidPassword},
		{name: "empty hash", password: "night-manager", hash: "", err: password.ErrInvalidPassword},
		{name: "malformed hash", password: "night-manager", hash: "not-a-bcrypt-hash", err: password.ErrVerifyingPassword},
		{name: "truncated hash", password: "night-manager", hash: hash[:10], err: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.err == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.err)
		})
	}
}
