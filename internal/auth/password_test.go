package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/go-todo-api/internal/config"
)

// cheap parameters keep the suite fast; the encoding is what matters here
var testArgon2Params = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func testHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	bc, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return map[string]PasswordHasher{
		"bcrypt":   bc,
		"argon2id": NewArgon2Hasher(testArgon2Params),
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("password123")
			require.NoError(t, err)
			assert.NotEqual(t, "password123", hash)

			assert.True(t, h.Verify("password123", hash))
			assert.False(t, h.Verify("password124", hash))
			assert.False(t, h.Verify("", hash))
		})
	}
}

func TestPasswordHasher_SaltIsRandom(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("same")
			require.NoError(t, err)
			b, err := h.Hash("same")
			require.NoError(t, err)

			assert.NotEqual(t, a, b)
			assert.True(t, h.Verify("same", a))
			assert.True(t, h.Verify("same", b))
		})
	}
}

func TestPasswordHasher_EmptyPlaintextFailsFast(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := h.Hash("")
			assert.ErrorIs(t, err, ErrEmptyPassword)
		})
	}
}

func TestPasswordHasher_MalformedHashIsFalse(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$2a$10$short",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$!!!",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
	}

	for name, h := range testHashers(t) {
		for _, enc := range malformed {
			assert.False(t, h.Verify("password123", enc), "%s accepted %q", name, enc)
		}
	}
}

func TestPasswordHasher_EncodingEmbedsParameters(t *testing.T) {
	bc, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	hash, err := bc.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	hash, err = NewArgon2Hasher(testArgon2Params).Hash("pw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"), hash)
}

func TestBcryptHasher_TooLong(t *testing.T) {
	bc, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = bc.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptHasher_RejectsBadCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher(config.AuthConfig{HashAlgorithm: config.HashBcrypt, BcryptCost: 10})
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewPasswordHasher(config.AuthConfig{HashAlgorithm: config.HashArgon2id})
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewPasswordHasher(config.AuthConfig{HashAlgorithm: "md5"})
	assert.Error(t, err)
}
