package admin

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/argon2"
)

// encodeArgon2id собирает хеш в том же формате, что scripts/generate_hash.go.
func encodeArgon2id(password string, salt []byte) string {
	var (
		memory      uint32 = 65536
		iterations  uint32 = 3
		parallelism uint8  = 2
	)
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func TestVerifyArgon2id(t *testing.T) {
	salt := []byte("0123456789abcdef")
	encoded := encodeArgon2id("секретный-пароль", salt)

	assert.True(t, verifyArgon2id("секретный-пароль", encoded))
	assert.False(t, verifyArgon2id("неверный", encoded))
	assert.False(t, verifyArgon2id("", encoded))
}

func TestVerifyArgon2idMalformedHash(t *testing.T) {
	assert.False(t, verifyArgon2id("пароль", ""))
	assert.False(t, verifyArgon2id("пароль", "not-a-hash"))
	assert.False(t, verifyArgon2id("пароль", "$argon2id$v=19$m=oops$salt$hash"))
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	a := generateSecureToken()
	b := generateSecureToken()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestDialogState(t *testing.T) {
	s := &Service{states: make(map[int64]*AdminState)}

	assert.Nil(t, s.GetState(1))

	s.SetState(1, StateGrantInput)
	state := s.GetState(1)
	assert.NotNil(t, state)
	assert.Equal(t, StateGrantInput, state.State)

	s.ClearState(1)
	assert.Nil(t, s.GetState(1))
}

func TestDialogStateExpires(t *testing.T) {
	s := &Service{states: make(map[int64]*AdminState)}

	s.SetState(1, StateRevokeInput)
	s.states[1].ExpiresAt = time.Now().Add(-time.Minute)

	// Протухшее состояние не возвращается
	assert.Nil(t, s.GetState(1))
}
