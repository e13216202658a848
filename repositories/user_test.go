package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/errors"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	id, err := repository.CreateUser("Alice", "alice@example.com", "$argon2id$fake")
	req.NoError(err)
	req.NotEmpty(id)

	user, err := repository.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, user.ID)
	req.Equal("Alice", user.Name)
	req.Equal("$argon2id$fake", user.PasswordHash)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("Alice", "alice@example.com", "hash1")
	req.NoError(err)

	_, err = repository.CreateUser("Imposter", "alice@example.com", "hash2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_UnknownEmail(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUserByEmail("ghost@example.com")
	req.Error(err)
}
