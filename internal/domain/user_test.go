package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("Test@Example.com", "correct horse battery", "Ada")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "test@example.com", user.Email, "email should be lowercased")
		assert.Equal(t, "Ada", user.Name)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("name is optional", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("a@b.co", "long enough password", "")
		require.NoError(t, err)
		assert.Empty(t, user.Name)
	})

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "empty email",
			email:    "",
			password: "long enough password",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "long enough password",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "missing domain dot",
			email:    "a@localhost",
			password: "long enough password",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			email:    "a@b.co",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			email:    "a@b.co",
			password: strings.Repeat("p", MaxPasswordLength+1),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "name too long",
			email:    "a@b.co",
			password: "long enough password",
			userName: strings.Repeat("n", MaxNameLength+1),
			wantErr:  ErrNameTooLong,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewUser(tc.email, tc.password, tc.userName)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// A user loaded from the store has no plaintext password but must
	// carry a hash.
	user := &User{
		ID:             uuid.New(),
		Email:          "a@b.co",
		HashedPassword: "$2a$10$something",
	}
	require.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
