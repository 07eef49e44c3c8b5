package auth

import (
	"testing"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories/repotest"
	"github.com/gallahphu-bit/atlasyield/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registrationInput() models.CreateUserInput {
	return models.CreateUserInput{
		Email:     "Investor@Example.com",
		Password:  "s3cret!pass",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func newTestService(t *testing.T) (Service, *repotest.FakeUserRepo, *repotest.FakeWalletRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	users := repotest.NewFakeUserRepo()
	wallets := repotest.NewFakeWalletRepo()
	return NewService(users, wallets, nil), users, wallets
}

func TestRegister(t *testing.T) {
	t.Run("creates pending account with wallet", func(t *testing.T) {
		svc, _, wallets := newTestService(t)

		user, err := svc.Register(registrationInput())
		require.NoError(t, err)

		assert.Equal(t, "investor@example.com", user.Email, "email is normalized")
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, models.UserStatusPending, user.Status)
		assert.NotEqual(t, "s3cret!pass", user.Password, "password must be hashed")
		require.NotNil(t, user.WalletID)

		w := wallets.Wallet(user.ID)
		assert.Equal(t, user.ID, w.UserID)
		assert.Zero(t, w.Balance)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(registrationInput())
		require.NoError(t, err)

		_, err = svc.Register(registrationInput())
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		in := registrationInput()
		in.Password = "short"
		_, err := svc.Register(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues versioned tokens", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registered, err := svc.Register(registrationInput())
		require.NoError(t, err)

		user, access, refresh, err := svc.Login("investor@example.com", "s3cret!pass", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		_, claims, err := utils.ParseToken(access)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.TokenVersion, claims.TokenVersion)
		assert.Contains(t, claims.Permissions, models.PermissionWalletWrite)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Register(registrationInput())
		require.NoError(t, err)

		_, _, _, err = svc.Login("investor@example.com", "wrong!pass", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, _, _, err := svc.Login("nobody@example.com", "whatever!", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects suspended account", func(t *testing.T) {
		svc, users, _ := newTestService(t)
		registered, err := svc.Register(registrationInput())
		require.NoError(t, err)

		u, _ := users.GetByID(registered.ID)
		u.Status = models.UserStatusSuspended
		require.NoError(t, users.Update(u))

		_, _, _, err = svc.Login("investor@example.com", "s3cret!pass", "")
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestRefreshTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Register(registrationInput())
	require.NoError(t, err)

	_, _, refresh, err := svc.Login("investor@example.com", "s3cret!pass", "")
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshTokens(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access2)
	assert.NotEmpty(t, refresh2)

	_, _, err = svc.RefreshTokens("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout_RevokesOutstandingTokens(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered, err := svc.Register(registrationInput())
	require.NoError(t, err)

	_, _, refresh, err := svc.Login("investor@example.com", "s3cret!pass", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(registered.ID))
	assert.Greater(t, users.User(registered.ID).TokenVersion, registered.TokenVersion)

	_, _, err = svc.RefreshTokens(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "old refresh token must be dead after logout")
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newTestService(t)
	registered, err := svc.Register(registrationInput())
	require.NoError(t, err)

	t.Run("rejects wrong old password", func(t *testing.T) {
		err := svc.ChangePassword(registered.ID, "wrong!pass", "newpass!123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects weak new password", func(t *testing.T) {
		err := svc.ChangePassword(registered.ID, "s3cret!pass", "allletters")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("updates hash and bumps token version", func(t *testing.T) {
		before := users.User(registered.ID).TokenVersion

		require.NoError(t, svc.ChangePassword(registered.ID, "s3cret!pass", "newpass!123"))

		after := users.User(registered.ID)
		assert.Greater(t, after.TokenVersion, before)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(after.Password), []byte("newpass!123")))
	})
}
