package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/models"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/utils"
	"github.com/gallahphu-bit/atlasyield/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service handles account lifecycle and token issuance. Tokens carry a
// version; bumping the user's version invalidates every outstanding
// token at once.
type Service interface {
	Register(input models.CreateUserInput) (*models.User, error)
	Login(email, password, ip string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type service struct {
	users   repositories.UserRepository
	wallets repositories.WalletRepository
	logger  *zap.Logger
}

// NewService creates a new auth service.
func NewService(users repositories.UserRepository, wallets repositories.WalletRepository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{users: users, wallets: wallets, logger: logger}
}

// Register creates a pending account with an empty wallet. The account
// stays pending until an admin activates it.
func (s *service) Register(input models.CreateUserInput) (*models.User, error) {
	v := validation.New()
	v.UserRegistration(&input)
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, v.First())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  string(hashed),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Country:   input.Country,
		Role:      models.RoleUser,
		Status:    models.UserStatusPending,
	}
	if err := s.users.Create(user); err != nil {
		if err == repositories.ErrDuplicateEmail {
			return nil, ErrEmailTaken
		}
		s.logger.Error("registration failed", zap.String("email", user.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The wallet is created eagerly so the account always has one; a
	// failure here is recovered lazily on first wallet access.
	wallet := &models.Wallet{UserID: user.ID, Currency: "USD"}
	if err := s.wallets.Create(wallet); err != nil {
		s.logger.Warn("wallet create on register failed", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.WalletID = &wallet.ID
		user.Wallet = wallet
		if err := s.users.Update(user); err != nil {
			s.logger.Warn("wallet link failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *service) Login(email, password, ip string) (*models.User, string, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("login rejected", zap.Uint("user_id", user.ID), zap.String("ip", ip))
		return nil, "", "", ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, "", "", ErrAccountSuspended
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		s.logger.Error("token generation failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.LastLoginAt = time.Now()
	user.LastLoginIP = ip
	if err := s.users.Update(user); err != nil {
		s.logger.Warn("last login update failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidToken
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", "", ErrInvalidToken
	}
	if user.Status == models.UserStatusSuspended {
		return "", "", ErrAccountSuspended
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
}

func (s *service) Logout(userID uint) error {
	return s.users.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < 8 || !validation.HasSpecialChar(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	user.TokenVersion++ // Invalidate existing tokens

	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
