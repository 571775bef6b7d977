package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"expense-log-be/internal/config"
	"expense-log-be/internal/constant"
	"expense-log-be/internal/dto"
	"expense-log-be/internal/pkg/logger"
	"expense-log-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = serverutils.NewAppError(fiber.StatusUnauthorized, constant.MsgInvalidLogin)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

// authService signs in the single configured user.
type authService struct {
	username     string
	passwordHash []byte
	secret       []byte
	tokenTTL     time.Duration
	logger       logger.ILogger
	now          func() time.Time
}

func NewAuthService(cfg config.AuthConfig, jwtSecret string, log logger.ILogger) IAuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(jwtSecret),
		tokenTTL:     ttl,
		logger:       log,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userOK || err != nil {
		s.logger.Warn(logger.ModuleAuth, "Failed login attempt", map[string]interface{}{
			"username": req.Username,
		})
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials.Wrap(err)
		}
		return nil, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub": s.username,
		"iat": s.now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	s.logger.Info(logger.ModuleAuth, "User logged in", map[string]interface{}{
		"username": s.username,
	})

	return &dto.LoginResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// HashPassword produces the value expected in AUTH_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
