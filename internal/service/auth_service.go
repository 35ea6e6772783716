package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sie-ecommerce/enrollment-api/internal/models"
	"github.com/sie-ecommerce/enrollment-api/pkg/config"
	"github.com/sie-ecommerce/enrollment-api/pkg/errors"
)

type identityStore interface {
	FindByCredentials(ctx context.Context, email, phone string) (*models.AuthorizedUser, error)
	LogAccess(ctx context.Context, unit, name string, at time.Time) error
}

type lockoutCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AuthService authenticates unit operators against the authorized users
// sheet and gates the cross-unit admin surface behind a throttled password.
type AuthService struct {
	identity identityStore
	cache    lockoutCache
	jwtCfg   config.JWTConfig
	adminCfg config.AdminConfig
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService wires the service.
func NewAuthService(
	identity identityStore,
	cache lockoutCache,
	jwtCfg config.JWTConfig,
	adminCfg config.AdminConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		identity: identity,
		cache:    cache,
		jwtCfg:   jwtCfg,
		adminCfg: adminCfg,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// Login resolves the credential pair, records the access and issues an
// operator token bound to the operator's unit.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, err.Error())
	}

	user, err := s.identity.FindByCredentials(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.identity.LogAccess(ctx, user.Unit, user.Name, s.now()); err != nil {
		// A failed audit append must not block the login itself.
		s.logger.Warn("login event not recorded", zap.String("unit", user.Unit), zap.Error(err))
	}

	token, err := s.issueToken(user.Unit, user.Name, models.RoleOperator)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", zap.String("unit", user.Unit), zap.String("name", user.Name))

	return &models.LoginResponse{Token: token, Unit: user.Unit, Name: user.Name}, nil
}

// AdminUnlock upgrades an operator session to admin after checking the gate
// password. Repeated failures lock the caller out for a configured window.
func (s *AuthService) AdminUnlock(ctx context.Context, claims models.Claims, req models.AdminUnlockRequest) (*models.AdminUnlockResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation.Code, errors.ErrValidation.Status, err.Error())
	}
	if s.adminCfg.PasswordHash == "" {
		return nil, errors.Clone(errors.ErrForbidden, "admin access not configured")
	}

	lockKey := adminLockKey(claims.Name)
	if s.cache != nil {
		var locked bool
		if err := s.cache.Get(ctx, lockKey, &locked); err == nil && locked {
			return nil, errors.ErrAdminLocked
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminCfg.PasswordHash), []byte(req.Password)); err != nil {
		s.registerFailedAttempt(ctx, claims.Name, lockKey)
		return nil, errors.Clone(errors.ErrUnauthorized, "wrong admin password")
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, adminAttemptsKey(claims.Name))
	}

	token, err := s.issueToken(claims.Unit, claims.Name, models.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin unlocked", zap.String("unit", claims.Unit), zap.String("name", claims.Name))

	return &models.AdminUnlockResponse{Token: token}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.Clone(errors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(unit, name, role string) (string, error) {
	now := s.now()
	claims := models.Claims{
		Unit: unit,
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.Expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "sign token")
	}
	return signed, nil
}

func (s *AuthService) registerFailedAttempt(ctx context.Context, name, lockKey string) {
	if s.cache == nil {
		return
	}

	attempts, err := s.cache.Increment(ctx, adminAttemptsKey(name), s.adminCfg.LockoutDuration)
	if err != nil {
		s.logger.Warn("admin attempt counter failed", zap.String("name", name), zap.Error(err))
		return
	}
	if s.adminCfg.MaxAttempts > 0 && attempts >= int64(s.adminCfg.MaxAttempts) {
		if err := s.cache.Set(ctx, lockKey, true, s.adminCfg.LockoutDuration); err != nil {
			s.logger.Warn("admin lockout write failed", zap.String("name", name), zap.Error(err))
		}
		_ = s.cache.Delete(ctx, adminAttemptsKey(name))
		s.logger.Warn("admin gate locked", zap.String("name", name), zap.Int64("attempts", attempts))
	}
}

func adminAttemptsKey(name string) string {
	return fmt.Sprintf("admin:attempts:%s", name)
}

func adminLockKey(name string) string {
	return fmt.Sprintf("admin:lock:%s", name)
}
