package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"timeledger/internal/domain"
	"timeledger/internal/errors"
	"timeledger/internal/repository/sqldb"
	"timeledger/internal/validation"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
)

// ErrSigningKeyMissing is returned when a token is requested without a configured secret
var ErrSigningKeyMissing = stderrors.New("JWT secret is not configured")

// tokenClaims are the claims of an access token. The subject is the user id.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	repo      sqldb.Repository
	mapper    *domain.Mapper
	validator *validation.UserValidator
	serviceOptions
}

// NewAuthService creates a new AuthService instance
func NewAuthService(repo sqldb.Repository, opts ...Option) AuthService {
	o := newServiceOptions(opts)
	return &authServiceImpl{
		repo:           repo,
		mapper:         domain.NewMapper(),
		validator:      validation.NewUserValidatorWithConfig(o.config),
		serviceOptions: o,
	}
}

// Register creates an account and returns a token for it
func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	if s.secret() == nil {
		return nil, ErrSigningKeyMissing
	}

	email = domain.NormalizeEmail(email)
	if err := s.validator.ValidateCredentials(email, password); err != nil {
		return nil, validation.ToAppError(err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, errors.NewConflictError(msgUserExists, nil)
	} else if !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(s.newID(), email, string(hash), s.now())
	dbUser := s.mapper.User.ToDatabase(user)
	if err := s.repo.CreateUser(ctx, &dbUser); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeConflict) {
			return nil, errors.NewConflictError(msgUserExists, err)
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return s.issue(user)
}

// Login checks the password and returns a fresh token
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	dbUser, err := s.repo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, errors.NewAuthenticationError(msgInvalidCredentials, nil)
		}
		return nil, err
	}

	user := s.mapper.User.FromDatabase(*dbUser)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewAuthenticationError(msgInvalidCredentials, nil)
	}

	return s.issue(user)
}

// VerifyToken resolves a token to the identity it was issued for
func (s *authServiceImpl) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	secret := s.secret()
	if secret == nil || strings.TrimSpace(token) == "" {
		return nil, errors.NewAuthenticationError(msgInvalidToken, nil)
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, errors.NewAuthenticationError(msgInvalidToken, err)
	}

	return &domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

func (s *authServiceImpl) issue(user domain.User) (*AuthResult, error) {
	secret := s.secret()
	if secret == nil {
		return nil, ErrSigningKeyMissing
	}

	now := s.now()
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl := s.config.Auth.TokenTTL; ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{Token: signed, User: user.Identity()}, nil
}

func (s *authServiceImpl) secret() []byte {
	if strings.TrimSpace(s.config.Auth.JWTSecret) == "" {
		return nil
	}
	return []byte(s.config.Auth.JWTSecret)
}

func (s *authServiceImpl) bcryptCost() int {
	if cost := s.config.Auth.BcryptCost; cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		return cost
	}
	return bcrypt.DefaultCost
}

