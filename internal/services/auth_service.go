package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lensfolio/backoffice/internal/auth"
	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/pkg/crypto"
	apperrors "github.com/lensfolio/backoffice/pkg/errors"
	"github.com/lensfolio/backoffice/pkg/metrics"
)

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}

// RegisterInput carries the self-registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult bundles the issued token with the authenticated user.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

// AuthService implements credential verification and token issuance.
type AuthService struct {
	db           *gorm.DB
	jwt          *auth.JWTService
	resolver     *rbac.Resolver
	users        *UserService
	auditService *AuditService
	tokenTTL     time.Duration
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(db *gorm.DB, jwt *auth.JWTService, resolver *rbac.Resolver, users *UserService, auditService *AuditService, tokenTTL time.Duration) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	if resolver == nil {
		return nil, errors.New("auth service: resolver is required")
	}
	if users == nil {
		return nil, errors.New("auth service: user service is required")
	}
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultAccessTokenTTL
	}
	return &AuthService{
		db:           db,
		jwt:          jwt,
		resolver:     resolver,
		users:        users,
		auditService: auditService,
		tokenTTL:     tokenTTL,
	}, nil
}

// Register creates a new account with no roles or permissions attached.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	ctx = ensureContext(ctx)

	user, err := s.users.Create(ctx, CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateAccessToken(auth.AccessTokenInput{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return &AuthResult{Token: token, ExpiresIn: int64(s.tokenTTL.Seconds()), User: user}, nil
}

// Login verifies credentials and issues a signed access token. Failures are
// indistinguishable to the caller whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	ctx = ensureContext(ctx)

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Password) == "" {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		recordAudit(s.auditService, ctx, AuditEntry{
			UserID:    &user.ID,
			Action:    "auth.login",
			Resource:  "user:" + user.ID,
			Result:    "denied",
			IPAddress: input.IPAddress,
			Details:   map[string]any{"reason": "inactive"},
		})
		return nil, apperrors.ErrInvalidCredentials
	}

	if !crypto.VerifyPassword(user.Password, input.Password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		recordAudit(s.auditService, ctx, AuditEntry{
			UserID:    &user.ID,
			Action:    "auth.login",
			Resource:  "user:" + user.ID,
			Result:    "failure",
			IPAddress: input.IPAddress,
		})
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(auth.AccessTokenInput{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	now := time.Now()
	update := map[string]any{"last_login_at": now}
	if ip := strings.TrimSpace(input.IPAddress); ip != "" {
		update["last_login_ip"] = ip
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(update).Error; err != nil {
		return nil, fmt.Errorf("auth service: record login: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:    &user.ID,
		Action:    "auth.login",
		Resource:  "user:" + user.ID,
		Result:    "success",
		IPAddress: input.IPAddress,
	})

	return &AuthResult{Token: token, ExpiresIn: int64(s.tokenTTL.Seconds()), User: user}, nil
}

// CurrentUser returns the authenticated user together with their resolved
// permission keys.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*UserAccess, error) {
	ctx = ensureContext(ctx)

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	keys, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth service: resolve permissions: %w", err)
	}

	return &UserAccess{
		User:              *user,
		Roles:             user.Roles,
		DirectPermissions: user.DirectPermissions,
		EffectiveKeys:     keys,
	}, nil
}

// Logout records the logout event. Tokens are stateless, so this is an
// audit-only operation.
func (s *AuthService) Logout(ctx context.Context, userID, ipAddress string) {
	ctx = ensureContext(ctx)

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:    &userID,
		Action:    "auth.logout",
		Resource:  "user:" + userID,
		Result:    "success",
		IPAddress: ipAddress,
	})
}
