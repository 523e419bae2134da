package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Arijit634/job-management-api/internal/blacklist"
	"github.com/Arijit634/job-management-api/internal/config"
	"github.com/Arijit634/job-management-api/internal/domain"
	pw "github.com/Arijit634/job-management-api/internal/password"
	"github.com/Arijit634/job-management-api/internal/repository"
	"github.com/Arijit634/job-management-api/internal/token"
)

// ErrInvalidCredentials is returned for every login failure. It never says
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameTaken is returned when registering an already-used username.
var ErrUsernameTaken = errors.New("username already taken")

// TokenResponse is the login payload carrying the bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// LogoutOutcome reports whether a session was actually ended. Both outcomes
// are success to the caller; logout is idempotent and never errors.
type LogoutOutcome int

const (
	// LoggedOut means a bearer token was present and has been revoked.
	LoggedOut LogoutOutcome = iota
	// NoActiveSession means no bearer token accompanied the request.
	NoActiveSession
)

// Message returns the response body for the outcome.
func (o LogoutOutcome) Message() string {
	if o == LoggedOut {
		return "Logged out successfully"
	}
	return "No active session to logout"
}

// AuthService issues sessions at login and revokes them at logout.
type AuthService struct {
	users     repository.UserRepository
	codec     *token.Codec
	blacklist *blacklist.Store
	node      *snowflake.Node
	cfg       config.Config
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, codec *token.Codec, store *blacklist.Store, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		codec:     codec,
		blacklist: store,
		node:      node,
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer("github.com/Arijit634/job-management-api/internal/service"),
	}
}

// Login verifies the credentials and mints a bearer token for the subject.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(username))
	user, err := s.users.GetByUsername(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		return nil, ErrInvalidCredentials
	}

	valid, err := pw.Verify(password, user.PasswordHash)
	if err != nil || !valid {
		span.RecordError(fmt.Errorf("invalid password"))
		return nil, ErrInvalidCredentials
	}

	access, err := s.codec.Issue(user.Username, s.cfg.TokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.audit("login.success", "username", user.Username)
	return &TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.cfg.TokenTTL.Seconds()),
	}, nil
}

// Logout revokes the bearer token carried by the Authorization header, if
// any. Invalid or missing tokens never error; revocation of garbage is
// harmless and the sweep drops it later.
func (s *AuthService) Logout(authorizationHeader string) LogoutOutcome {
	raw, ok := token.FromAuthorizationHeader(authorizationHeader)
	if !ok {
		return NoActiveSession
	}
	s.blacklist.Revoke(raw)
	s.audit("logout.success", "blacklist_size", s.blacklist.Size())
	return LoggedOut
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(ctx context.Context, username, password, name string) (domain.User, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(username))
	if _, err := s.users.GetByUsername(ctx, normalized); err == nil {
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("register lookup: %w", err)
	}

	hashed, err := pw.Hash(password)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.node.Generate().Int64(),
		Username:     normalized,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
	})
	if err != nil {
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.audit("register.success", "username", created.Username)
	return created, nil
}

// BlacklistSize exposes the revocation store size for diagnostics.
func (s *AuthService) BlacklistSize() int {
	return s.blacklist.Size()
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
