package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/99minutos/todo-system/internal/core/domain"
	"github.com/99minutos/todo-system/internal/core/ports"
	"github.com/99minutos/todo-system/internal/pkg/password"
	"github.com/99minutos/todo-system/internal/pkg/token"
)

const minPasswordLength = 6

var validate = validator.New()

// PasswordHasher abstracts the one-way password hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenCodec abstracts signing and verifying bearer tokens.
type TokenCodec interface {
	Issue(subjectID, scope string) (string, error)
	Verify(token string) (*token.Claims, error)
}

// AuthService is the credential store: it owns users, their password hashes
// and their lists of active tokens.
type AuthService struct {
	repo   ports.UserRepository
	hasher PasswordHasher
	codec  TokenCodec
	cache  ports.TokenCache
	log    zerolog.Logger
}

// NewAuthService wires the credential store. cache may be nil, in which case
// every token is resolved against the repository.
func NewAuthService(repo ports.UserRepository, hasher PasswordHasher, codec TokenCodec, cache ports.TokenCache, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, codec: codec, cache: cache, log: log}
}

// CreateUser validates and stores a new user. The password is trimmed and
// hashed before it reaches the repository.
func (s *AuthService) CreateUser(ctx context.Context, email, plaintext string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	plaintext = strings.TrimSpace(plaintext)
	if err := validateCredentials(email, plaintext); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &domain.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// IssueToken signs a new auth token for user and appends it to the user's
// token list.
func (s *AuthService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	tok, err := s.codec.Issue(user.ID, domain.ScopeAuth)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	entry := domain.Token{Scope: domain.ScopeAuth, Value: tok}
	if err := s.repo.PushToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)
	return tok, nil
}

// RevokeToken removes tok from the user's token list and evicts it from the
// cache. Revoking a token that is not on the list is a no-op. A failed
// eviction is returned so the caller can retry; the token is already gone
// from the store by then.
func (s *AuthService) RevokeToken(ctx context.Context, user *domain.User, tok string) error {
	if err := s.repo.PullToken(ctx, user.ID, tok); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}

	kept := user.Tokens[:0]
	for _, t := range user.Tokens {
		if t.Value != tok {
			kept = append(kept, t)
		}
	}
	user.Tokens = kept

	if s.cache != nil {
		if err := s.cache.Delete(ctx, tok); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to evict revoked token from cache")
			return fmt.Errorf("evict token: %w", err)
		}
	}
	return nil
}

// FindByCredentials returns the user registered under email if password
// matches the stored hash.
func (s *AuthService) FindByCredentials(ctx context.Context, email, plaintext string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, domain.ErrBadPassword
	}
	return user, nil
}

// FindByToken resolves tok to its owner. The signature must verify and the
// exact token must still be on the owner's list of auth tokens.
func (s *AuthService) FindByToken(ctx context.Context, tok string) (*domain.User, error) {
	claims, err := s.codec.Verify(tok)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Scope != domain.ScopeAuth || domain.ValidateID(claims.SubjectID) != nil {
		return nil, domain.ErrUnauthenticated
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, tok)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("token cache lookup failed, falling back to store")
		case ok && cached.ID == claims.SubjectID:
			return cached, nil
		}
	}

	user, err := s.repo.FindByToken(ctx, claims.SubjectID, domain.ScopeAuth, tok)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user by token: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tok, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to cache token")
		}
	}
	return user, nil
}

// Register creates a user and issues its first token.
func (s *AuthService) Register(ctx context.Context, email, plaintext string) (*domain.User, string, error) {
	user, err := s.CreateUser(ctx, email, plaintext)
	if err != nil {
		return nil, "", err
	}

	tok, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, tok, nil
}

// Login checks credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*domain.User, string, error) {
	user, err := s.FindByCredentials(ctx, email, plaintext)
	if err != nil {
		return nil, "", err
	}

	tok, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Int("active_tokens", len(user.Tokens)).Msg("user logged in")
	return user, tok, nil
}

// validateCredentials checks already-trimmed registration input.
func validateCredentials(email, plaintext string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return domain.NewValidationError("email", "must be a valid email")
	}
	if utf8.RuneCountInString(plaintext) < minPasswordLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(plaintext) > password.MaxLength {
		return domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", password.MaxLength))
	}
	return nil
}
