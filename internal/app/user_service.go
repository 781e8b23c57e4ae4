package app

import (
	"context"
	"errors"
	"fmt"

	"inno-quiz-service/internal/domain"
)

// Scopes understood by the service.
const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, password string) bool
}

// TokenCodec issues access tokens and decodes them back into subject + scopes.
type TokenCodec interface {
	Issue(subject string, scopes []string) (string, error)
	Decode(token string) (subject string, scopes []string, err error)
}

// UserService handles registration, login and account management.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenCodec
}

func NewUserService(users UserRepository, hasher PasswordHasher, tokens TokenCodec) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a regular account. Username and email must be unused.
func (s *UserService) Register(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	if err := s.ensureAvailable(ctx, 0, draft.Username, draft.Email); err != nil {
		return domain.User{}, err
	}

	hashed, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Username:       draft.Username,
		Email:          draft.Email,
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    draft.IsSuperuser,
	}
	if draft.IsActive != nil {
		user.IsActive = *draft.IsActive
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// CreateSuperuser registers an active administrator account.
func (s *UserService) CreateSuperuser(ctx context.Context, username, email, password string) (domain.User, error) {
	active := true
	return s.Register(ctx, domain.UserDraft{
		Username:    username,
		Email:       email,
		Password:    password,
		IsActive:    &active,
		IsSuperuser: true,
	})
}

// Login verifies credentials and issues a bearer token carrying the granted
// subset of the requested scopes.
func (s *UserService) Login(ctx context.Context, username, password string, requested []string) (domain.Token, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Token{}, domain.ErrInvalidCredentials
		}
		return domain.Token{}, err
	}
	if !s.hasher.Verify(user.HashedPassword, password) {
		return domain.Token{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, GrantScopes(user, requested))
	if err != nil {
		return domain.Token{}, fmt.Errorf("issue token: %w", err)
	}
	return domain.Token{AccessToken: token, TokenType: "bearer"}, nil
}

// GrantScopes keeps the requested scopes the user may hold. The user scope is
// always granted; admin only to superusers.
func GrantScopes(user domain.User, requested []string) []string {
	granted := []string{ScopeUser}
	for _, scope := range requested {
		if scope == ScopeAdmin && user.IsSuperuser {
			granted = append(granted, ScopeAdmin)
			break
		}
	}
	return granted
}

// Authenticate resolves a bearer token to its active user and granted scopes.
func (s *UserService) Authenticate(ctx context.Context, token string) (domain.User, []string, error) {
	subject, scopes, err := s.tokens.Decode(token)
	if err != nil {
		return domain.User{}, nil, domain.ErrInvalidToken
	}
	user, err := s.users.GetUserByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, nil, domain.ErrInvalidToken
		}
		return domain.User{}, nil, err
	}
	if !user.IsActive {
		return domain.User{}, nil, domain.ErrInactiveUser
	}
	return user, scopes, nil
}

// GetUser returns an account visible to the actor.
func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id int64) (domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !domain.CanAccessUser(actor, id) {
		return domain.User{}, domain.ErrNotEnoughPermissions
	}
	return user, nil
}

// ListUsers pages through all accounts. Superusers only.
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, skip, limit int) ([]domain.User, error) {
	if !actor.IsSuperuser {
		return nil, domain.ErrNotEnoughPermissions
	}
	if skip < 0 {
		skip = 0
	}
	return s.users.ListUsers(ctx, skip, normalizeLimit(limit, 100))
}

// UpdateUser applies a partial update to an account the actor may access.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id int64, patch domain.UserPatch) (domain.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !domain.CanAccessUser(actor, id) {
		return domain.User{}, domain.ErrNotEnoughPermissions
	}

	username, email := "", ""
	if patch.Username != nil && *patch.Username != user.Username {
		username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != user.Email {
		email = *patch.Email
	}
	if err := s.ensureAvailable(ctx, user.ID, username, email); err != nil {
		return domain.User{}, err
	}

	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}
	if patch.Password != nil {
		hashed, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}

	if err := s.users.UpdateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account the actor may access.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.users.GetUser(ctx, id); err != nil {
		return err
	}
	if !domain.CanAccessUser(actor, id) {
		return domain.ErrNotEnoughPermissions
	}
	return s.users.DeleteUser(ctx, id)
}

// ensureAvailable fails when username or email belongs to an account other
// than selfID. Empty values are not checked.
func (s *UserService) ensureAvailable(ctx context.Context, selfID int64, username, email string) error {
	if username != "" {
		existing, err := s.users.GetUserByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return domain.ErrUsernameTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := s.users.GetUserByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return err
		}
	}
	return nil
}
