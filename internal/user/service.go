package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gameswap/gameswap/internal/event"
)

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials indicates a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingFields indicates required registration fields are absent.
	ErrMissingFields = errors.New("name, email and password are required")
)

// Service manages the user lifecycle.
type Service struct {
	repo      Repository
	publisher event.Publisher
}

// NewService creates a new user service.
func NewService(repo Repository, publisher event.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// RegisterInput captures the data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return User{}, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		Address:      input.Address,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Get retrieves a user by identifier.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// Authenticate verifies email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateInput carries optional profile changes. Empty fields are left as-is.
type UpdateInput struct {
	Name     string
	Address  string
	Password string
}

// Update applies profile changes. A password change re-hashes the credential
// and emits PASSWORD_CHANGED for the notification pipeline. The publish
// happens after the store commit; a publish failure surfaces to the caller
// even though the update already took effect.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Address != "" {
		user.Address = input.Address
	}

	passwordChanged := false
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if passwordChanged {
		return s.publisher.Publish(ctx, event.TypePasswordChanged, event.PasswordChangedEvent{
			UserID: user.ID,
			Email:  user.Email,
		})
	}
	return nil
}
