package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService manages accounts under the users key and the active user
// under currentUser.
type UserService struct {
	store store.Store
	cfg   UserServiceConfig
	// mu serializes read-modify-write of the users list.
	mu sync.Mutex
}

// UserServiceConfig configures a UserService.
type UserServiceConfig struct {
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// NewUserService creates a user service backed by s.
func NewUserService(s store.Store, cfg UserServiceConfig) *UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &UserService{store: s, cfg: cfg}
}

// RegisterRequest holds the fields of a new account.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
}

// Register creates an account and makes it the current user.
// Username, password and name are required and usernames are unique.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return User{}, errs.NewValidation("register", "please fill in all required fields")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return User{}, errs.NewValidation("password", "%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Username == req.Username {
			return User{}, errs.NewValidation("username", "Username already exists")
		}
	}

	user := User{
		Username:     req.Username,
		Password:     string(hash),
		Name:         req.Name,
		Organization: strings.TrimSpace(req.Organization),
		CreatedAt:    time.Now().UTC(),
	}
	users = append(users, user)
	if err := store.SetJSON(ctx, s.store, KeyUsers, users); err != nil {
		return User{}, err
	}

	s.setCurrent(ctx, user)
	logrus.Infof("registered user %s", user.Username)
	return user.Public(), nil
}

// Login checks the credentials and makes the user current.
func (s *UserService) Login(ctx context.Context, username, password string) (User, error) {
	user, err := s.Get(ctx, username)
	if errs.IsNotFound(err) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logrus.Infof("failed login for user %s", username)
		return User{}, ErrInvalidCredentials
	}

	s.setCurrent(ctx, user)
	logrus.Infof("user %s logged in", username)
	return user.Public(), nil
}

// Logout removes the user's draft and clears the current user.
func (s *UserService) Logout(ctx context.Context, username string) error {
	var result error
	if err := store.Delete(ctx, s.store, DraftKey(username)); err != nil {
		result = errors.Join(result, err)
	}

	current, err := s.Current(ctx)
	if err != nil {
		result = errors.Join(result, err)
	} else if current != nil && current.Username == username {
		if err := store.Delete(ctx, s.store, KeyCurrentUser); err != nil {
			result = errors.Join(result, err)
		}
	}

	logrus.Infof("user %s logged out", username)
	return result
}

// Get returns the stored account including the password hash.
func (s *UserService) Get(ctx context.Context, username string) (User, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, errs.NewNotFound("user", username)
}

// Current returns the active user, or nil when nobody is logged in.
func (s *UserService) Current(ctx context.Context) (*User, error) {
	var user User
	err := store.GetJSON(ctx, s.store, KeyCurrentUser, &user)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) setCurrent(ctx context.Context, user User) {
	if err := store.SetJSON(ctx, s.store, KeyCurrentUser, user.Public()); err != nil {
		logrus.Warnf("failed to record current user %s: %v", user.Username, err)
	}
}

func (s *UserService) loadUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := store.GetJSON(ctx, s.store, KeyUsers, &users)
	if errors.Is(err, store.ErrNotFound) {
		return []User{}, nil
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}
