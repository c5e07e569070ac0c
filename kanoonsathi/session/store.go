// kanoonsathi/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"kanoonsathi/kanoonsathi/services/authapi"
	"kanoonsathi/kanoonsathi/types"
	httputils "kanoonsathi/kanoonsathi/utils/http"
	"kanoonsathi/kanoonsathi/utils/logging"
	"kanoonsathi/kanoonsathi/utils/validation"
)

// AuthAPI is the slice of the auth backend the store needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*authapi.Credentials, error)
	Register(ctx context.Context, username, password, email string) (*authapi.Credentials, error)
	UpdateProfile(ctx context.Context, token string, update authapi.ProfileUpdate) (*types.User, error)
}

// ErrNoChanges is returned by UpdateProfile when the submitted profile is
// identical to the current one; no request is made in that case.
var ErrNoChanges = errors.New("No changes to save")

const networkErrorMessage = "Network error. Please try again."

// persistedState is the on-disk session: the opaque token and the serialized
// user record, both kept as strings.
type persistedState struct {
	AuthToken string `json:"auth_token"`
	UserData  string `json:"user_data"`
}

// Store owns the authentication session: the current identity, the backend
// token, and their on-disk copy. It is created unauthenticated; Restore runs
// once at startup, before anything that depends on auth state.
type Store struct {
	mu       sync.Mutex
	api      AuthAPI
	path     string
	user     *types.User
	token    string
	restored bool
}

func NewStore(api AuthAPI, path string) *Store {
	return &Store{api: api, path: path}
}

// Restore loads persisted credentials if present and structurally valid. A
// corrupt or expired state file is deleted and the session stays
// unauthenticated. Only the first call does anything.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored {
		return
	}
	s.restored = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil || state.AuthToken == "" {
		logging.AppLogger.Warn("discarding unreadable session state", zap.Error(err))
		os.Remove(s.path)
		return
	}
	var user types.User
	if err := json.Unmarshal([]byte(state.UserData), &user); err != nil || user.ID == "" {
		logging.AppLogger.Warn("discarding unreadable user record", zap.Error(err))
		os.Remove(s.path)
		return
	}
	if tokenExpired(state.AuthToken) {
		logging.AppLogger.Info("discarding expired session token")
		os.Remove(s.path)
		return
	}
	s.user = &user
	s.token = state.AuthToken
}

// tokenExpired peeks at the exp claim when the token happens to be a JWT. The
// token is contractually opaque, so anything that does not parse is kept and
// left for the backend to judge.
func tokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Store) Login(ctx context.Context, username, password string) error {
	if err := validation.ValidateLogin(username, password); err != nil {
		return err
	}
	creds, err := s.api.Login(ctx, username, password)
	if err != nil {
		return failure(err, "Login failed")
	}
	s.adopt(creds)
	return nil
}

func (s *Store) Register(ctx context.Context, username, password, confirmPassword, email string) error {
	if err := validation.ValidateRegistration(username, password, confirmPassword, email); err != nil {
		return err
	}
	creds, err := s.api.Register(ctx, username, password, email)
	if err != nil {
		return failure(err, "Registration failed")
	}
	s.adopt(creds)
	return nil
}

// Logout drops the in-memory identity and the persisted copy. Safe to call
// when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	os.Remove(s.path)
}

// UpdateProfile sends only the changed fields and adopts the backend's
// returned user record, which wins over whatever was submitted.
func (s *Store) UpdateProfile(ctx context.Context, username, email string) error {
	if err := validation.ValidateProfile(username, email); err != nil {
		return err
	}

	s.mu.Lock()
	current := s.user
	token := s.token
	s.mu.Unlock()
	if current == nil || token == "" {
		return errors.New("Not authenticated")
	}

	var update authapi.ProfileUpdate
	if username != current.Username {
		update.Username = &username
	}
	currentEmail := ""
	if current.Email != nil {
		currentEmail = *current.Email
	}
	if email != currentEmail {
		update.Email = &email
	}
	if update.Username == nil && update.Email == nil {
		return ErrNoChanges
	}

	user, err := s.api.UpdateProfile(ctx, token, update)
	if err != nil {
		return failure(err, "Profile update failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.persistLocked()
	return nil
}

// Authenticated is true iff both the user record and the token are present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.token != ""
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current identity, or nil when logged out.
func (s *Store) User() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) adopt(creds *authapi.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := creds.User
	s.user = &user
	s.token = creds.Token
	s.persistLocked()
}

func (s *Store) persistLocked() {
	userData, err := json.Marshal(s.user)
	if err != nil {
		logging.ErrorLogger.Error("marshal user record", zap.Error(err))
		return
	}
	state := persistedState{AuthToken: s.token, UserData: string(userData)}
	data, err := json.Marshal(state)
	if err != nil {
		logging.ErrorLogger.Error("marshal session state", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		logging.ErrorLogger.Error("create state directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		logging.ErrorLogger.Error("write session state", zap.Error(err))
	}
}

// failure maps a client error to the message shown to the user: the backend's
// own error text when there was a reply, a generic network notice otherwise.
func failure(err error, fallback string) error {
	var statusErr *httputils.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Message != "" {
			return errors.New(statusErr.Message)
		}
		return errors.New(fallback)
	}
	return errors.New(networkErrorMessage)
}
