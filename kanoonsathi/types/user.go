// kanoonsathi/types/user.go
package types

// User is the identity record issued by the auth backend. Timestamps are
// passed through as the backend formats them; this tier never rewrites them.
type User struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login"`
	IsActive  bool    `json:"is_active"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email,omitempty"`
}

type ProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
