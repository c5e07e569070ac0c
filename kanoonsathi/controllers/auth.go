// kanoonsathi/controllers/auth.go
package controllers

import (
	"context"

	"go.uber.org/zap"

	"kanoonsathi/kanoonsathi/session"
	"kanoonsathi/kanoonsathi/types"
	"kanoonsathi/kanoonsathi/utils/logging"
)

// AuthController fronts the session store for the auth routes and resets chat
// state whenever the identity changes, since server chats and guest chatrooms
// never belong to the same list.
type AuthController struct {
	store *session.Store
	chat  *ChatController
}

func NewAuthController(store *session.Store, chat *ChatController) *AuthController {
	return &AuthController{store: store, chat: chat}
}

func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) error {
	if err := c.store.Login(ctx, req.Username, req.Password); err != nil {
		return err
	}
	c.reloadChats(ctx)
	return nil
}

func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) error {
	if err := c.store.Register(ctx, req.Username, req.Password, req.ConfirmPassword, req.Email); err != nil {
		return err
	}
	c.reloadChats(ctx)
	return nil
}

func (c *AuthController) Logout(ctx context.Context) {
	c.store.Logout()
	c.reloadChats(ctx)
}

// reloadChats rebuilds the conversation list for the new identity. The login
// or logout itself already succeeded, so a failed reload only logs; the next
// refresh will retry.
func (c *AuthController) reloadChats(ctx context.Context) {
	c.chat.Reset()
	if err := c.chat.Bootstrap(ctx); err != nil {
		logging.AppLogger.Warn("conversation reload failed", zap.Error(err))
	}
}

func (c *AuthController) UpdateProfile(ctx context.Context, req types.ProfileRequest) (*types.User, error) {
	if err := c.store.UpdateProfile(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}
	return c.store.User(), nil
}

func (c *AuthController) Token() string {
	return c.store.Token()
}

func (c *AuthController) CurrentUser() *types.User {
	return c.store.User()
}

func (c *AuthController) Authenticated() bool {
	return c.store.Authenticated()
}
