package pawmart

import (
	"context"
	"encoding/json"

	"github.com/pawmart/pawmart-go/internal/session"
	internalTypes "github.com/pawmart/pawmart-go/internal/types"
)

// authService implements the AuthService interface on top of the internal
// session manager.
type authService struct {
	client  *Client
	manager *session.Manager
}

// convertSession converts the internal session to the public type
func convertSession(s *internalTypes.Session) *Session {
	if s == nil {
		return nil
	}
	return &Session{
		Token:      s.Token,
		UserID:     s.UserID,
		Email:      s.Email,
		ExpiresAt:  s.ExpiresAt,
		DeviceUUID: s.DeviceUUID,
	}
}

// Login authenticates and loads the user profile. A profile-load failure
// after a successful login degrades to a minimal profile carrying the login
// identifier; it never fails the login itself.
func (a *authService) Login(ctx context.Context, identifier, password string) (*UserProfile, error) {
	if _, err := a.manager.Login(ctx, identifier, password); err != nil {
		return nil, err
	}

	profile, err := a.client.Users.Me(ctx)
	if err != nil {
		if a.client.options.Logger != nil {
			a.client.options.Logger.Warn("Profile load after login failed, using minimal profile", "error", err)
		}
		profile = &UserProfile{Email: identifier}
	}

	if data, err := json.Marshal(profile); err == nil {
		if err := a.manager.StoreUser(data); err != nil && a.client.options.Logger != nil {
			a.client.options.Logger.Warn("Failed to persist user profile", "error", err)
		}
	}

	return profile, nil
}

// Logout best-effort notifies the server and always clears local state
func (a *authService) Logout(ctx context.Context) {
	a.manager.Logout(ctx)
}

// Refresh exchanges the persisted token for a new one
func (a *authService) Refresh(ctx context.Context) (string, error) {
	return a.manager.Refresh(ctx)
}

// Session returns the current session
func (a *authService) Session() (*Session, error) {
	s := a.manager.Session()
	if s == nil {
		return nil, ErrNotAuthenticated
	}
	return convertSession(s), nil
}
