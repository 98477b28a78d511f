package pawmart

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	usersMeEndpoint        = "/users/me"
	usersPasswordEndpoint  = "/users/me/password"
	usersOTPEndpoint       = "/auth/otp"
	usersOTPVerifyEndpoint = "/auth/otp/verify"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// Me retrieves the full profile of the logged-in user
func (s *userService) Me(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := s.client.do(ctx, http.MethodGet, usersMeEndpoint, nil, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}
	return &profile, nil
}

// UpdateProfile updates editable profile fields
func (s *userService) UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*UserProfile, error) {
	var profile UserProfile
	if err := s.client.do(ctx, http.MethodPatch, usersMeEndpoint, params, &profile); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}
	return &profile, nil
}

// ChangePassword changes the account password
func (s *userService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]interface{}{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	if err := s.client.do(ctx, http.MethodPut, usersPasswordEndpoint, body, nil); err != nil {
		return errors.Wrap(err, "failed to change password")
	}
	return nil
}

// RequestOTP asks the server to send a one-time password
func (s *userService) RequestOTP(ctx context.Context, email string, purpose OTPPurpose) error {
	body := map[string]interface{}{
		"email":   email,
		"purpose": purpose,
	}
	if err := s.client.do(ctx, http.MethodPost, usersOTPEndpoint, body, nil); err != nil {
		return errors.Wrap(err, "failed to request OTP")
	}
	return nil
}

// VerifyOTP submits a one-time password
func (s *userService) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]interface{}{
		"email": email,
		"code":  code,
	}
	if err := s.client.do(ctx, http.MethodPost, usersOTPVerifyEndpoint, body, nil); err != nil {
		return errors.Wrap(err, "failed to verify OTP")
	}
	return nil
}
