package service

import (
	"context"
	"regexp"
	"strings"

	"admin-console/desktop/internal/apierror"
	identitydomain "admin-console/desktop/internal/identity/domain"
	sessiondomain "admin-console/desktop/internal/session/domain"
	"admin-console/desktop/internal/transport"
)

// Auth endpoints, relative to the API base URL.
const (
	PathSignIn        = "/auth/signin"
	PathSignUp        = "/auth/signup"
	PathSendOTPCode   = "/auth/sendotpcode"
	PathVerifyOTP     = "/auth/verify-otp"
	PathRegist        = "/auth/regist"
	PathResetPassword = "/auth/reset-password"
)

// Poster is the part of transport.Client the auth service needs.
type Poster interface {
	Post(ctx context.Context, path string, in, out any) (*transport.Response, error)
}

// Sessions is the part of the session manager the auth service needs.
type Sessions interface {
	SignIn(ctx context.Context, token string, user *sessiondomain.User) error
	Logout(ctx context.Context) bool
}

// AuthService calls the backend auth endpoints. Every error is an *apierror.Error.
type AuthService struct {
	client   Poster
	sessions Sessions
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(client Poster, sessions Sessions) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

// signInResponse accepts the token under either name and an optional user.
type signInResponse struct {
	Token       string              `json:"token"`
	AccessToken string              `json:"accessToken"`
	User        *sessiondomain.User `json:"user"`
}

// SignIn authenticates and stores the session. The user falls back to the token's claims when
// the response has none.
func (s *AuthService) SignIn(ctx context.Context, creds identitydomain.Credentials) (*sessiondomain.User, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateEmail(creds.Email); err != nil {
		return nil, err
	}
	if creds.Password == "" {
		return nil, apierror.Precondition(apierror.CodeValidation, "password is required")
	}
	var out signInResponse
	if _, err := s.client.Post(ctx, PathSignIn, creds, &out); err != nil {
		return nil, err
	}
	token := out.Token
	if token == "" {
		token = out.AccessToken
	}
	if err := s.sessions.SignIn(ctx, token, out.User); err != nil {
		return nil, &apierror.Error{Code: apierror.CodeUnknown, Message: "The server returned an invalid session.", Raw: err}
	}
	return out.User, nil
}

// SendOTP starts registration: the backend mails a code to the address.
func (s *AuthService) SendOTP(ctx context.Context, userName, email string) error {
	req := identitydomain.SendOTPRequest{UserName: strings.TrimSpace(userName), Email: normalizeEmail(email)}
	if req.UserName == "" {
		return apierror.Precondition(apierror.CodeValidation, "userName is required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	_, err := s.client.Post(ctx, PathSignUp, req, nil)
	return err
}

// SendOTPCode starts the forgot-password flow or resends a code for either flow.
func (s *AuthService) SendOTPCode(ctx context.Context, email string, flow identitydomain.FlowType) error {
	req := identitydomain.SendOTPCodeRequest{Email: normalizeEmail(email), Type: flow}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if !flow.Valid() {
		return apierror.Precondition(apierror.CodeFlowState, "unknown flow type")
	}
	_, err := s.client.Post(ctx, PathSendOTPCode, req, nil)
	return err
}

// VerifyOTP submits otp for email. The code is sent as given; callers normalize it.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string, flow identitydomain.FlowType) error {
	req := identitydomain.VerifyOTPRequest{Email: normalizeEmail(email), OTP: otp, Type: flow}
	_, err := s.client.Post(ctx, PathVerifyOTP, req, nil)
	return err
}

// CreateAccount creates the account after a verified register OTP.
func (s *AuthService) CreateAccount(ctx context.Context, reg identitydomain.Registration) error {
	reg.Email = normalizeEmail(reg.Email)
	_, err := s.client.Post(ctx, PathRegist, reg, nil)
	return err
}

// ResetPassword sets a new password after a verified forgot-password OTP.
func (s *AuthService) ResetPassword(ctx context.Context, email, password string) error {
	req := identitydomain.ResetPasswordRequest{Email: normalizeEmail(email), Password: password}
	_, err := s.client.Post(ctx, PathResetPassword, req, nil)
	return err
}

// Logout ends the local session. There is no backend call. Reports whether a session ended.
func (s *AuthService) Logout(ctx context.Context) bool {
	return s.sessions.Logout(ctx)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

var simpleEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return apierror.Precondition(apierror.CodeValidation, "email is required")
	}
	if !simpleEmail.MatchString(email) {
		return apierror.Precondition(apierror.CodeValidation, "invalid email format")
	}
	return nil
}
