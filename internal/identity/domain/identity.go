package domain

// FlowType selects which OTP journey an exchange belongs to.
type FlowType string

const (
	FlowRegister       FlowType = "register"
	FlowForgotPassword FlowType = "forgotPassword"
)

// Valid reports whether t is a known flow type.
func (t FlowType) Valid() bool {
	return t == FlowRegister || t == FlowForgotPassword
}

// Registration is the payload a new account is created from.
type Registration struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials are what a user signs in with.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendOTPRequest starts the register flow (/auth/signup).
type SendOTPRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// SendOTPCodeRequest starts the forgot-password flow or resends a code (/auth/sendotpcode).
type SendOTPCodeRequest struct {
	Email string   `json:"email"`
	Type  FlowType `json:"type"`
}

// VerifyOTPRequest submits a code (/auth/verify-otp).
type VerifyOTPRequest struct {
	Email string   `json:"email"`
	OTP   string   `json:"otp"`
	Type  FlowType `json:"type"`
}

// ResetPasswordRequest sets a new password after a verified forgot-password OTP.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
