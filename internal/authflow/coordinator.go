// Package authflow drives the register and forgot-password OTP journeys as an explicit state
// machine:
//
//	register:        idle -> awaitingOtp -> verified -> completed
//	forgot password: idle -> awaitingOtp -> verified -> passwordReset
//
// A Coordinator runs one request at a time. The pending registration, password included, lives
// only in the coordinator and is wiped when the flow completes or is abandoned.
package authflow

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"admin-console/desktop/internal/apierror"
	identitydomain "admin-console/desktop/internal/identity/domain"
	"admin-console/desktop/internal/navigation"
	"admin-console/desktop/internal/telemetry"
	telemetrydomain "admin-console/desktop/internal/telemetry/domain"
)

// Step is a state of the flow.
type Step string

const (
	StepIdle          Step = "idle"
	StepAwaitingOTP   Step = "awaitingOtp"
	StepVerified      Step = "verified"
	StepCompleted     Step = "completed"
	StepPasswordReset Step = "passwordReset"
)

// DefaultWindow is the resend countdown after a code was sent.
const DefaultWindow = 600 * time.Second

// OTPLength is the number of characters in a code.
const OTPLength = 6

// API is the backend surface the coordinator drives.
type API interface {
	SendOTP(ctx context.Context, userName, email string) error
	SendOTPCode(ctx context.Context, email string, flow identitydomain.FlowType) error
	VerifyOTP(ctx context.Context, email, otp string, flow identitydomain.FlowType) error
	CreateAccount(ctx context.Context, reg identitydomain.Registration) error
	ResetPassword(ctx context.Context, email, password string) error
}

// State is a point-in-time view of the flow.
type State struct {
	Step      Step
	FlowType  identitydomain.FlowType // empty when idle
	Email     string
	Deadline  time.Time     // zero unless a code was sent
	Remaining time.Duration // until a resend is allowed
	InFlight  bool
}

// Coordinator owns the flow state. Create one per flow surface with New.
type Coordinator struct {
	api      API
	redirect navigation.Redirector
	events   telemetry.EventEmitter
	window   time.Duration
	now      func() time.Time

	mu       sync.Mutex
	gen      uint64 // bumped on start and abandon; stale completions are dropped
	step     Step
	flow     identitydomain.FlowType
	email    string
	userName string
	password []byte // pending registration password; zeroed on wipe
	started  time.Time
	inFlight bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithWindow sets the resend countdown. Non-positive values keep DefaultWindow.
func WithWindow(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithEvents emits a telemetry event on every transition and failure.
func WithEvents(e telemetry.EventEmitter) Option {
	return func(c *Coordinator) { c.events = e }
}

// New returns an idle Coordinator. redirect is called when a flow finishes; it may be nil.
func New(api API, redirect navigation.Redirector, opts ...Option) *Coordinator {
	c := &Coordinator{api: api, redirect: redirect, window: DefaultWindow, now: time.Now, step: StepIdle}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current state with Remaining computed for now.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{Step: c.step, FlowType: c.flow, Email: c.email, InFlight: c.inFlight}
	if !c.started.IsZero() {
		s.Deadline = c.started.Add(c.window)
		s.Remaining = c.remainingLocked(c.now())
	}
	return s
}

// Remaining returns max(0, window - (now - start)). It is recomputed from the start timestamp on
// every call and is zero outside awaitingOtp.
func (c *Coordinator) Remaining(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked(now)
}

func (c *Coordinator) remainingLocked(now time.Time) time.Duration {
	if c.step != StepAwaitingOTP || c.started.IsZero() {
		return 0
	}
	left := c.window - now.Sub(c.started)
	if left < 0 {
		return 0
	}
	return left
}

// StartRegister sends a registration code. On success the flow waits for the code; on failure
// it stays idle and may be retried. Any previous flow is abandoned.
func (c *Coordinator) StartRegister(ctx context.Context, reg identitydomain.Registration) error {
	reg.UserName = strings.TrimSpace(reg.UserName)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.UserName == "" || reg.Email == "" || reg.Password == "" {
		return c.fail(ctx, apierror.Precondition(apierror.CodeValidation, "userName, email and password are required"))
	}
	gen, err := c.restart()
	if err != nil {
		return c.fail(ctx, err)
	}

	err = c.api.SendOTP(ctx, reg.UserName, reg.Email)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return err
	}
	c.inFlight = false
	if err != nil {
		return c.failLocked(ctx, err)
	}
	c.flow = identitydomain.FlowRegister
	c.email = reg.Email
	c.userName = reg.UserName
	c.password = []byte(reg.Password)
	c.started = c.now()
	c.transitionLocked(ctx, StepAwaitingOTP)
	return nil
}

// StartForgotPassword sends a password-reset code to email. Failure leaves the flow idle.
func (c *Coordinator) StartForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return c.fail(ctx, apierror.Precondition(apierror.CodeValidation, "email is required"))
	}
	gen, err := c.restart()
	if err != nil {
		return c.fail(ctx, err)
	}

	err = c.api.SendOTPCode(ctx, email, identitydomain.FlowForgotPassword)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return err
	}
	c.inFlight = false
	if err != nil {
		return c.failLocked(ctx, err)
	}
	c.flow = identitydomain.FlowForgotPassword
	c.email = email
	c.started = c.now()
	c.transitionLocked(ctx, StepAwaitingOTP)
	return nil
}

// restart wipes any previous flow and marks a request in flight.
func (c *Coordinator) restart() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return 0, apierror.Precondition(apierror.CodeRequestInFlight, "A request is already in progress.")
	}
	c.wipeLocked()
	c.gen++
	c.inFlight = true
	return c.gen, nil
}

// NormalizeOTP trims and upper-cases a code as typed by the user.
func NormalizeOTP(otp string) string {
	return strings.ToUpper(strings.TrimSpace(otp))
}

// Verify submits otp. Codes are case-insensitive and must be exactly six characters; anything
// else fails with INVALID_OTP before any network call. For registration a successful
// verification immediately creates the account. On failure the flow stays where it was and the
// countdown keeps running.
func (c *Coordinator) Verify(ctx context.Context, otp string) error {
	code := NormalizeOTP(otp)
	if utf8.RuneCountInString(code) != OTPLength {
		return c.fail(ctx, apierror.Precondition(apierror.CodeInvalidOTP, "The code must be 6 characters."))
	}

	c.mu.Lock()
	if err := c.beginLocked(StepAwaitingOTP); err != nil {
		c.mu.Unlock()
		return c.fail(ctx, err)
	}
	gen, email, flow := c.gen, c.email, c.flow
	c.mu.Unlock()

	err := c.api.VerifyOTP(ctx, email, code, flow)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return err
	}
	c.inFlight = false
	if err != nil {
		err = c.failLocked(ctx, err)
		c.mu.Unlock()
		return err
	}
	c.transitionLocked(ctx, StepVerified)
	c.mu.Unlock()

	if flow == identitydomain.FlowRegister {
		return c.CompleteRegistration(ctx)
	}
	return nil
}

// CompleteRegistration creates the account from the pending registration. Verify calls it; call
// it again to retry after a failed create while the flow is verified.
func (c *Coordinator) CompleteRegistration(ctx context.Context) error {
	c.mu.Lock()
	if err := c.beginLocked(StepVerified); err != nil {
		c.mu.Unlock()
		return c.fail(ctx, err)
	}
	if c.flow != identitydomain.FlowRegister || c.password == nil {
		c.inFlight = false
		c.mu.Unlock()
		return c.fail(ctx, apierror.Precondition(apierror.CodeFlowState, "There is no registration to complete."))
	}
	gen := c.gen
	reg := identitydomain.Registration{UserName: c.userName, Email: c.email, Password: string(c.password)}
	c.mu.Unlock()

	err := c.api.CreateAccount(ctx, reg)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return err
	}
	c.inFlight = false
	if err != nil {
		err = c.failLocked(ctx, err)
		c.mu.Unlock()
		return err
	}
	c.wipeLocked()
	c.transitionLocked(ctx, StepCompleted)
	c.mu.Unlock()

	c.redirectToLogin(ctx)
	return nil
}

// Resend sends a fresh code. It is allowed only once the countdown has reached zero and nothing
// is in flight; otherwise RESEND_NOT_ALLOWED with no network call. The countdown restarts at
// dispatch and keeps running whether or not the send succeeds.
func (c *Coordinator) Resend(ctx context.Context) error {
	c.mu.Lock()
	if c.step != StepAwaitingOTP {
		c.mu.Unlock()
		return c.fail(ctx, apierror.Precondition(apierror.CodeFlowState, "No code is pending."))
	}
	if c.inFlight || c.remainingLocked(c.now()) > 0 {
		c.mu.Unlock()
		return c.fail(ctx, apierror.Precondition(apierror.CodeResendNotAllowed, "Please wait before requesting a new code."))
	}
	c.inFlight = true
	gen, email, flow := c.gen, c.email, c.flow
	c.started = c.now()
	c.mu.Unlock()

	err := c.api.SendOTPCode(ctx, email, flow)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return err
	}
	c.inFlight = false
	if err != nil {
		return c.failLocked(ctx, err)
	}
	c.emitLocked(ctx, telemetrydomain.TypeAuthFlow, map[string]string{"flow": string(c.flow), "step": string(c.step), "action": "resend"})
	return nil
}

// ResetPassword sets the new password after a verified forgot-password code. Mismatched
// confirmation fails with PASSWORD_MISMATCH before any network call. Success ends the flow
// and redirects to login.
func (c *Coordinator) ResetPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return c.fail(ctx, apierror.Precondition(apierror.CodePasswordMismatch, "Passwords do not match."))
	}
	if newPassword == "" {
		return c.fail(ctx, apierror.Precondition(apierror.CodeValidation, "password is required"))
	}

	c.mu.Lock()
	if err := c.beginLocked(StepVerified); err != nil {
		c.mu.Unlock()
		return c.fail(ctx, err)
	}
	if c.flow != identitydomain.FlowForgotPassword {
		c.inFlight = false
		c.mu.Unlock()
		return c.fail(ctx, apierror.Precondition(apierror.CodeFlowState, "There is no password reset in progress."))
	}
	gen, email := c.gen, c.email
	c.mu.Unlock()

	err := c.api.ResetPassword(ctx, email, newPassword)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return err
	}
	c.inFlight = false
	if err != nil {
		err = c.failLocked(ctx, err)
		c.mu.Unlock()
		return err
	}
	flow := c.flow
	c.wipeLocked()
	c.flow = flow
	c.transitionLocked(ctx, StepPasswordReset)
	c.mu.Unlock()

	c.redirectToLogin(ctx)
	return nil
}

// Abandon drops the flow and everything it holds. A request still in flight is ignored when it
// returns.
func (c *Coordinator) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepIdle && !c.inFlight {
		return
	}
	c.wipeLocked()
	c.gen++
	c.inFlight = false
	c.transitionLocked(context.Background(), StepIdle)
}

// beginLocked checks the flow is at want with nothing in flight and marks a request in flight.
func (c *Coordinator) beginLocked(want Step) error {
	if c.inFlight {
		return apierror.Precondition(apierror.CodeRequestInFlight, "A request is already in progress.")
	}
	if c.step != want {
		return apierror.Precondition(apierror.CodeFlowState, "This step is not available now.")
	}
	c.inFlight = true
	return nil
}

// wipeLocked clears flow data, zeroing the held password, and returns to idle.
func (c *Coordinator) wipeLocked() {
	for i := range c.password {
		c.password[i] = 0
	}
	c.password = nil
	c.userName = ""
	c.email = ""
	c.flow = ""
	c.started = time.Time{}
	c.step = StepIdle
}

func (c *Coordinator) transitionLocked(ctx context.Context, to Step) {
	c.step = to
	c.emitLocked(ctx, telemetrydomain.TypeAuthFlow, map[string]string{"flow": string(c.flow), "step": string(to)})
}

func (c *Coordinator) fail(ctx context.Context, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failLocked(ctx, err)
}

// failLocked records a failure event and returns err as an *apierror.Error.
func (c *Coordinator) failLocked(ctx context.Context, err error) error {
	e, ok := apierror.As(err)
	if !ok {
		e = &apierror.Error{Code: apierror.CodeUnknown, Message: err.Error(), Raw: err}
	}
	c.emitLocked(ctx, telemetrydomain.TypeAPIError, map[string]string{
		"flow": string(c.flow),
		"step": string(c.step),
		"code": string(e.Code),
	})
	return e
}

func (c *Coordinator) emitLocked(ctx context.Context, typ string, attrs map[string]string) {
	if c.events == nil {
		return
	}
	telemetry.EmitAsync(c.events, ctx, telemetrydomain.NewEvent(typ, attrs))
}

func (c *Coordinator) redirectToLogin(ctx context.Context) {
	if c.redirect != nil {
		c.redirect.RedirectToLogin(ctx)
	}
}
