// Package auth provides LinkedIn authentication functionality.
// A login is a single attempt that ends in Authenticated or Failed; failures
// are reported through Result, never as a returned error.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/nikshitha/linkedin-outreach/browser"
	"github.com/nikshitha/linkedin-outreach/logger"
)

// LinkedInLoginURL is the login form
const LinkedInLoginURL = "https://www.linkedin.com/login"

// Login form and post-login locators
var (
	UsernameField = browser.ByID("username")
	PasswordField = browser.ByID("password")
	SubmitButton  = browser.ByXPath("//button[@type='submit']")
	NavbarMarker  = browser.ByCSS("nav[data-control-name='nav.navbar']")
)

// ErrMissingCredentials is returned before the browser is touched
var ErrMissingCredentials = errors.New("linkedin credentials not provided")

// State is a step of the login state machine
type State int

const (
	StateIdle State = iota
	StateCredentialsResolved
	StateNavigatedToLogin
	StateFieldsFilled
	StateSubmitted
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCredentialsResolved:
		return "credentials_resolved"
	case StateNavigatedToLogin:
		return "navigated_to_login"
	case StateFieldsFilled:
		return "fields_filled"
	case StateSubmitted:
		return "submitted"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Credentials identify the account to log in with
type Credentials struct {
	Identity string
	Secret   string
}

// Valid reports whether both fields are present
func (c Credentials) Valid() bool {
	return c.Identity != "" && c.Secret != ""
}

// Resolve prefers explicit values and falls back to c field by field
func (c Credentials) Resolve(identity, secret string) Credentials {
	if identity == "" {
		identity = c.Identity
	}
	if secret == "" {
		secret = c.Secret
	}
	return Credentials{Identity: identity, Secret: secret}
}

// Result is the outcome of a login attempt. On failure, FailedAt is the last
// state reached and Err the cause.
type Result struct {
	State    State
	FailedAt State
	Err      error
}

// OK reports whether the login reached Authenticated
func (r Result) OK() bool {
	return r.State == StateAuthenticated
}

// Authenticator handles LinkedIn authentication
type Authenticator struct {
	session  browser.Session
	logger   *logger.Logger
	fallback Credentials
	wait     time.Duration
}

// NewAuthenticator creates a new authenticator. fallback is used for any
// credential not passed to Login.
func NewAuthenticator(session browser.Session, log *logger.Logger, fallback Credentials, wait time.Duration) *Authenticator {
	return &Authenticator{
		session:  session,
		logger:   log.WithModule("auth"),
		fallback: fallback,
		wait:     wait,
	}
}

// Login performs one login attempt. Empty arguments fall back to the
// credentials given at construction.
func (a *Authenticator) Login(identity, secret string) Result {
	a.logger.Info("Starting login process")

	state, err := a.login(a.fallback.Resolve(identity, secret))
	if err != nil {
		a.logger.LoginOutcome(state.String(), err)
		return Result{State: StateFailed, FailedAt: state, Err: err}
	}

	a.logger.LoginOutcome(StateAuthenticated.String(), nil)
	return Result{State: StateAuthenticated}
}

// login walks the state machine and returns the last state reached
func (a *Authenticator) login(creds Credentials) (State, error) {
	state := StateIdle

	if !creds.Valid() {
		return state, ErrMissingCredentials
	}
	state = StateCredentialsResolved

	if err := a.session.Navigate(LinkedInLoginURL); err != nil {
		return state, fmt.Errorf("failed to navigate to login page: %w", err)
	}
	state = StateNavigatedToLogin

	a.logger.Debug("Entering email")
	emailField, err := a.session.FindOne(UsernameField, a.wait)
	if err != nil {
		return state, fmt.Errorf("failed to find email field: %w", err)
	}
	passwordField, err := a.session.FindOne(PasswordField, a.wait)
	if err != nil {
		return state, fmt.Errorf("failed to find password field: %w", err)
	}
	if err := emailField.Input(creds.Identity); err != nil {
		return state, fmt.Errorf("failed to enter email: %w", err)
	}
	a.logger.Debug("Entering password")
	if err := passwordField.Input(creds.Secret); err != nil {
		return state, fmt.Errorf("failed to enter password: %w", err)
	}
	state = StateFieldsFilled

	a.logger.Debug("Clicking login button")
	loginButton, err := a.session.FindOne(SubmitButton, a.wait)
	if err != nil {
		return state, fmt.Errorf("failed to find login button: %w", err)
	}
	if err := loginButton.Click(); err != nil {
		return state, fmt.Errorf("failed to click login button: %w", err)
	}
	state = StateSubmitted

	if err := a.session.WaitFor(NavbarMarker, a.wait); err != nil {
		return state, fmt.Errorf("post-login navigation bar never appeared: %w", err)
	}

	return StateAuthenticated, nil
}
