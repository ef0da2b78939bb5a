// Package runner owns one outreach run end to end: it acquires the browser
// session, logs in, runs the outreach loop and releases the session exactly
// once on every exit path.
package runner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nikshitha/linkedin-outreach/auth"
	"github.com/nikshitha/linkedin-outreach/browser"
	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/connection"
	"github.com/nikshitha/linkedin-outreach/logger"
	"github.com/nikshitha/linkedin-outreach/stealth"
)

// ErrClosed is returned when the runner was closed before the browser came up
var ErrClosed = errors.New("runner closed")

// Launcher acquires a new browser session
type Launcher interface {
	Acquire() (browser.Session, error)
}

// Summary describes a finished run
type Summary struct {
	RunID    string
	Login    auth.Result
	Outreach connection.Result
}

// Runner holds all components of one run
type Runner struct {
	runID    string
	config   *config.Config
	logger   *logger.Logger
	launcher Launcher
	creds    auth.Credentials
	stealth  *stealth.StealthManager

	mu       sync.Mutex
	session  browser.Session
	closed   bool
	released bool
	closeErr error
}

// New creates a runner. creds are the fallback credentials handed to the
// authenticator; they normally come from the environment.
func New(l Launcher, cfg *config.Config, log *logger.Logger, creds auth.Credentials, opts ...stealth.Option) *Runner {
	runID := uuid.NewString()
	log = log.WithRun(runID)
	return &Runner{
		runID:    runID,
		config:   cfg,
		logger:   log.WithModule("runner"),
		launcher: l,
		creds:    creds,
		stealth:  stealth.NewStealthManager(log, opts...),
	}
}

// RunID returns the id attached to every log line of this run
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes login and outreach. Only a failure to acquire the browser is
// returned as an error; login and outreach problems end up in the Summary.
func (r *Runner) Run() (Summary, error) {
	summary := Summary{RunID: r.runID}

	session, err := r.launcher.Acquire()
	if err != nil {
		return summary, fmt.Errorf("failed to launch browser: %w", err)
	}
	r.mu.Lock()
	r.session = session
	closed := r.closed
	r.mu.Unlock()
	defer r.Close()

	if closed {
		return summary, ErrClosed
	}

	r.logger.Info("Authenticating with LinkedIn...")
	authenticator := auth.NewAuthenticator(session, r.logger, r.creds, r.config.GetWaitTimeout())
	summary.Login = authenticator.Login("", "")
	if !summary.Login.OK() {
		r.logger.Warn("Skipping outreach, not logged in")
		return summary, nil
	}

	controller := connection.NewController(session, &r.config.Outreach, r.logger, r.stealth)
	summary.Outreach = controller.Run(r.config.Outreach.MaxRequests)

	r.logger.RunSummary(summary.Outreach.Sent, summary.Outreach.Requested, summary.Outreach.Reason.String())
	return summary, nil
}

// Close releases the browser session. It is safe to call more than once and
// from another goroutine; the session is closed exactly once. Closing before
// the session exists makes Run release it as soon as it is acquired.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	if r.session == nil || r.released {
		return r.closeErr
	}
	r.released = true

	r.logger.Info("Shutting down...")
	if err := r.session.Close(); err != nil {
		r.logger.WithError(err).Warn("Failed to close browser")
		r.closeErr = err
	}
	r.logger.Info("Cleanup complete")
	return r.closeErr
}
