// Package connection handles LinkedIn connection requests.
// It works the "My Network" page: find Connect buttons, click a random one,
// confirm the invite modal when it shows up, and repeat until the budget is
// spent or no buttons remain.
package connection

import (
	"errors"
	"fmt"

	"github.com/nikshitha/linkedin-outreach/browser"
	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/logger"
	"github.com/nikshitha/linkedin-outreach/stealth"
)

// NetworkPageURL lists connection suggestions
const NetworkPageURL = "https://www.linkedin.com/mynetwork/"

// Outreach locators
var (
	ConnectButton = browser.ByXPath("//button[contains(@aria-label, 'Connect')]")
	SendNowButton = browser.ByXPath("//button[@aria-label='Send now']")
)

var (
	// ErrInvalidBudget is returned for a negative request target
	ErrInvalidBudget = errors.New("request target must not be negative")
	// ErrEngineFailure wraps a panic raised by the browser engine mid-run
	ErrEngineFailure = errors.New("unexpected browser engine failure")
)

// StopReason says why a run ended
type StopReason int

const (
	StopBudgetMet StopReason = iota
	StopExhausted
	StopActivationFailed
	StopAborted
)

func (r StopReason) String() string {
	switch r {
	case StopBudgetMet:
		return "budget_met"
	case StopExhausted:
		return "exhausted"
	case StopActivationFailed:
		return "activation_failed"
	case StopAborted:
		return "aborted"
	default:
		return fmt.Sprintf("stop(%d)", int(r))
	}
}

// Result is the outcome of one outreach run. Sent is always the number of
// requests completed, including when Err is set.
type Result struct {
	Requested int
	Sent      int
	Reason    StopReason
	Err       error
}

// Controller drives the discover, click, confirm loop on one session
type Controller struct {
	session browser.Session
	config  *config.OutreachConfig
	logger  *logger.Logger
	stealth *stealth.StealthManager
}

// NewController creates a new outreach controller. The session must already
// be logged in.
func NewController(session browser.Session, cfg *config.OutreachConfig, log *logger.Logger, s *stealth.StealthManager) *Controller {
	return &Controller{
		session: session,
		config:  cfg,
		logger:  log.WithModule("connection"),
		stealth: s,
	}
}

// Run sends up to target connection requests. It never returns more than
// target and keeps whatever progress was made when a step fails, including
// an engine panic, which ends the run with StopAborted.
func (c *Controller) Run(target int) (res Result) {
	if target < 0 {
		c.logger.WithField("target", target).Error("Refusing negative request target")
		return Result{Requested: target, Reason: StopAborted, Err: ErrInvalidBudget}
	}

	budget := NewBudget(target)
	if !budget.CanSend() {
		return Result{Reason: StopBudgetMet}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrEngineFailure, r)
			c.logger.WithError(err).WithField("sent", budget.Sent).Error("Error sending connection requests")
			res = Result{Requested: budget.Requested, Sent: budget.Sent, Reason: StopAborted, Err: err}
		}
	}()

	if err := c.openNetworkPage(); err != nil {
		c.logger.WithError(err).Error("Error sending connection requests")
		return Result{Requested: target, Reason: StopAborted, Err: err}
	}

	reason, err := c.loop(budget)
	if err != nil {
		c.logger.WithError(err).WithField("sent", budget.Sent).Error("Error sending connection requests")
	}

	return Result{
		Requested: budget.Requested,
		Sent:      budget.Sent,
		Reason:    reason,
		Err:       err,
	}
}

func (c *Controller) openNetworkPage() error {
	if err := c.session.Navigate(NetworkPageURL); err != nil {
		return fmt.Errorf("failed to open network page: %w", err)
	}
	c.stealth.Pause(c.config.PageSettle)
	return nil
}

// loop runs iterations until the budget is met or a step stops it
func (c *Controller) loop(budget *Budget) (StopReason, error) {
	for budget.CanSend() {
		// Buttons are looked up again every time: a sent invite removes its
		// button and the remaining handles may be stale.
		buttons, err := c.session.FindMany(ConnectButton)
		if err != nil {
			return StopAborted, fmt.Errorf("failed to find connect buttons: %w", err)
		}
		if len(buttons) == 0 {
			c.logger.Info("No more connection buttons found")
			return StopExhausted, nil
		}

		button := buttons[c.stealth.Choose(len(buttons))]
		if err := button.Click(); err != nil {
			return StopActivationFailed, fmt.Errorf("failed to click connect button: %w", err)
		}

		c.stealth.Pause(c.config.ActionDelay)

		confirmed := c.confirm()
		budget.Record()
		c.logger.ConnectionRequest(budget.Sent, budget.Requested, confirmed)

		if budget.CanSend() {
			c.stealth.Pause(c.config.IterationDelay)
		}
	}

	return StopBudgetMet, nil
}

// confirm clicks "Send now" if the invite modal is showing. It never waits
// and a missing or broken modal is not an error.
func (c *Controller) confirm() bool {
	sendButton, ok, err := c.session.FindOptional(SendNowButton)
	if err != nil {
		c.logger.WithError(err).Debug("Send button lookup failed")
		return false
	}
	if !ok {
		c.logger.Debug("No send confirmation shown")
		return false
	}

	if err := sendButton.Click(); err != nil {
		c.logger.WithError(err).Debug("Failed to click send button")
		return false
	}
	return true
}
