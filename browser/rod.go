package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/nikshitha/linkedin-outreach/logger"
)

// rodSession implements Session on top of a single Rod page
type rodSession struct {
	logger   *logger.Logger
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	// actionTimeout bounds every click and input on a found element
	actionTimeout time.Duration
}

type rodElement struct {
	el      *rod.Element
	timeout time.Duration
}

// Click waits at most e.timeout for the element to become interactable.
// A covered element fails with ErrActionTimeout instead of retrying forever.
func (e rodElement) Click() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	return actionError("click", el.Click(proto.InputMouseButtonLeft, 1))
}

func (e rodElement) Input(text string) error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	return actionError("input", el.Input(text))
}

func actionError(action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrActionTimeout, action, err)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

func (s *rodSession) wrap(el *rod.Element) Element {
	return rodElement{el: el, timeout: s.actionTimeout}
}

func (s *rodSession) wrapAll(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, s.wrap(el))
	}
	return out
}

// Navigate navigates to a URL and waits for the page to load
func (s *rodSession) Navigate(url string) error {
	s.logger.BrowserAction("navigate", url)

	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := s.page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	return nil
}

// find runs a waiting lookup on a timeout-scoped clone of the page and rebinds
// the result to the page's own context so later actions outlive the lookup.
// Actions carry their own deadline, see rodElement.
func (s *rodSession) find(loc Locator, timeout time.Duration) (*rod.Element, error) {
	tp := s.page.Timeout(timeout)
	defer tp.CancelTimeout()

	var (
		el  *rod.Element
		err error
	)
	if loc.Kind == KindXPath {
		el, err = tp.ElementX(loc.Query)
	} else {
		el, err = tp.Element(loc.Selector())
	}
	if err != nil {
		return nil, err
	}
	return el.Context(s.page.GetContext()), nil
}

func (s *rodSession) FindOne(loc Locator, timeout time.Duration) (Element, error) {
	el, err := s.find(loc, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrElementNotFound, loc, err)
	}
	return s.wrap(el), nil
}

func (s *rodSession) FindMany(loc Locator) ([]Element, error) {
	var (
		els rod.Elements
		err error
	)
	if loc.Kind == KindXPath {
		els, err = s.page.ElementsX(loc.Query)
	} else {
		els, err = s.page.Elements(loc.Selector())
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}
	return s.wrapAll(els), nil
}

func (s *rodSession) FindOptional(loc Locator) (Element, bool, error) {
	var (
		has bool
		el  *rod.Element
		err error
	)
	if loc.Kind == KindXPath {
		has, el, err = s.page.HasX(loc.Query)
	} else {
		has, el, err = s.page.Has(loc.Selector())
	}
	if err != nil {
		return nil, false, fmt.Errorf("query %s: %w", loc, err)
	}
	if !has {
		return nil, false, nil
	}
	return s.wrap(el), true, nil
}

func (s *rodSession) WaitFor(loc Locator, timeout time.Duration) error {
	if _, err := s.find(loc, timeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWaitTimeout, loc, err)
	}
	return nil
}

// Close closes the page and the browser, then cleans up the launcher
func (s *rodSession) Close() error {
	s.logger.Info("Closing browser")

	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.WithError(err).Debug("Failed to close page")
		}
	}

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}

	if s.launcher != nil {
		s.launcher.Cleanup()
	}

	return err
}
