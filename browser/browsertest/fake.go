// Package browsertest provides a scripted in-memory browser.Session for tests.
package browsertest

import (
	"fmt"
	"sync"
	"time"

	"github.com/nikshitha/linkedin-outreach/browser"
)

// Element is a fake element that records interactions
type Element struct {
	Name     string
	ClickErr error
	InputErr error
	// OnClick, when set, runs before every click; tests use it to crash the engine.
	OnClick  func()

	mu     sync.Mutex
	clicks int
	inputs []string
}

func (e *Element) Click() error {
	if e.OnClick != nil {
		e.OnClick()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++
	return e.ClickErr
}

func (e *Element) Input(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs = append(e.inputs, text)
	return e.InputErr
}

// Clicks returns how many times the element was clicked
func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

// Inputs returns every text typed into the element
func (e *Element) Inputs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.inputs...)
}

// Session is a scripted browser.Session. Unset hooks behave as an empty page:
// FindOne and WaitFor fail, FindMany and FindOptional find nothing.
type Session struct {
	NavigateErr error

	// Single holds elements served by FindOne, keyed by locator.
	Single map[browser.Locator]*Element
	// Markers holds locators that satisfy WaitFor.
	Markers map[browser.Locator]bool
	// Many is called on every FindMany with the 1-based call number.
	Many func(call int, loc browser.Locator) ([]browser.Element, error)
	// Optional is called on every FindOptional.
	Optional func(loc browser.Locator) (browser.Element, bool, error)

	CloseErr error

	mu        sync.Mutex
	navigated []string
	calls     []string
	manyCalls int
	closes    int
}

var _ browser.Session = (*Session)(nil)

// New returns an empty scripted session
func New() *Session {
	return &Session{
		Single:  make(map[browser.Locator]*Element),
		Markers: make(map[browser.Locator]bool),
	}
}

func (s *Session) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *Session) Navigate(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("navigate " + url)
	s.navigated = append(s.navigated, url)
	return s.NavigateErr
}

func (s *Session) FindOne(loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("find_one " + loc.String())
	if el, ok := s.Single[loc]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %s after %s", browser.ErrElementNotFound, loc, timeout)
}

func (s *Session) FindMany(loc browser.Locator) ([]browser.Element, error) {
	s.mu.Lock()
	s.record("find_many " + loc.String())
	s.manyCalls++
	call, hook := s.manyCalls, s.Many
	s.mu.Unlock()

	if hook == nil {
		return nil, nil
	}
	return hook(call, loc)
}

func (s *Session) FindOptional(loc browser.Locator) (browser.Element, bool, error) {
	s.mu.Lock()
	s.record("find_optional " + loc.String())
	hook := s.Optional
	s.mu.Unlock()

	if hook == nil {
		return nil, false, nil
	}
	return hook(loc)
}

func (s *Session) WaitFor(loc browser.Locator, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("wait_for " + loc.String())
	if s.Markers[loc] {
		return nil
	}
	return fmt.Errorf("%w: %s after %s", browser.ErrWaitTimeout, loc, timeout)
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("close")
	s.closes++
	return s.CloseErr
}

// Calls returns the ordered log of session operations
func (s *Session) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Navigated returns every URL passed to Navigate
func (s *Session) Navigated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.navigated...)
}

// ManyCalls returns the number of FindMany calls
func (s *Session) ManyCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manyCalls
}

// Closes returns the number of Close calls
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Elements builds n fresh fake elements
func Elements(n int) []browser.Element {
	out := make([]browser.Element, n)
	for i := range out {
		out[i] = &Element{Name: fmt.Sprintf("el-%d", i)}
	}
	return out
}
