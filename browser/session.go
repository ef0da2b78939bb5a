// Package browser provides the browser session surface consumed by the login
// and outreach flows, plus a Rod-backed implementation and its launcher.
package browser

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionAcquisition = errors.New("browser session could not be acquired")
	ErrElementNotFound    = errors.New("element not found")
	ErrWaitTimeout        = errors.New("timed out waiting for element")
	ErrActionTimeout      = errors.New("timed out acting on element")
)

// LocatorKind selects how a Locator query is interpreted
type LocatorKind int

const (
	KindCSS LocatorKind = iota
	KindID
	KindXPath
)

func (k LocatorKind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindID:
		return "id"
	case KindXPath:
		return "xpath"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Locator is a stable query for one or more elements on the current page
type Locator struct {
	Kind  LocatorKind
	Query string
}

// ByID locates an element by its id attribute
func ByID(id string) Locator { return Locator{Kind: KindID, Query: id} }

// ByCSS locates elements with a CSS selector
func ByCSS(selector string) Locator { return Locator{Kind: KindCSS, Query: selector} }

// ByXPath locates elements with an XPath expression
func ByXPath(expr string) Locator { return Locator{Kind: KindXPath, Query: expr} }

// Selector returns the CSS selector for CSS and ID locators
func (l Locator) Selector() string {
	if l.Kind == KindID {
		return "#" + l.Query
	}
	return l.Query
}

func (l Locator) String() string {
	return l.Kind.String() + "=" + l.Query
}

// Element is an ephemeral handle into the live page. It is only valid until
// the next navigation or DOM mutation that removes it. Click and Input are
// time-bounded; an element that stays covered or disabled fails with
// ErrActionTimeout.
type Element interface {
	Click() error
	Input(text string) error
}

// Session is the capability surface of one live browser session.
type Session interface {
	// Navigate loads url and waits for the load event.
	Navigate(url string) error

	// FindOne waits up to timeout for a single match. Absence wraps ErrElementNotFound.
	FindOne(loc Locator, timeout time.Duration) (Element, error)

	// FindMany returns every current match without waiting. No match is an
	// empty slice, not an error.
	FindMany(loc Locator) ([]Element, error)

	// FindOptional reports whether loc matches right now, without waiting.
	FindOptional(loc Locator) (Element, bool, error)

	// WaitFor blocks until loc is present. Expiry wraps ErrWaitTimeout.
	WaitFor(loc Locator, timeout time.Duration) error

	// Close quits the page and the browser process.
	Close() error
}
