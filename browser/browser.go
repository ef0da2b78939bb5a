package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/logger"
)

// launchFlags are the stability and anti-detection switches every session
// is started with. Values are empty for plain switches.
var launchFlags = []struct {
	name  flags.Flag
	value string
}{
	{"disable-extensions", ""},
	{"disable-gpu", ""},
	{"no-sandbox", ""},
	{"disable-dev-shm-usage", ""},
	{"disable-popup-blocking", ""},
	{"disable-notifications", ""},
	{"disable-infobars", ""},
	{"disable-blink-features", "AutomationControlled"},
}

// LaunchFlags returns a copy of the fixed launch flag set
func LaunchFlags() map[string]string {
	out := make(map[string]string, len(launchFlags))
	for _, f := range launchFlags {
		out[string(f.name)] = f.value
	}
	return out
}

// Options is the session configuration consumed once by Acquire
type Options struct {
	Headless       bool
	BinPath        string
	SlowMotion     time.Duration
	ViewportWidth  int
	ViewportHeight int
	ActionTimeout  time.Duration
}

// DefaultActionTimeout bounds clicks and inputs when Options leave it unset
const DefaultActionTimeout = 5 * time.Second

// OptionsFromConfig builds launch options from the browser section
func OptionsFromConfig(cfg config.BrowserConfig) Options {
	return Options{
		Headless:       cfg.Headless,
		BinPath:        cfg.BinPath,
		SlowMotion:     time.Duration(cfg.SlowMotion) * time.Millisecond,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		ActionTimeout:  time.Duration(cfg.ActionTimeout) * time.Second,
	}
}

// Bootstrapper launches browser sessions
type Bootstrapper struct {
	opts   Options
	logger *logger.Logger
}

// NewBootstrapper creates a bootstrapper for the given options
func NewBootstrapper(opts Options, log *logger.Logger) *Bootstrapper {
	return &Bootstrapper{
		opts:   opts,
		logger: log.WithModule("browser"),
	}
}

// newLauncher configures the Rod launcher without starting anything
func (b *Bootstrapper) newLauncher() *launcher.Launcher {
	l := launcher.New().Headless(b.opts.Headless)
	for _, f := range launchFlags {
		if f.value == "" {
			l = l.Set(f.name)
		} else {
			l = l.Set(f.name, f.value)
		}
	}

	if b.opts.BinPath != "" {
		l = l.Bin(b.opts.BinPath)
	}

	return l.Set("window-size", fmt.Sprintf("%d,%d", b.opts.ViewportWidth, b.opts.ViewportHeight))
}

// Acquire launches one browser process and returns a session bound to it.
// There is no retry; failures wrap ErrSessionAcquisition.
func (b *Bootstrapper) Acquire() (Session, error) {
	b.logger.WithField("headless", b.opts.Headless).Info("Launching browser")

	l := b.newLauncher()
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %w", ErrSessionAcquisition, err)
	}

	rb := rod.New().ControlURL(url)
	if b.opts.SlowMotion > 0 {
		rb = rb.SlowMotion(b.opts.SlowMotion)
	}

	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: connect: %w", ErrSessionAcquisition, err)
	}

	page, err := b.createPage(rb)
	if err != nil {
		rb.Close()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrSessionAcquisition, err)
	}

	b.logger.Info("Browser launched successfully")
	actionTimeout := b.opts.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = DefaultActionTimeout
	}

	return &rodSession{
		logger:        b.logger,
		launcher:      l,
		browser:       rb,
		page:          page,
		actionTimeout: actionTimeout,
	}, nil
}

// createPage creates a new page with the configured viewport and masking script
func (b *Bootstrapper) createPage(rb *rod.Browser) (*rod.Page, error) {
	page, err := rb.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.ViewportWidth,
		Height:            b.opts.ViewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	})
	if err != nil {
		b.logger.WithError(err).Warn("Failed to set viewport")
	}

	if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
		b.logger.WithError(err).Warn("Failed to install fingerprint mask")
	}

	return page, nil
}

// stealthScript hides the most common automation fingerprints
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined
	});

	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en']
	});

	window.chrome = window.chrome || { runtime: {} };
`
