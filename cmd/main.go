// LinkedIn Outreach - Main Application
// Logs in once and sends a bounded number of connection requests from the
// "My Network" page, then exits.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nikshitha/linkedin-outreach/auth"
	"github.com/nikshitha/linkedin-outreach/browser"
	"github.com/nikshitha/linkedin-outreach/config"
	"github.com/nikshitha/linkedin-outreach/logger"
	"github.com/nikshitha/linkedin-outreach/runner"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configPath  string
	verbose     bool
	maxRequests int
	headless    bool
)

var rootCmd = &cobra.Command{
	Use:           "linkedin-outreach",
	Short:         "Send a bounded number of LinkedIn connection requests",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flags.IntVar(&maxRequests, "max-requests", 0, "Override the request budget")
	flags.BoolVar(&headless, "headless", true, "Run the browser without a window")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	printBanner()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Note: No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if cmd.Flags().Changed("max-requests") {
		cfg.Outreach.MaxRequests = maxRequests
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputFile: cfg.Logging.OutputFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	bootstrapper := browser.NewBootstrapper(browser.OptionsFromConfig(cfg.Browser), log)
	creds := auth.Credentials{Identity: cfg.LinkedIn.Email, Secret: cfg.LinkedIn.Password}
	app := runner.New(bootstrapper, cfg, log, creds)

	log.WithRun(app.RunID()).Infof("LinkedIn outreach starting, budget %d", cfg.Outreach.MaxRequests)

	setupGracefulShutdown(app, log)

	summary, err := app.Run()
	if err != nil {
		if errors.Is(err, runner.ErrClosed) {
			return nil
		}
		return err
	}

	fmt.Printf("Total Connection Requests Sent: %d\n", summary.Outreach.Sent)
	return nil
}

// setupGracefulShutdown releases the browser on SIGINT/SIGTERM
func setupGracefulShutdown(app *runner.Runner, log *logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Infof("Received signal: %v", sig)
		app.Close()
		os.Exit(0)
	}()
}

// printBanner prints the application banner
func printBanner() {
	banner := `
╔══════════════════════════════════════════════════════════════════╗
║                 LinkedIn Outreach - Educational Only             ║
╠══════════════════════════════════════════════════════════════════╣
║  ⚠️  Using automation on LinkedIn violates their ToS             ║
║  ⚠️  Do NOT use this on production accounts                      ║
╚══════════════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
