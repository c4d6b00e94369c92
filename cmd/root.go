package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cobra"

	"github.com/olgasafonova/confluence-upload/internal/base"
	"github.com/olgasafonova/confluence-upload/internal/confluence"
	"github.com/olgasafonova/confluence-upload/internal/errors"
	"github.com/olgasafonova/confluence-upload/internal/infra"
	"github.com/olgasafonova/confluence-upload/internal/report"
	"github.com/olgasafonova/confluence-upload/internal/uploader"
	"github.com/olgasafonova/confluence-upload/internal/version"
	"github.com/olgasafonova/confluence-upload/metrics"
	"github.com/olgasafonova/confluence-upload/tracing"
)

// connection and run settings shared by every subcommand
var (
	instance    string
	space       string
	dryRun      bool
	timeout     time.Duration
	delay       time.Duration
	ext         string
	metricsFile string
	verbose     bool
	envFile     string
	baseURL     string
)

// upload/delete mode flags
var (
	parentID    string
	dir         string
	rootTitle   string
	deleteTitle string
)

const envBaseURL = "CONFLUENCE_BASE_URL"

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "confluence-upload",
	Short: "Upload a directory of Markdown files to Confluence",
	Long: `confluence-upload mirrors a local directory tree of Markdown documents into a
Confluence space. Directories become index pages, files become child pages, and
pages whose titles already exist are skipped, so re-running is safe.

Credentials are read from CONFLUENCE_EMAIL and CONFLUENCE_API_TOKEN (a .env file
in the working directory is loaded first).`,
	Example: `  confluence-upload --instance nebari-ai.atlassian.net --space PM --parent-id 71499794 --dir ./docs
  confluence-upload --instance nebari-ai.atlassian.net --space PM --parent-id 71499794 --dir ./docs --dry-run
  confluence-upload --instance nebari-ai.atlassian.net --space PM --parent-id 71499794 --delete "Artefacts"`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// RunE is assigned here to avoid an initialization cycle through deleteMode
	rootCmd.RunE = runRoot
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("confluence-upload %s\n", version.String()))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&instance, "instance", "", "Atlassian instance, e.g. nebari-ai.atlassian.net (env "+confluence.EnvInstance+")")
	pf.StringVar(&space, "space", "", "Confluence space key, e.g. PM (env "+confluence.EnvSpace+")")
	pf.BoolVar(&dryRun, "dry-run", false, "Preview without making changes")
	pf.DurationVar(&timeout, "timeout", base.DefaultTimeout, "HTTP request timeout")
	pf.DurationVar(&delay, "delay", infra.DefaultPaceDelay, "Pause after each page operation")
	pf.StringVar(&ext, "ext", uploader.DefaultExtension, "Extension of files to upload")
	pf.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the run ends")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
	pf.StringVar(&baseURL, "base-url", "", "REST API root overriding --instance (env CONFLUENCE_BASE_URL)")
	_ = pf.MarkHidden("base-url")

	f := rootCmd.Flags()
	f.StringVar(&parentID, "parent-id", "", "Parent page/folder ID")
	f.StringVar(&dir, "dir", "", "Local directory to upload")
	f.StringVar(&rootTitle, "root-title", "", "Title for the root page (default: directory name)")
	f.StringVar(&deleteTitle, "delete", "", "Delete a page tree by title instead of uploading")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports a failed run. Config errors already read as
// instructions, so they print without the "Error:" prefix.
func printError(w io.Writer, err error) {
	switch {
	case errors.IsConfig(err):
		fmt.Fprintln(w, err)
	case errors.IsValidation(err):
		fmt.Fprintln(w, "Error:", err)
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", rootCmd.Name())
	case errors.IsAPI(err):
		fmt.Fprintln(w, "Error:", err)
		switch errors.StatusCode(err) {
		case http.StatusUnauthorized:
			fmt.Fprintf(w, "Check %s and %s.\n", confluence.EnvEmail, confluence.EnvAPIToken)
		case http.StatusForbidden:
			fmt.Fprintf(w, "Check that %s can add and delete pages in space %s.\n", os.Getenv(confluence.EnvEmail), space)
		}
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}

// setup loads .env and configures logging before any subcommand runs
func setup(cmd *cobra.Command, _ []string) error {
	if err := confluence.LoadDotEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	// stderr only; stdout carries the report or the MCP protocol
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if instance == "" {
		instance = os.Getenv(confluence.EnvInstance)
	}
	if space == "" {
		space = os.Getenv(confluence.EnvSpace)
	}
	if baseURL == "" {
		baseURL = os.Getenv(envBaseURL)
	}
	return nil
}

// loadConfig builds a validated Confluence config from flags and environment
func loadConfig() (*confluence.Config, error) {
	email, token, err := confluence.LoadCredentials()
	if err != nil {
		return nil, err
	}

	cfg := &confluence.Config{
		Instance: instance,
		SpaceKey: space,
		Email:    email,
		APIToken: token,
		DryRun:   dryRun,
		Timeout:  timeout,
		BaseURL:  baseURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// startRun wires tracing and returns a finish func that flushes spans and
// writes the metrics file
func startRun(ctx context.Context) (func(), error) {
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("tracing setup: %w", err)
	}

	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
		if metricsFile != "" {
			if err := metrics.WriteTextfile(metricsFile); err != nil {
				logger.Warn("Failed to write metrics file", "path", metricsFile, "error", err)
			}
		}
	}, nil
}

func validateRootFlags() error {
	err := validation.Errors{
		"instance":  validation.Validate(instance, validation.When(baseURL == "", validation.Required, is.Host)),
		"space":     validation.Validate(space, validation.Required),
		"parent-id": validation.Validate(parentID, validation.Required, is.Digit),
	}.Filter()
	return confluence.ToValidationError(err)
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if err := validateRootFlags(); err != nil {
		return err
	}
	if !deleteMode() && dir == "" {
		return errors.NewValidationError("dir", "", "is required for upload mode")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	finish, err := startRun(cmd.Context())
	if err != nil {
		return err
	}
	defer finish()

	printer := report.New(cmd.OutOrStdout())
	client := confluence.NewClient(cfg, logger)
	u := uploader.New(client,
		uploader.WithPacer(infra.NewPacer(delay)),
		uploader.WithProgress(printer),
		uploader.WithLogger(logger),
		uploader.WithExtension(ext),
	)

	if deleteMode() {
		return runDelete(cmd.Context(), u, printer)
	}
	return runUpload(cmd.Context(), u, printer)
}

// deleteMode reports whether --delete was given, even with a blank title
func deleteMode() bool {
	return rootCmd.Flags().Changed("delete")
}

func runDelete(ctx context.Context, u *uploader.Uploader, printer *report.Printer) error {
	printer.Header(report.Header{
		Instance: instance,
		Space:    space,
		ParentID: parentID,
		Delete:   deleteTitle,
		DryRun:   dryRun,
	})

	_, stats, err := u.Delete(ctx, deleteTitle)
	if err != nil {
		return err
	}
	printer.Stats(stats)
	return nil
}

func runUpload(ctx context.Context, u *uploader.Uploader, printer *report.Printer) error {
	opts := uploader.Options{Dir: dir, ParentID: parentID, RootTitle: rootTitle}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	printer.Header(report.Header{
		Instance:  instance,
		Space:     space,
		ParentID:  parentID,
		Dir:       abs,
		RootTitle: opts.Title(),
		DryRun:    dryRun,
	})

	summary, err := u.Upload(ctx, opts)
	if err != nil {
		printer.Error(err)
		return err
	}
	printer.Stats(summary.Stats)
	return nil
}
