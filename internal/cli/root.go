// Package cli wires configuration, the log sink and the converter into the
// weekday command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"weekday/internal/config"
	"weekday/internal/ics"
	appLog "weekday/internal/log"
	"weekday/internal/model"
	"weekday/internal/render"
	"weekday/internal/weekday"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Options are the process-level collaborators of the command.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// EnvFile is an optional dotenv file read before WEEKDAY_* variables.
	EnvFile string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type rootFlags struct {
	configPath  string
	logDir      string
	logName     string
	logLevel    string
	logFormat   string
	format      string
	noConsole   bool
	icsPath     string
	sameWeekday int
	version     bool
}

// NewRootCommand builds the weekday command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts.defaults()
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "weekday [flags] YYYY-MM-DD",
		Short: "Print the day of the week for a date",
		Long: `weekday validates a date given as YYYY-MM-DD and prints the day of the
week it falls on in the proleptic Gregorian calendar. Every run writes a
timestamped log file and mirrors log lines to stderr.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Fprintf(opts.Stdout, "weekday version %s\n", getVersion())
				return nil
			}
			return runConvert(cmd, args, flags, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file (default \"weekday.yaml\" if present)")
	f.StringVar(&flags.logDir, "log-dir", "", "Directory for log files (default \"logfiles\")")
	f.StringVar(&flags.logName, "log-name", "", "Base name of the log file (default \"log\")")
	f.StringVar(&flags.logLevel, "log-level", "", "Minimum log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log line template over {{.Time}} {{.Level}} {{.Component}} {{.Message}}")
	f.StringVarP(&flags.format, "format", "o", "", "Output format: text, json, ics")
	f.BoolVar(&flags.noConsole, "no-console", false, "Do not mirror log lines to stderr")
	f.StringVar(&flags.icsPath, "ics", "", "Read the date from the first VEVENT of an .ics file")
	f.IntVar(&flags.sameWeekday, "same-weekday", 0, "Also list the next N years in which the date falls on the same weekday")
	f.BoolVarP(&flags.version, "version", "v", false, "Print the version number and exit")

	cmd.AddCommand(newConfigCommand(opts))
	return cmd
}

// Execute runs the command with the process arguments and returns the exit
// code.
func Execute(ctx context.Context, opts Options) int {
	return run(ctx, opts, os.Args[1:])
}

func run(ctx context.Context, opts Options, args []string) int {
	opts.defaults()
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(opts.Stderr, "weekday: %v\n", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// resolveConfig merges defaults, the config file, the environment and the
// explicitly set flags, in increasing order of precedence. A --config path
// must exist; the implicit weekday.yaml is optional.
func resolveConfig(cmd *cobra.Command, flags rootFlags, opts Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(defaultConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("log-dir") {
		cfg.LogDir = flags.logDir
	}
	if f.Changed("log-name") {
		cfg.LogName = flags.logName
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if f.Changed("format") {
		cfg.Format = flags.format
	}
	if flags.noConsole {
		off := false
		cfg.Console = &off
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readInput(args []string, icsPath string) (string, error) {
	switch {
	case len(args) == 1 && icsPath != "":
		return "", errors.New("give either a date argument or --ics, not both")
	case len(args) == 1:
		return args[0], nil
	case icsPath != "":
		body, err := os.ReadFile(icsPath)
		if err != nil {
			return "", err
		}
		return ics.FirstDate(body)
	default:
		return "", errors.New("a date argument in YYYY-MM-DD format is required")
	}
}

func runConvert(cmd *cobra.Command, args []string, flags rootFlags, opts Options) error {
	if flags.sameWeekday < 0 || flags.sameWeekday > weekday.MaxSameWeekdayYears {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("--same-weekday must be between 0 and %d", weekday.MaxSameWeekdayYears)}
	}

	cfg, err := resolveConfig(cmd, flags, opts)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	input, err := readInput(args, flags.icsPath)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	var console io.Writer
	if cfg.ConsoleEnabled() {
		console = opts.Stderr
	}

	sink, err := appLog.New(appLog.Options{
		Dir:        cfg.LogDir,
		Base:       cfg.LogName,
		Level:      level,
		Component:  "weekday",
		Console:    console,
		Now:        opts.Now,
		LineFormat: cfg.LogFormat,
	})
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer sink.Close()

	runID := uuid.NewString()
	sink.Debug("run started", "run_id", runID, "log_file", sink.Path(), "format", cfg.Format)

	name, err := weekday.Convert(input, sink)
	if err != nil {
		kind := weekday.KindOf(err)
		sink.Warn("no day of week produced", "run_id", runID, "kind", kind)
		code := ExitFailure
		if kind == weekday.MalformedInput || kind == weekday.InvalidCalendarDate {
			code = ExitInvalid
		}
		return &ExitError{Code: code, Err: err}
	}

	date, err := weekday.Parse(input)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	result := model.Result{Input: input, Date: date, Weekday: name}

	if flags.sameWeekday > 0 {
		years, err := weekday.SameWeekdayYears(date, flags.sameWeekday)
		if err != nil {
			sink.Error("same-weekday lookup failed", err, "run_id", runID)
			return &ExitError{Code: ExitFailure, Err: err}
		}
		result.SameWeekdayYears = years
		sink.Debug("same-weekday years", "run_id", runID, "years", years)
	}

	if err := render.Write(opts.Stdout, cfg.Format, result, opts.Now()); err != nil {
		sink.Error("write result failed", err, "run_id", runID)
		return &ExitError{Code: ExitFailure, Err: err}
	}

	sink.Debug("run finished", "run_id", runID)
	return nil
}

// getVersion returns the version of the application from build info
func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}
