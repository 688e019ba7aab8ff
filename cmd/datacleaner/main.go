package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"datacleaner/database"
	apperrors "datacleaner/errors"
	"datacleaner/internal/config"
	"datacleaner/logger"
	"datacleaner/pipeline"
	"datacleaner/prompts"
)

type options struct {
	yes      bool
	auditDB  string
	logLevel string
	encoding string
	types    []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(execute(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// execute запускает команду и возвращает код завершения процесса
func execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmd := newRootCmd(out, errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(errOut, err)
	}
	return apperrors.ExitCode(err)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "datacleaner <file_path>",
		Short: "Interactively clean a CSV or Excel file",
		Long: `datacleaner repairs headers, infers column types, normalizes values,
fixes categorical typos, resolves duplicates and audits missing values.
The result is written next to the input with a _cleaned suffix.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: datacleaner <file_path>")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), args[0], cfg, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Answer every prompt with its default (batch mode)")
	flags.StringVar(&opts.auditDB, "audit-db", "", "SQLite file for the audit journal of decisions")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	flags.StringVar(&opts.encoding, "encoding", "", "CSV input encoding: utf-8, windows-1251, windows-1252")
	flags.StringArrayVarP(&opts.types, "type", "t", nil, "Override column type, e.g. --type zip=postal (repeatable)")
	return cmd
}

// loadConfig читает конфигурацию из окружения; флаги имеют приоритет
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, apperrors.NewFatalError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("yes") {
		cfg.NonInteractive = opts.yes
	}
	if flags.Changed("audit-db") {
		cfg.AuditDBPath = opts.auditDB
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("encoding") {
		cfg.InputEncoding = opts.encoding
	}
	for _, pair := range opts.types {
		if err := config.AddTypeOverride(cfg.TypeOverrides, pair); err != nil {
			return nil, apperrors.NewFatalError("invalid --type flag", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewFatalError("invalid configuration", err)
	}
	return cfg, nil
}

func run(ctx context.Context, input string, cfg *config.Config, out, errOut io.Writer) error {
	logger.Init(cfg.LogLevel, cfg.LogFormat, errOut)

	var prompter prompts.Prompter = prompts.NewSurveyPrompter()
	if cfg.NonInteractive {
		prompter = prompts.NewDefaultsPrompter(cfg.DefaultDateFormat)
	}

	var recorder database.Recorder = database.NopRecorder{}
	if cfg.AuditDBPath != "" {
		audit, err := database.NewAuditDB(cfg.AuditDBPath)
		if err != nil {
			return apperrors.NewFatalError("failed to open audit journal", err).WithContext(cfg.AuditDBPath)
		}
		defer audit.Close()
		recorder = audit
	}

	_, err := pipeline.New(prompter, recorder, pipeline.ConfigFrom(cfg), out).CleanFile(ctx, input)
	return err
}

// reportError печатает ошибку для оператора; для битой строки CSV добавляет подсказки
func reportError(w io.Writer, err error) {
	var malformed *apperrors.MalformedRowError
	if errors.As(err, &malformed) {
		fmt.Fprintf(w, "Malformed CSV: Row %d has %d columns but header has %d.\n", malformed.Row, malformed.Got, malformed.Expected)
		if malformed.Hint != "" {
			fmt.Fprintln(w, malformed.Hint)
		}
		fmt.Fprintln(w, "Tip: Check for unquoted currency values with commas")
		fmt.Fprintln(w, "Fix: Wrap currency values in double quotes to preserve column structure.")
		return
	}

	// отказ оператора не ошибка данных, но вывод тоже не сохраняется
	prefix := "Error"
	if !apperrors.IsFatal(err) {
		prefix = "Cancelled"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.GetContext() != "" {
		fmt.Fprintf(w, "%s: %v (%s)\n", prefix, err, appErr.GetContext())
		return
	}
	fmt.Fprintf(w, "%s: %v\n", prefix, err)
}
