package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Exit codes by category. Anything not listed exits with 1.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryInternal:   10,
	CategoryBuild:      11,
	CategoryFileSystem: 11,
	CategoryTemplate:   11,
	CategoryMenu:       11,
	CategoryTransform:  11,
	CategoryRuntime:    12,
}

// CLIErrorAdapter turns an error returned by a command into a message on
// stderr and a process exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor returns 0 for nil, the category code for a SiteError and 1
// otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	se, ok := As(err)
	if !ok {
		return 1
	}
	if code, ok := exitCodes[se.Category]; ok {
		return code
	}
	return 1
}

// FormatError renders err for the terminal. Build failures list the failed
// files when verbose.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	se, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	switch se.Category {
	case CategoryConfig, CategoryValidation:
		return withDetail(se.Message, se.Context["field"], se.Context["reason"], se.Context["path"])
	case CategoryBuild:
		if n, ok := se.Context["failed"]; ok {
			msg := fmt.Sprintf("%s: %v file(s) failed", se.Message, n)
			if a.verbose {
				for _, e := range leaves(se.Cause) {
					msg += "\n  " + e.Error()
				}
			}
			return msg
		}
	}
	if a.verbose {
		return se.Error()
	}
	return fmt.Sprintf("%s: %s", se.Category, se.Message)
}

func withDetail(msg string, parts ...any) string {
	var detail []string
	for _, p := range parts {
		if p != nil && p != "" {
			detail = append(detail, fmt.Sprint(p))
		}
	}
	if len(detail) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(detail, ": "))
}

// leaves flattens an errors.Join tree.
func leaves(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, leaves(e)...)
		}
		return out
	}
	return []error{err}
}

// HandleError prints err and exits with its code. A nil error is a no-op.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	se, ok := As(err)
	if !ok {
		return true
	}
	return se.Category == CategoryInternal || se.Category == CategoryRuntime || se.Severity == SeverityFatal
}

func (a *CLIErrorAdapter) logError(err error) {
	se, ok := As(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.String("error", err.Error()))
		return
	}
	attrs := []slog.Attr{slog.String("category", string(se.Category))}
	for k, v := range se.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if se.Cause != nil {
		attrs = append(attrs, slog.String("cause", se.Cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), levelFor(se.Severity), se.Message, attrs...)
}

func levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
