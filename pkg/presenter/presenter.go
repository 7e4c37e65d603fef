// Package presenter provides consistent user-facing CLI output: success,
// warning and error lines with color support, plus quiet mode for scripted
// use. Log output goes through pkg/logger; the presenter is for humans.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Presenter writes user-facing messages.
type Presenter struct {
	output      io.Writer
	errorOutput io.Writer
	quiet       bool
}

// New creates a Presenter on stdout/stderr with color auto-detection.
func New() *Presenter {
	configureColor()
	return &Presenter{output: os.Stdout, errorOutput: os.Stderr}
}

// NewWithWriters creates a Presenter with custom writers, used by tests.
func NewWithWriters(output, errorOutput io.Writer) *Presenter {
	return &Presenter{output: output, errorOutput: errorOutput}
}

func configureColor() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
		return
	}
	switch os.Getenv("INSTRIO_COLOR") {
	case "always", "force":
		color.NoColor = false
	case "never", "off":
		color.NoColor = true
	}
}

// Error writes an error with optional context to the error output. Errors
// are never suppressed by quiet mode.
func (p *Presenter) Error(err error, context string) {
	if err == nil {
		return
	}
	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		c.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success writes a confirmation line.
func (p *Presenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning writes a warning line.
func (p *Presenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info writes a plain informational line.
func (p *Presenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section writes an underlined section header.
func (p *Presenter) Section(title string) {
	if p.quiet {
		return
	}
	c := color.New(color.Bold)
	c.Fprintf(p.output, "%s\n", title)
	c.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}

// Separator writes a faint horizontal rule.
func (p *Presenter) Separator() {
	if p.quiet {
		return
	}
	color.New(color.Faint).Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// SetQuiet enables or disables quiet mode.
func (p *Presenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is enabled.
func (p *Presenter) IsQuiet() bool {
	return p.quiet
}

var defaultPresenter = New()

// Error writes an error using the default presenter.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success writes a confirmation using the default presenter.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning writes a warning using the default presenter.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info writes an informational line using the default presenter.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section writes a section header using the default presenter.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Separator writes a horizontal rule using the default presenter.
func Separator() {
	defaultPresenter.Separator()
}

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}
