// Package validate checks structural and cross-reference invariants over
// the instrument database. Findings are accumulated and reported as a
// batch; nothing aborts on the first problem.
package validate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityError marks findings that fail the run even outside strict
	// mode.
	SeverityError Severity = "error"
	// SeverityWarning marks findings that fail the run only under strict
	// mode.
	SeverityWarning Severity = "warning"
)

// Kind classifies a finding.
type Kind string

const (
	KindInvalidTagFormat    Kind = "InvalidTagFormat"
	KindUnknownLetter       Kind = "UnknownLetter"
	KindLoopKeyFormat       Kind = "LoopKeyFormat"
	KindLoopKeyMismatch     Kind = "LoopKeyMismatch"
	KindTagMismatch         Kind = "TagMismatch"
	KindDuplicateID         Kind = "DuplicateID"
	KindInvalidIOType       Kind = "InvalidIOType"
	KindUnresolvedReference Kind = "UnresolvedReference"
)

// Finding is one validation result tied to the offending record.
type Finding struct {
	Severity Severity
	Kind     Kind
	Location string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s: %s (%s)", f.Severity, f.Location, f.Message, f.Kind)
}

// Report is the accumulated outcome of a validation run.
type Report struct {
	Findings []Finding
}

func (r *Report) add(severity Severity, kind Kind, location, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Kind:     kind,
		Location: location,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Errors returns the number of error-severity findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-severity findings.
func (r *Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// Failed reports whether the run should exit nonzero. Outside strict mode
// only error-severity findings fail the run; under strict mode any finding
// does.
func (r *Report) Failed(strict bool) bool {
	if strict {
		return len(r.Findings) > 0
	}
	return r.Errors() > 0
}

// Err collapses the failing findings into a single error, or nil when the
// run passed.
func (r *Report) Err(strict bool) error {
	if !r.Failed(strict) {
		return nil
	}
	var result *multierror.Error
	for _, f := range r.Findings {
		if strict || f.Severity == SeverityError {
			result = multierror.Append(result, fmt.Errorf("%s", f.String()))
		}
	}
	return result.ErrorOrNil()
}
