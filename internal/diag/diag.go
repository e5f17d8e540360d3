// Package diag defines the diagnostic vocabulary shared by the
// parser, the renderer, and the compilation service.
package diag

import "fmt"

// Code identifies one failure class.
type Code string

const (
	CodeNoActionMatch       Code = "NO_ACTION_MATCH"
	CodeMissingRequiredRole Code = "MISSING_REQUIRED_ROLE"
	CodeRoleTypeMismatch    Code = "ROLE_TYPE_MISMATCH"
	CodeLowConfidence       Code = "LOW_CONFIDENCE"
	CodeInvalidAction       Code = "INVALID_ACTION"
	CodeInvalidValueType    Code = "INVALID_VALUE_TYPE"
	CodeMissingValue        Code = "MISSING_VALUE"
	CodeInvalidTrigger      Code = "INVALID_TRIGGER"
	CodeNoInput             Code = "NO_INPUT"
	// CodeUnknownAction marks the non-fatal placeholder path in code
	// generation. Always a warning, never an error.
	CodeUnknownAction Code = "UNKNOWN_ACTION"
)

// Severity is the weight of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one finding attached to a compile result.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any diagnostic in ds is error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
