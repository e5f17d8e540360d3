package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// ValidateObject performs the structural checks on a loose semantic
// object, independent of any language. It accumulates every defect
// rather than stopping at the first so one response is actionable.
func ValidateObject(obj *semantic.Object) []diag.Diagnostic {
	var ds []diag.Diagnostic
	if strings.TrimSpace(obj.Action) == "" {
		ds = append(ds, diag.Errorf(diag.CodeInvalidAction, "action is required"))
	}
	names := make([]string, 0, len(obj.Roles))
	for name := range obj.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		role := obj.Roles[name]
		if _, ok := semantic.ParseValueKind(role.Type); !ok {
			ds = append(ds, diag.Errorf(diag.CodeInvalidValueType, "role %q: unknown value type %q", name, role.Type))
		}
		if role.Value == nil {
			ds = append(ds, diag.Errorf(diag.CodeMissingValue, "role %q: value is required", name))
		}
	}
	if obj.Trigger != nil && strings.TrimSpace(obj.Trigger.Event) == "" {
		ds = append(ds, diag.Errorf(diag.CodeInvalidTrigger, "trigger: event is required"))
	}
	return ds
}

// Validate runs structural validation on explicit or JSON input.
// Unlike DetectFormat, an empty action still routes to the JSON path
// here so the empty-action defect is reported rather than hidden.
// Natural-language input has no structure to validate and returns an
// error instead.
func (s *Service) Validate(input string) ([]diag.Diagnostic, error) {
	t := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") && len(t) >= 2:
		obj, ds := ParseExplicit(t)
		return append(ds, ValidateObject(obj)...), nil
	case strings.HasPrefix(t, "{"):
		obj, err := semantic.DecodeObject([]byte(t))
		if err != nil {
			return nil, fmt.Errorf("decode semantic object: %w", err)
		}
		return ValidateObject(obj), nil
	default:
		return nil, fmt.Errorf("structural validation requires explicit or json input")
	}
}
