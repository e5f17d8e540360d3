// Package doctor validates a glossa deployment end to end: the loaded
// configuration, the domain's command and profile catalog, and any
// profile packs on disk. Every check runs; defects accumulate instead
// of short-circuiting.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattjoyce/glossa/internal/auth"
	"github.com/mattjoyce/glossa/internal/config"
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/schema"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates configuration against a domain.
type Doctor struct {
	cfg    *config.Config
	domain dsl.Domain
}

// New creates a Doctor from a loaded config and the domain it serves.
func New(cfg *config.Config, domain dsl.Domain) *Doctor {
	return &Doctor{cfg: cfg, domain: domain}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.validateHistory(r)
	d.validateAPI(r)
	d.validateTokenScopes(r)
	profiles := d.validatePacks(r)
	reg := d.validateSchema(r, profiles)
	if reg != nil {
		d.validateDefaultLanguage(r, reg)
		d.warnMissingTerms(r, reg)
		d.warnMarkerCollisions(r, reg)
	}
	d.warnEngineSettings(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateHistory(r *Result) {
	if d.cfg.History.Enabled && d.cfg.History.Path == "" {
		d.addError(r, "history", "history.path", "path is required when history is enabled")
	}
}

func (d *Doctor) validateAPI(r *Result) {
	if !d.cfg.API.Enabled {
		return
	}
	apiKey := d.cfg.API.Auth.APIKey
	tokens := d.cfg.API.Auth.Tokens
	if apiKey == "" && len(tokens) == 0 {
		d.addWarning(r, "api", "api.auth",
			"API enabled without credentials; every caller gets full access")
	}
	if apiKey != "" && len(tokens) > 0 {
		d.addWarning(r, "api", "api.auth",
			"both api_key and tokens configured; prefer the tokens array with scopes")
	}
}

// validateTokenScopes checks every token scope against the scopes the
// API actually gates on.
func (d *Doctor) validateTokenScopes(r *Result) {
	for i, token := range d.cfg.API.Auth.Tokens {
		for j, scope := range token.Scopes {
			if auth.KnownScope(scope) {
				continue
			}
			d.addError(r, "token_scopes",
				fmt.Sprintf("api.auth.tokens[%d].scopes[%d]", i, j),
				fmt.Sprintf("unknown scope %q (known: %s)", scope, strings.Join(auth.KnownScopes, ", ")))
		}
	}
}

// validatePacks loads and merges profile packs, reporting every pack
// defect it can reach. The returned profiles are what the engine
// would actually run with, falling back to the domain baseline when
// the pack dir is unusable.
func (d *Doctor) validatePacks(r *Result) []schema.Profile {
	dir := d.cfg.Engine.ProfileDir
	if dir == "" {
		return d.domain.Profiles
	}

	info, err := os.Stat(dir)
	switch {
	case err != nil:
		d.addError(r, "packs", "engine.profile_dir",
			fmt.Sprintf("profile directory %s: %v", dir, err))
		return d.domain.Profiles
	case !info.IsDir():
		d.addError(r, "packs", "engine.profile_dir",
			fmt.Sprintf("%s is not a directory", dir))
		return d.domain.Profiles
	}

	if err := config.VerifyProfiles(dir); err != nil {
		d.addError(r, "packs", "engine.profile_dir", err.Error())
	}

	packs, err := dsl.LoadPacks(dir)
	if err != nil {
		d.addError(r, "packs", "engine.profile_dir", err.Error())
		return d.domain.Profiles
	}
	return dsl.MergeProfiles(d.domain.Profiles, packs)
}

// validateSchema binds commands to the merged profiles the way the
// engine would at startup.
func (d *Doctor) validateSchema(r *Result, profiles []schema.Profile) *schema.Registry {
	reg, err := schema.NewRegistry(d.domain.Commands, profiles)
	if err != nil {
		d.addError(r, "schema", "", err.Error())
		return nil
	}
	return reg
}

func (d *Doctor) validateDefaultLanguage(r *Result, reg *schema.Registry) {
	code := d.cfg.Engine.DefaultLanguage
	if code == "" {
		return
	}
	if _, ok := reg.Profile(code); !ok {
		d.addError(r, "engine", "engine.default_language",
			fmt.Sprintf("default language %q has no profile", code))
	}
}

// warnMissingTerms flags actions a language cannot express.
func (d *Doctor) warnMissingTerms(r *Result, reg *schema.Registry) {
	for _, p := range reg.Profiles() {
		for _, action := range reg.Actions() {
			term, ok := p.TermFor(action)
			if !ok || term.Native == "" {
				d.addWarning(r, "terms",
					fmt.Sprintf("profiles.%s.actions.%s", p.Code, action),
					fmt.Sprintf("action %q has no native term in language %q", action, p.Code))
			}
		}
	}
}

// warnMarkerCollisions flags two roles of one command resolving to
// the same particle in one language, which makes parses ambiguous.
func (d *Doctor) warnMarkerCollisions(r *Result, reg *schema.Registry) {
	for _, p := range reg.Profiles() {
		for _, cmd := range reg.Commands() {
			seen := map[string]string{}
			for _, role := range cmd.Roles {
				marker, ok := p.MarkerFor(role)
				if !ok {
					continue
				}
				if prev, dup := seen[marker]; dup {
					d.addWarning(r, "markers",
						fmt.Sprintf("profiles.%s.markers", p.Code),
						fmt.Sprintf("command %q: roles %q and %q share marker %q in language %q",
							cmd.Action, prev, role.Name, marker, p.Code))
					continue
				}
				seen[marker] = role.Name
			}
		}
	}
}

func (d *Doctor) warnEngineSettings(r *Result) {
	if d.cfg.Engine.CacheCapacity == 0 {
		d.addWarning(r, "cache", "engine.cache_capacity",
			"cache capacity 0 disables result caching")
	}
	if mc := d.cfg.Engine.MinConfidence; mc < 0 || mc > 1 {
		d.addWarning(r, "threshold", "engine.min_confidence",
			fmt.Sprintf("min_confidence %v is outside [0, 1]", mc))
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	switch {
	case r.Valid && len(r.Warnings) == 0:
		b.WriteString("✓ configuration valid\n")
		return b.String()
	case r.Valid:
		fmt.Fprintf(&b, "✓ configuration valid (%d warning(s))\n", len(r.Warnings))
	default:
		fmt.Fprintf(&b, "✗ configuration invalid (%d error(s), %d warning(s))\n",
			len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ✗ [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ✗ [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  ⚠ [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  ⚠ [%s] %s\n", w.Category, w.Message)
		}
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
