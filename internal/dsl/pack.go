package dsl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mattjoyce/glossa/internal/schema"
)

// PackProfile is the YAML wire form of a language profile. Packs let
// operators add or override languages without recompiling the domain.
type PackProfile struct {
	Language        string                    `yaml:"language"`
	Name            string                    `yaml:"name"`
	WordOrder       string                    `yaml:"word_order"`
	Actions         map[string]PackTerm       `yaml:"actions"`
	Markers         map[string]string         `yaml:"markers"`
	Positions       map[string]map[string]int `yaml:"positions"`
	Keywords        []string                  `yaml:"keywords"`
	MarkerPlacement string                    `yaml:"marker_placement"`
	Direction       string                    `yaml:"direction"`
}

// PackTerm is one action's native term plus input aliases.
type PackTerm struct {
	Term    string   `yaml:"term"`
	Aliases []string `yaml:"aliases"`
}

// Profile converts the pack document into a validated schema profile.
// Position tables for word orders other than the profile's own are
// ignored.
func (pp PackProfile) Profile() (schema.Profile, error) {
	order, err := schema.ParseWordOrder(pp.WordOrder)
	if err != nil {
		return schema.Profile{}, fmt.Errorf("profile %q: %w", pp.Language, err)
	}

	actions := make(map[string]schema.Term, len(pp.Actions))
	for canonical, term := range pp.Actions {
		actions[canonical] = schema.Term{Native: term.Term, Aliases: term.Aliases}
	}

	p := schema.Profile{
		Code:            pp.Language,
		Name:            pp.Name,
		Order:           order,
		Actions:         actions,
		Markers:         pp.Markers,
		MarkerPlacement: pp.MarkerPlacement,
		Direction:       pp.Direction,
		Extra:           pp.Keywords,
	}
	for key, table := range pp.Positions {
		if strings.EqualFold(key, string(order)) {
			p.Positions = table
		}
	}
	if err := p.Validate(); err != nil {
		return schema.Profile{}, err
	}
	return p, nil
}

// LoadPack parses one YAML profile document.
func LoadPack(data []byte) (schema.Profile, error) {
	var pp PackProfile
	if err := yaml.Unmarshal(data, &pp); err != nil {
		return schema.Profile{}, fmt.Errorf("parse profile pack: %w", err)
	}
	return pp.Profile()
}

// LoadPacks reads every .yaml/.yml file in dir as one profile each,
// in lexical filename order. A missing dir is not an error so the
// profile_dir config can point at an optional drop-in location.
func LoadPacks(dir string) ([]schema.Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var profiles []schema.Profile
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("profile pack %s: %w", entry.Name(), err)
		}
		profile, err := LoadPack(data)
		if err != nil {
			return nil, fmt.Errorf("profile pack %s: %w", entry.Name(), err)
		}
		if prev, dup := seen[profile.Code]; dup {
			return nil, fmt.Errorf("profile pack %s: language %q already defined by %s", entry.Name(), profile.Code, prev)
		}
		seen[profile.Code] = entry.Name()
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// MergeProfiles overlays pack profiles onto a domain's baseline. A
// pack profile for an existing language replaces it wholesale.
func MergeProfiles(baseline, packs []schema.Profile) []schema.Profile {
	if len(packs) == 0 {
		return baseline
	}
	override := make(map[string]schema.Profile, len(packs))
	for _, p := range packs {
		override[p.Code] = p
	}
	merged := make([]schema.Profile, 0, len(baseline)+len(packs))
	used := make(map[string]bool, len(override))
	for _, p := range baseline {
		if repl, ok := override[p.Code]; ok {
			merged = append(merged, repl)
			used[p.Code] = true
			continue
		}
		merged = append(merged, p)
	}
	for _, p := range packs {
		if !used[p.Code] {
			merged = append(merged, p)
		}
	}
	return merged
}
