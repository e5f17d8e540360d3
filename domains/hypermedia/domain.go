// Package hypermedia is the reference domain: DOM-manipulation
// commands phrased in six languages across all three word orders,
// compiled to browser JavaScript. It doubles as the default domain of
// the service binary.
package hypermedia

import (
	"github.com/mattjoyce/glossa/internal/dsl"
	"github.com/mattjoyce/glossa/internal/schema"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// Name is the domain identifier used in logs and the API.
const Name = "hypermedia"

func allOrders(w int) map[schema.WordOrder]int {
	return map[schema.WordOrder]int{schema.SVO: w, schema.SOV: w, schema.VSO: w}
}

func commands() []schema.Command {
	selector := []semantic.ValueKind{semantic.KindSelector}
	return []schema.Command{
		{
			Action:   "toggle",
			Category: "visibility",
			Primary:  "target",
			Roles: []schema.Role{
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(10),
					Markers:   map[string]string{"ja": "を"},
				},
			},
		},
		{
			Action:   "show",
			Category: "visibility",
			Primary:  "target",
			Roles: []schema.Role{
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(10),
					Markers:   map[string]string{"ja": "を"},
				},
			},
		},
		{
			Action:   "hide",
			Category: "visibility",
			Primary:  "target",
			Roles: []schema.Role{
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(10),
					Markers:   map[string]string{"ja": "を"},
				},
			},
		},
		{
			Action:   "add",
			Category: "content",
			Primary:  "patient",
			Roles: []schema.Role{
				{
					Name: "patient", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindSelector, semantic.KindLiteral},
					Positions: allOrders(20),
					Markers:   map[string]string{"ja": "を"},
				},
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(10),
					Markers: map[string]string{
						"en": "to", "es": "a", "ja": "に", "tr": "içine", "ar": "إلى", "ga": "le",
					},
				},
			},
		},
		{
			Action:   "remove",
			Category: "content",
			Primary:  "patient",
			Roles: []schema.Role{
				{
					Name: "patient", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindSelector, semantic.KindLiteral},
					Positions: allOrders(20),
					Markers:   map[string]string{"ja": "を"},
				},
				{
					Name: "target", Kinds: selector,
					Positions: allOrders(10),
					Markers: map[string]string{
						"en": "from", "es": "de", "ja": "から", "tr": "içinden", "ar": "من", "ga": "ó",
					},
				},
			},
		},
		{
			Action:   "set",
			Category: "content",
			Primary:  "target",
			Roles: []schema.Role{
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(20),
					Markers:   map[string]string{"ja": "を"},
				},
				{
					Name: "value", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindLiteral, semantic.KindExpression},
					Positions: allOrders(10),
					Markers: map[string]string{
						"en": "to", "es": "a", "ja": "に", "tr": "olarak", "ar": "إلى", "ga": "go",
					},
				},
			},
		},
		{
			Action:   "wait",
			Category: "timing",
			Primary:  "duration",
			Roles: []schema.Role{
				{
					Name: "duration", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindDuration},
					Positions: allOrders(10),
					Markers:   map[string]string{"en": "for", "es": "durante"},
				},
			},
		},
		{
			Action:   "navigate",
			Category: "navigation",
			Primary:  "destination",
			Roles: []schema.Role{
				{
					Name: "destination", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindLiteral},
					Positions: allOrders(10),
					Markers: map[string]string{
						"en": "to", "es": "a", "ja": "へ", "ar": "إلى", "ga": "go",
					},
				},
			},
		},
		{
			Action:   "resize",
			Category: "layout",
			Primary:  "target",
			Roles: []schema.Role{
				{
					Name: "target", Required: true, Kinds: selector,
					Positions: allOrders(20),
					Markers:   map[string]string{"ja": "を"},
				},
				{
					Name: "size", Required: true,
					Kinds:     []semantic.ValueKind{semantic.KindDimension},
					Positions: allOrders(10),
					Markers: map[string]string{
						"en": "to", "es": "a", "ja": "に", "tr": "olarak", "ar": "إلى", "ga": "go",
					},
				},
			},
		},
	}
}

// Domain returns the command set, baseline profiles, and generator.
// Callers overlay profile packs before handing it to dsl.New.
func Domain() dsl.Domain {
	return dsl.Domain{
		Name:      Name,
		Commands:  commands(),
		Profiles:  profiles(),
		Generator: NewGenerator(),
	}
}

// New builds a ready handle over the baseline domain.
func New(opts dsl.Options) (*dsl.Handle, error) {
	return dsl.New(Domain(), opts)
}
