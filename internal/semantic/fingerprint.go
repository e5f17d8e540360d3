package semantic

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Fingerprint computes the canonical cache key for a node under a set of
// compile options. Structurally equal inputs always produce the same
// string regardless of role fill order, map iteration order, or object
// identity; any change to a role value or option changes it.
func Fingerprint(n *Node, opts map[string]string) (string, error) {
	type fingerprintRole struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	type fingerprintOpt struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	type fingerprintShape struct {
		Action  string            `json:"action"`
		Roles   []fingerprintRole `json:"roles"`
		Trigger *Trigger          `json:"trigger,omitempty"`
		Options []fingerprintOpt  `json:"options,omitempty"`
	}

	roles := make([]fingerprintRole, 0, len(n.Roles))
	for _, r := range n.Roles {
		roles = append(roles, fingerprintRole{
			Name:  r.Name,
			Type:  string(r.Value.Kind()),
			Value: r.Value.Text(),
		})
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	options := make([]fingerprintOpt, 0, len(opts))
	for k, v := range opts {
		options = append(options, fingerprintOpt{Key: k, Value: v})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Key < options[j].Key })

	shape := fingerprintShape{
		Action:  n.Action,
		Roles:   roles,
		Options: options,
	}
	if n.Trigger != nil {
		t := *n.Trigger
		shape.Trigger = &t
	}

	body, err := json.Marshal(shape)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint input: %w", err)
	}
	sum := blake3.Sum256(body)
	return "blake3:" + hex.EncodeToString(sum[:]), nil
}
