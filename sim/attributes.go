package sim

import "maps"

// Attributes is the optional metadata attached to the network plan, a route
// or a protection segment. Nil fields mean "not set here";
// EffectiveRouteAttributes and EffectiveSegmentAttributes resolve them
// against the plan-wide record.
type Attributes struct {
	// Revertive routes go back to their planned path once it is repaired.
	Revertive *bool `yaml:"revertive,omitempty"`
	// PartialRecoveryAllowed lets a restoration carry less than the planned traffic.
	PartialRecoveryAllowed *bool `yaml:"partial_recovery_allowed,omitempty"`
	// Priority orders recovery attempts; higher is served first.
	Priority *int `yaml:"priority,omitempty"`
	// Extra holds open-ended metadata that has no typed field.
	Extra map[string]string `yaml:"extra,omitempty"`
}

// BoolAttr returns a pointer to v, for filling Attributes literals.
func BoolAttr(v bool) *bool { return &v }

// IntAttr returns a pointer to v, for filling Attributes literals.
func IntAttr(v int) *int { return &v }

// WithFallback returns a copy of a where every unset field is taken from fb.
// Extra keys present in a win over the same keys in fb.
func (a Attributes) WithFallback(fb Attributes) Attributes {
	out := a.clone()
	if out.Revertive == nil && fb.Revertive != nil {
		out.Revertive = BoolAttr(*fb.Revertive)
	}
	if out.PartialRecoveryAllowed == nil && fb.PartialRecoveryAllowed != nil {
		out.PartialRecoveryAllowed = BoolAttr(*fb.PartialRecoveryAllowed)
	}
	if out.Priority == nil && fb.Priority != nil {
		out.Priority = IntAttr(*fb.Priority)
	}
	for k, v := range fb.Extra {
		if _, ok := out.Extra[k]; ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]string, len(fb.Extra))
		}
		out.Extra[k] = v
	}
	return out
}

// IsRevertive reports whether the revertive flag is set to true.
func (a Attributes) IsRevertive() bool {
	return a.Revertive != nil && *a.Revertive
}

// AllowsPartialRecovery reports whether the partial-recovery flag is set to true.
func (a Attributes) AllowsPartialRecovery() bool {
	return a.PartialRecoveryAllowed != nil && *a.PartialRecoveryAllowed
}

// PriorityOr returns the priority, or def when unset.
func (a Attributes) PriorityOr(def int) int {
	if a.Priority == nil {
		return def
	}
	return *a.Priority
}

// Get returns the Extra value stored under key.
func (a Attributes) Get(key string) (string, bool) {
	v, ok := a.Extra[key]
	return v, ok
}

func (a Attributes) clone() Attributes {
	out := Attributes{Extra: maps.Clone(a.Extra)}
	if a.Revertive != nil {
		out.Revertive = BoolAttr(*a.Revertive)
	}
	if a.PartialRecoveryAllowed != nil {
		out.PartialRecoveryAllowed = BoolAttr(*a.PartialRecoveryAllowed)
	}
	if a.Priority != nil {
		out.Priority = IntAttr(*a.Priority)
	}
	return out
}
