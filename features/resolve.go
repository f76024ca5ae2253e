package features

import (
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/schemac/errors"
)

// Collision is a symbol several required mixins define. Mixins[0] wins.
type Collision struct {
	Symbol string  `json:"symbol"`
	Mixins []Mixin `json:"mixins"`
}

// Plan is the capability surface the generated contract must expose.
type Plan struct {
	Features       []Feature   `json:"features"`
	RequiredMixins []Mixin     `json:"requiredMixins"`
	AutoEnabled    []Feature   `json:"autoEnabled"`
	Collisions     []Collision `json:"collisions"`
	Interfaces     []string    `json:"interfaces"`
}

// Has reports whether f is part of the effective feature set.
func (p *Plan) Has(f Feature) bool {
	for _, x := range p.Features {
		if x == f {
			return true
		}
	}
	return false
}

// Collision returns the collision entry for symbol, if any.
func (p *Plan) Collision(symbol string) (Collision, bool) {
	for _, c := range p.Collisions {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Collision{}, false
}

// String renders the inheritance line followed by one override line per collision.
func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString("is ")
	for i, m := range p.RequiredMixins {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	for _, c := range p.Collisions {
		b.WriteString("\n")
		b.WriteString(c.Symbol)
		b.WriteString(": override(")
		for i, m := range c.Mixins {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.String())
		}
		b.WriteString(")")
	}
	return b.String()
}

type set [featureCount]bool

func (s *set) hasAny(fs ...Feature) bool {
	for _, f := range fs {
		if s[f] {
			return true
		}
	}
	return false
}

func (s *set) list() []Feature {
	var out []Feature
	for f := Feature(0); f < featureCount; f++ {
		if s[f] {
			out = append(out, f)
		}
	}
	return out
}

// Resolve computes the capability plan for the selected features.
// The result depends only on the set of selected features, not their order.
func Resolve(selected []Feature, facts Facts) (*Plan, error) {
	var active, auto set
	for _, f := range selected {
		if !f.valid() {
			return nil, errors.New(errors.PhaseResolve, errors.KindInvalidInput).
				Value(uint8(f)).
				Detail("unknown feature %d", uint8(f)).
				Build()
		}
		active[f] = true
	}

	enable := func(f Feature, unless []Feature, reason string) {
		if active[f] || active.hasAny(unless...) {
			return
		}
		active[f] = true
		auto[f] = true
		Logger().Debug("feature auto-enabled",
			zap.Stringer("feature", f),
			zap.String("reason", reason))
	}

	for _, r := range autoRules {
		if r.when(facts) {
			enable(r.enables, r.unless, r.reason)
		}
	}
	for _, s := range defaultSiblings {
		if active[s.owner] {
			enable(s.enables, s.unless, "default sibling of "+s.owner.String())
		}
	}

	for _, group := range exclusiveGroups {
		var first Feature
		seen := false
		for _, f := range group {
			if !active[f] {
				continue
			}
			if seen {
				return nil, errors.Incompatible(first.String(), f.String())
			}
			first, seen = f, true
		}
	}

	for f := Feature(0); f < featureCount; f++ {
		req := featureRules[f].requires
		if active[f] && req != nil && !req.holds(facts, active) {
			return nil, errors.Unmet(f.String(), req.requirement)
		}
	}

	required := requiredMixins(&active)
	plan := &Plan{
		Features:       active.list(),
		RequiredMixins: required,
		AutoEnabled:    auto.list(),
		Collisions:     collisions(required),
		Interfaces:     interfaces(required),
	}
	if plan.AutoEnabled == nil {
		plan.AutoEnabled = []Feature{}
	}
	if plan.Collisions == nil {
		plan.Collisions = []Collision{}
	}
	return plan, nil
}

func requiredMixins(active *set) []Mixin {
	var seen [mixinCount]bool
	var out []Mixin
	add := func(m Mixin) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}

	var contributed []Mixin
	for c := CategoryMint; c <= CategoryReference; c++ {
		for f := Feature(0); f < featureCount; f++ {
			if active[f] && featureRules[f].category == c {
				contributed = append(contributed, featureRules[f].mixins...)
			}
		}
	}

	for _, s := range substitutions {
		if !active[s.when] {
			continue
		}
		for i, m := range contributed {
			if m == s.replace {
				contributed[i] = s.with
			}
		}
	}

	base := true
	for _, m := range contributed {
		if m.is721() {
			base = false
			break
		}
	}
	if base {
		add(MixinToken721)
	}
	for _, m := range contributed {
		add(m)
	}
	return out
}

func collisions(required []Mixin) []Collision {
	var present [mixinCount]bool
	for _, m := range required {
		present[m] = true
	}

	var out []Collision
	index := make(map[string]int)
	for _, row := range collisionTable {
		if !present[row.winner] || !present[row.loser] {
			continue
		}
		for _, sym := range row.symbols {
			i, ok := index[sym]
			if !ok {
				i = len(out)
				index[sym] = i
				out = append(out, Collision{Symbol: sym})
			}
			out[i].Mixins = appendMissing(out[i].Mixins, row.winner, row.loser)
		}
	}
	return out
}

func appendMissing(list []Mixin, ms ...Mixin) []Mixin {
next:
	for _, m := range ms {
		for _, x := range list {
			if x == m {
				continue next
			}
		}
		list = append(list, m)
	}
	return list
}

func interfaces(required []Mixin) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range required {
		for _, iface := range m.Interfaces() {
			if !seen[iface] {
				seen[iface] = true
				out = append(out, iface)
			}
		}
	}
	return out
}
