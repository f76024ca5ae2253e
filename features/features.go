package features

import (
	"fmt"
	"strings"
)

// Feature is a composable capability tag selected by a schema author.
type Feature uint8

const (
	Mintable Feature = iota
	FragmentSingle
	FragmentMulti
	Patch
	AccountPatch
	Patch1155
	Reversible
	LiteRef
	WeakRef
	DynamicRefLibrary
	featureCount
)

// Category orders features in the generated inheritance list.
type Category uint8

const (
	CategoryMint Category = iota
	CategoryFragment
	CategoryPatch
	CategoryReference
)

var categoryNames = [...]string{
	CategoryMint:      "mint",
	CategoryFragment:  "fragment",
	CategoryPatch:     "patch",
	CategoryReference: "reference",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

var featureNames = [...]string{
	Mintable:          "mintable",
	FragmentSingle:    "fragment-single",
	FragmentMulti:     "fragment-multi",
	Patch:             "patch",
	AccountPatch:      "patch-account",
	Patch1155:         "patch-1155",
	Reversible:        "reversible",
	LiteRef:           "literef",
	WeakRef:           "weakref",
	DynamicRefLibrary: "dynamic-reflib",
}

func (f Feature) valid() bool {
	return f < featureCount
}

func (f Feature) String() string {
	if f.valid() {
		return featureNames[f]
	}
	return "unknown"
}

// Category returns the feature's category.
func (f Feature) Category() Category {
	if f.valid() {
		return featureRules[f].category
	}
	return CategoryReference
}

// ParseFeature resolves a feature name such as "fragment-single".
func ParseFeature(name string) (Feature, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, fn := range featureNames {
		if fn == n {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// All returns every feature in declaration order.
func All() []Feature {
	out := make([]Feature, 0, featureCount)
	for f := Feature(0); f < featureCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Feature) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("invalid feature %d", uint8(f))
	}
	return []byte(f.String()), nil
}

func (f *Feature) UnmarshalText(text []byte) error {
	parsed, err := ParseFeature(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Facts are the structural properties of a schema the resolver depends on.
type Facts struct {
	// ReferenceFieldCardinalities holds one entry per literef field, in declaration order.
	ReferenceFieldCardinalities []int
}

// HasReferenceField reports whether any literef field is declared.
func (f Facts) HasReferenceField() bool {
	return len(f.ReferenceFieldCardinalities) > 0
}

// HasDynamicReferenceField reports whether a literef field has cardinality 0.
func (f Facts) HasDynamicReferenceField() bool {
	for _, c := range f.ReferenceFieldCardinalities {
		if c == 0 {
			return true
		}
	}
	return false
}
