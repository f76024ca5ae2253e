package features

// The resolver is driven entirely by the tables below. Adding a feature means
// adding rows here; Resolve has no per-feature branches.

type precondition struct {
	holds       func(Facts, set) bool
	requirement string
}

type featureRule struct {
	category Category
	mixins   []Mixin
	requires *precondition
}

var (
	needsRefField = &precondition{
		holds:       func(f Facts, _ set) bool { return f.HasReferenceField() },
		requirement: "a literef field",
	}
	needsDynamicRefField = &precondition{
		holds:       func(f Facts, _ set) bool { return f.HasDynamicReferenceField() },
		requirement: "a literef field with cardinality 0",
	}
	needsPatch = &precondition{
		holds:       func(_ Facts, s set) bool { return s.hasAny(Patch, AccountPatch, Patch1155) },
		requirement: "one of patch, patch-account, patch-1155",
	}
)

var featureRules = [featureCount]featureRule{
	Mintable:          {category: CategoryMint, mixins: []Mixin{MixinMintable}},
	FragmentSingle:    {category: CategoryFragment, mixins: []Mixin{MixinFragmentSingle}},
	FragmentMulti:     {category: CategoryFragment, mixins: []Mixin{MixinFragmentMulti}},
	Patch:             {category: CategoryPatch, mixins: []Mixin{MixinPatch}},
	AccountPatch:      {category: CategoryPatch, mixins: []Mixin{MixinAccountPatch}},
	Patch1155:         {category: CategoryPatch, mixins: []Mixin{MixinPatch1155}},
	Reversible:        {category: CategoryPatch, requires: needsPatch},
	LiteRef:           {category: CategoryReference, mixins: []Mixin{MixinLiteRef}, requires: needsRefField},
	WeakRef:           {category: CategoryReference, mixins: []Mixin{MixinLiteRef, MixinWeakRef}, requires: needsRefField},
	DynamicRefLibrary: {category: CategoryReference, mixins: []Mixin{MixinDynamicRefLibrary}, requires: needsDynamicRefField},
}

// At most one feature of each group may be selected.
var exclusiveGroups = [][]Feature{
	{FragmentSingle, FragmentMulti},
	{Patch, AccountPatch, Patch1155},
	{LiteRef, WeakRef},
}

// autoRule turns a feature on when the schema facts call for it.
type autoRule struct {
	when    func(Facts) bool
	reason  string
	enables Feature
	unless  []Feature
}

var autoRules = []autoRule{
	{when: Facts.HasReferenceField, reason: "schema declares a literef field", enables: LiteRef, unless: []Feature{WeakRef}},
	{when: Facts.HasDynamicReferenceField, reason: "schema declares a dynamic literef field", enables: DynamicRefLibrary},
}

// sibling turns a feature on whenever its owner is active.
type sibling struct {
	owner   Feature
	enables Feature
	unless  []Feature
}

var defaultSiblings = []sibling{
	{owner: DynamicRefLibrary, enables: LiteRef, unless: []Feature{WeakRef}},
}

// substitution swaps one mixin for another when a modifier feature is active.
type substitution struct {
	when    Feature
	replace Mixin
	with    Mixin
}

var substitutions = []substitution{
	{when: Reversible, replace: MixinPatch, with: MixinReversiblePatch},
	{when: Reversible, replace: MixinAccountPatch, with: MixinReversibleAccountPatch},
	{when: Reversible, replace: MixinPatch1155, with: MixinReversiblePatch1155},
}

// collisionRow names symbols two mixins both define. winner's body is kept.
type collisionRow struct {
	winner  Mixin
	loser   Mixin
	symbols []string
}

var lockingSymbols = []string{"locked", "setLocked", "ownerOf", "updateOwnership"}

var referenceSymbols = []string{"addReference", "addReferenceBatch", "removeReference", "loadReferenceAddressAndTokenId"}

// interfacePriority is the override order for supportsInterface, most derived first.
var interfacePriority = []Mixin{
	MixinReversiblePatch1155, MixinPatch1155,
	MixinReversibleAccountPatch, MixinAccountPatch,
	MixinReversiblePatch, MixinPatch,
	MixinFragmentMulti, MixinFragmentSingle,
	MixinLiteRef, MixinMintable, MixinToken721,
}

var collisionTable = buildCollisionTable()

func buildCollisionTable() []collisionRow {
	patches := []Mixin{
		MixinPatch, MixinReversiblePatch,
		MixinAccountPatch, MixinReversibleAccountPatch,
		MixinPatch1155, MixinReversiblePatch1155,
	}

	var rows []collisionRow
	for _, p := range patches {
		rows = append(rows, collisionRow{winner: p, loser: MixinFragmentSingle, symbols: lockingSymbols})
	}
	rows = append(rows,
		collisionRow{winner: MixinDynamicRefLibrary, loser: MixinLiteRef, symbols: referenceSymbols},
		collisionRow{winner: MixinWeakRef, loser: MixinLiteRef, symbols: []string{"loadReferenceAddressAndTokenId"}},
	)
	for i, w := range interfacePriority {
		for _, l := range interfacePriority[i+1:] {
			rows = append(rows, collisionRow{winner: w, loser: l, symbols: []string{"supportsInterface"}})
		}
	}
	return rows
}
