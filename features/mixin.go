package features

// Mixin is a named bundle of behavior the generated contract inherits.
type Mixin uint8

const (
	MixinToken721 Mixin = iota
	MixinMintable
	MixinFragmentSingle
	MixinFragmentMulti
	MixinPatch
	MixinReversiblePatch
	MixinAccountPatch
	MixinReversibleAccountPatch
	MixinPatch1155
	MixinReversiblePatch1155
	MixinLiteRef
	MixinWeakRef
	MixinDynamicRefLibrary
	mixinCount
)

type mixinInfo struct {
	name       string
	interfaces []string
}

var scoped721 = []string{"IERC721", "IScoped721"}

var mixins = [...]mixinInfo{
	MixinToken721:               {"Token721", scoped721},
	MixinMintable:               {"Mintable", []string{"IMintable"}},
	MixinFragmentSingle:         {"FragmentSingle", with721("IFragment", "ISingleAssignable")},
	MixinFragmentMulti:          {"FragmentMulti", with721("IFragment", "IMultiAssignable")},
	MixinPatch:                  {"Patch", with721("IPatch")},
	MixinReversiblePatch:        {"ReversiblePatch", with721("IPatch", "IReversiblePatch")},
	MixinAccountPatch:           {"AccountPatch", with721("IAccountPatch")},
	MixinReversibleAccountPatch: {"ReversibleAccountPatch", with721("IAccountPatch", "IReversibleAccountPatch")},
	MixinPatch1155:              {"Patch1155", with721("I1155Patch")},
	MixinReversiblePatch1155:    {"ReversiblePatch1155", with721("I1155Patch", "IReversible1155Patch")},
	MixinLiteRef:                {"LiteRef", []string{"ILiteRef"}},
	MixinWeakRef:                {"WeakRef", nil},
	MixinDynamicRefLibrary:      {"DynamicRefLibrary", nil},
}

// fragment and patch mixins are themselves scoped 721 tokens
func with721(ifaces ...string) []string {
	out := make([]string, 0, len(scoped721)+len(ifaces))
	out = append(out, scoped721...)
	return append(out, ifaces...)
}

func (m Mixin) String() string {
	if m < mixinCount {
		return mixins[m].name
	}
	return "unknown"
}

// Interfaces returns the interface IDs the mixin reports through supportsInterface.
func (m Mixin) Interfaces() []string {
	if m < mixinCount {
		return mixins[m].interfaces
	}
	return nil
}

func (m Mixin) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// is721 reports whether the mixin already carries the base token behavior.
func (m Mixin) is721() bool {
	switch m {
	case MixinToken721, MixinFragmentSingle, MixinFragmentMulti,
		MixinPatch, MixinReversiblePatch,
		MixinAccountPatch, MixinReversibleAccountPatch,
		MixinPatch1155, MixinReversiblePatch1155:
		return true
	}
	return false
}
