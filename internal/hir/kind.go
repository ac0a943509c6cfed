package hir

// Kind is the primitive kind of the value an instruction produces.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindRef

	kindCount // sentinel; must be last
)

// kindNames maps Kind to its string representation.
var kindNames = [kindCount]string{
	KindVoid:   "void",
	KindBool:   "bool",
	KindByte:   "byte",
	KindShort:  "short",
	KindChar:   "char",
	KindInt:    "int",
	KindLong:   "long",
	KindFloat:  "float",
	KindDouble: "double",
	KindRef:    "ref",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// collapsedKinds maps each Kind to its equivalence class for type-consistency
// checks. Bool, byte, short, and char are carried as int-sized values, so
// they all collapse to KindInt.
var collapsedKinds = [kindCount]Kind{
	KindVoid:   KindVoid,
	KindBool:   KindInt,
	KindByte:   KindInt,
	KindShort:  KindInt,
	KindChar:   KindInt,
	KindInt:    KindInt,
	KindLong:   KindLong,
	KindFloat:  KindFloat,
	KindDouble: KindDouble,
	KindRef:    KindRef,
}

// Collapsed returns the equivalence class of k used when comparing the kinds
// of related instructions (e.g. phi inputs against the phi itself).
func (k Kind) Collapsed() Kind {
	if k >= 0 && int(k) < len(collapsedKinds) {
		return collapsedKinds[k]
	}
	return k
}

// IsIntegralInt reports whether k collapses to the int kind.
func (k Kind) IsIntegralInt() bool {
	return k.Collapsed() == KindInt
}
