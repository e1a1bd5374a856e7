package gvas

// Kind is the decoded form of a property type name.
type Kind int

const (
	// UnknownKind is any property type this package does not decode. Such
	// properties round trip as raw bytes.
	UnknownKind Kind = iota
	BoolKind
	ByteKind
	Int8Kind
	Int16Kind
	IntKind
	Int64Kind
	UInt16Kind
	UInt32Kind
	UInt64Kind
	FloatKind
	DoubleKind
	StrKind
	NameKind
	ObjectKind
	EnumKind
	StructKind
	ArrayKind
	SetKind
	MapKind
)

var kindNames = map[string]Kind{
	"BoolProperty":   BoolKind,
	"ByteProperty":   ByteKind,
	"Int8Property":   Int8Kind,
	"Int16Property":  Int16Kind,
	"IntProperty":    IntKind,
	"Int64Property":  Int64Kind,
	"UInt16Property": UInt16Kind,
	"UInt32Property": UInt32Kind,
	"UInt64Property": UInt64Kind,
	"FloatProperty":  FloatKind,
	"DoubleProperty": DoubleKind,
	"StrProperty":    StrKind,
	"NameProperty":   NameKind,
	"ObjectProperty": ObjectKind,
	"EnumProperty":   EnumKind,
	"StructProperty": StructKind,
	"ArrayProperty":  ArrayKind,
	"SetProperty":    SetKind,
	"MapProperty":    MapKind,
}

func ParseKind(typeName string) Kind {
	return kindNames[typeName]
}

// fixedSize is the encoded width of a value of kind k when it appears as
// an array, set or map element, or 0 for variable width kinds.
func (k Kind) fixedSize() int {
	switch k {
	case BoolKind, ByteKind, Int8Kind:
		return 1
	case Int16Kind, UInt16Kind:
		return 2
	case IntKind, UInt32Kind, FloatKind:
		return 4
	case Int64Kind, UInt64Kind, DoubleKind:
		return 8
	}
	return 0
}

// isElement reports whether values of kind k can be read without a
// property tag, as array, set and map elements are.
func (k Kind) isElement() bool {
	switch k {
	case UnknownKind, ArrayKind, SetKind, MapKind:
		return false
	}
	return true
}

func (k Kind) isString() bool {
	switch k {
	case StrKind, NameKind, ObjectKind, EnumKind:
		return true
	}
	return false
}
