package registers

// Kind describes how a field's bits are interpreted
type Kind uint8

const (
	Unsigned Kind = iota
	Signed        // two's complement within the field width
	Bool          // single bit
)

func (k Kind) String() string {
	switch k {
	case Signed:
		return "signed"
	case Bool:
		return "bool"
	default:
		return "unsigned"
	}
}

// Field is a named bit range inside a 32-bit register value.
// All bit packing in this package goes through Field so that writing one
// field never disturbs the bits of another.
type Field struct {
	Name   string
	Offset uint8
	Width  uint8
	Kind   Kind
}

func unsignedField(name string, offset, width uint8) Field {
	return Field{Name: name, Offset: offset, Width: width, Kind: Unsigned}
}

func signedField(name string, offset, width uint8) Field {
	return Field{Name: name, Offset: offset, Width: width, Kind: Signed}
}

func boolField(name string, offset uint8) Field {
	return Field{Name: name, Offset: offset, Width: 1, Kind: Bool}
}

// Max returns the largest unsigned value the field can hold
func (f Field) Max() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return 1<<f.Width - 1
}

// Mask returns the field's bits in register position
func (f Field) Mask() uint32 {
	return f.Max() << f.Offset
}

// Get extracts the field from raw. Signed fields are returned in their
// raw two's complement form; use GetSigned to sign-extend.
func (f Field) Get(raw uint32) uint32 {
	return raw >> f.Offset & f.Max()
}

// Set returns raw with the field replaced by v truncated to the field width
func (f Field) Set(raw, v uint32) uint32 {
	return raw&^f.Mask() | (v&f.Max())<<f.Offset
}

// GetSigned extracts the field and sign-extends it
func (f Field) GetSigned(raw uint32) int32 {
	shift := 32 - f.Width
	return int32(f.Get(raw)<<shift) >> shift
}

// SetSigned stores v in two's complement form
func (f Field) SetSigned(raw uint32, v int32) uint32 {
	return f.Set(raw, uint32(v))
}

func (f Field) GetBool(raw uint32) bool {
	return f.Get(raw) != 0
}

func (f Field) SetBool(raw uint32, v bool) uint32 {
	if v {
		return f.Set(raw, 1)
	}
	return f.Set(raw, 0)
}
