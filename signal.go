package candb

import (
	"fmt"
	"math"

	"github.com/stefanhoelzl/go-candb/attribute"
	"github.com/stefanhoelzl/go-candb/bitvector"
)

// Signal is a contiguous (or endian-reordered) bit field within a
// Message's payload, with linear scaling to an engineering value.
type Signal struct {
	Name          string
	StartBit      uint
	Length        uint
	LittleEndian  bool
	Signed        bool
	Factor        float64
	Offset        float64
	ValueMin      float64
	ValueMax      float64
	Unit          string
	IsMultiplexer bool
	// MultiplexerID is nil when the signal does not belong to a
	// multiplexer group.
	MultiplexerID *uint
	Receivers     []*Node
	ValueTable    *ValueTable
	Description   string
	Attributes    *attribute.Container

	rawValue int64
	message  *Message
}

// NewSignal creates a Signal. factor defaults to 1 when zero is passed,
// matching the DBC grammar where a signal always declares an explicit
// factor; callers constructing signals programmatically with factor 0
// would otherwise make Value()/SetValue() divide by zero.
func NewSignal(name string, startBit, length uint, littleEndian, signed bool, factor, offset, valueMin, valueMax float64, unit string) *Signal {
	if factor == 0 {
		factor = 1
	}
	return &Signal{
		Name:         name,
		StartBit:     startBit,
		Length:       length,
		LittleEndian: littleEndian,
		Signed:       signed,
		Factor:       factor,
		Offset:       offset,
		ValueMin:     valueMin,
		ValueMax:     valueMax,
		Unit:         unit,
		Attributes:   attribute.NewContainer(attribute.ObjectTypeSignal),
	}
}

// SetDescription sets the signal's free-text description, as parsed from
// a CM_ SG_ line.
func (s *Signal) SetDescription(desc string) {
	s.Description = desc
}

// LastBit is the index of the signal's highest occupied bit.
func (s *Signal) LastBit() uint {
	return s.StartBit + s.Length - 1
}

// Message returns the Message this signal belongs to, or nil if it has
// not been added to one yet.
func (s *Signal) Message() *Message {
	return s.message
}

// AddReceiver appends node to the signal's ordered list of non-owning
// receiver references.
func (s *Signal) AddReceiver(node *Node) {
	s.Receivers = append(s.Receivers, node)
}

// domainBounds returns the inclusive [min, max] raw value range allowed
// by this signal's length and sign.
func (s *Signal) domainBounds() (int64, int64) {
	if !s.Signed {
		return 0, (int64(1) << s.Length) - 1
	}
	limit := int64(1) << (s.Length - 1)
	return -(limit - 1), limit - 1
}

// RawValue returns the signal's current raw integer value.
func (s *Signal) RawValue() int64 {
	return s.rawValue
}

// SetRawValue sets the raw integer value: unsigned values must be
// non-negative and fit in Length bits; signed values must satisfy
// |raw| < 2^(Length-1).
func (s *Signal) SetRawValue(value int64) error {
	if !s.Signed && value < 0 {
		return fmt.Errorf("signal %q: negative raw value on unsigned signal: %w", s.Name, ErrDomain)
	}
	min, max := s.domainBounds()
	if value < min || value > max {
		return fmt.Errorf("signal %q: raw value %d exceeds signal length: %w", s.Name, value, ErrDomain)
	}
	s.rawValue = value
	return nil
}

// setRawValueFromBits stores a raw value decoded from a bit vector of this
// signal's own length and sign, which is always within domain by
// construction and so bypasses SetRawValue's validation.
func (s *Signal) setRawValueFromBits(value int64) {
	s.rawValue = value
}

// Value returns the signal's engineering value: the value table's mapped
// string when a table is attached and the raw value is one of its keys,
// otherwise raw_value * factor + offset.
func (s *Signal) Value() interface{} {
	if s.ValueTable != nil {
		if mapped, ok := s.ValueTable.Values[s.rawValue]; ok {
			return mapped
		}
	}
	return float64(s.rawValue)*s.Factor + s.Offset
}

// SetValue clamps v to [ValueMin, ValueMax] when that range is non-zero,
// then derives and stores the corresponding raw value.
func (s *Signal) SetValue(v float64) error {
	if s.ValueMin != 0 || s.ValueMax != 0 {
		if v < s.ValueMin {
			v = s.ValueMin
		}
		if v > s.ValueMax {
			v = s.ValueMax
		}
	}
	raw := math.Trunc((v - s.Offset) / s.Factor)
	return s.SetRawValue(int64(raw))
}

// Bits builds a bit vector of this signal's length, endianness, and sign,
// initialized from the current raw value.
func (s *Signal) Bits() *bitvector.BitVector {
	return bitvector.New(int(s.Length), s.rawValue, s.LittleEndian, s.Signed)
}

// SetBits sets the raw value from the integer represented by bv.
func (s *Signal) SetBits(bv *bitvector.BitVector) {
	s.setRawValueFromBits(bv.ToInt())
}
