// Package attribute implements typed attribute definitions, concrete
// attribute values and the per-object containers that hold them,
// including default-value inheritance through a parent chain.
package attribute

import (
	"fmt"
	"strconv"
)

// ObjectType names the kind of network object an AttributeDefinition
// applies to.
type ObjectType int

const (
	ObjectTypeNetwork ObjectType = iota
	ObjectTypeNode
	ObjectTypeMessage
	ObjectTypeSignal
)

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeNetwork:
		return "Network"
	case ObjectTypeNode:
		return "Node"
	case ObjectTypeMessage:
		return "Message"
	case ObjectTypeSignal:
		return "Signal"
	default:
		return "Unknown"
	}
}

// Kind names the variant of an AttributeDefinition.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindEnum
)

// Definition is a tagged union over {String, Int[min,max], Float[min,max],
// Enum[values]}. Each variant validates and casts values with its own
// rules; see CheckAndCast.
type Definition struct {
	Name    string
	ObjType ObjectType
	Kind    Kind

	// Int/Float bounds. min == max == 0 means "unbounded".
	Min float64
	Max float64

	// Enum values, in declaration order.
	EnumValues []string

	hasDefault bool
	defaultVal string
}

// NewStringDefinition creates a String attribute definition.
func NewStringDefinition(name string, objType ObjectType) *Definition {
	return &Definition{Name: name, ObjType: objType, Kind: KindString}
}

// NewIntDefinition creates an Int[min,max] attribute definition.
func NewIntDefinition(name string, objType ObjectType, min, max float64) *Definition {
	return &Definition{Name: name, ObjType: objType, Kind: KindInt, Min: min, Max: max}
}

// NewFloatDefinition creates a Float[min,max] attribute definition.
func NewFloatDefinition(name string, objType ObjectType, min, max float64) *Definition {
	return &Definition{Name: name, ObjType: objType, Kind: KindFloat, Min: min, Max: max}
}

// NewEnumDefinition creates an Enum[values] attribute definition.
func NewEnumDefinition(name string, objType ObjectType, values []string) *Definition {
	return &Definition{Name: name, ObjType: objType, Kind: KindEnum, EnumValues: values}
}

// CheckAndCast validates value against the definition's rules and returns
// the stored-string form. An Int/Float definition whose Min == Max == 0 is
// treated as unbounded, accepting any numeric value.
func (d *Definition) CheckAndCast(value interface{}) (string, error) {
	switch d.Kind {
	case KindString:
		return fmt.Sprintf("%v", value), nil
	case KindInt:
		v, err := toFloat(value)
		if err != nil {
			return "", fmt.Errorf("attribute %q: %w", d.Name, err)
		}
		iv := int64(v)
		if !d.inRange(float64(iv)) {
			return "", fmt.Errorf("attribute %q: value %v out of range [%v, %v]", d.Name, iv, d.Min, d.Max)
		}
		return strconv.FormatInt(iv, 10), nil
	case KindFloat:
		v, err := toFloat(value)
		if err != nil {
			return "", fmt.Errorf("attribute %q: %w", d.Name, err)
		}
		if !d.inRange(v) {
			return "", fmt.Errorf("attribute %q: value %v out of range [%v, %v]", d.Name, v, d.Min, d.Max)
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case KindEnum:
		return d.castEnum(value)
	default:
		return "", fmt.Errorf("attribute %q: unknown definition kind", d.Name)
	}
}

func (d *Definition) inRange(v float64) bool {
	if d.Min == 0 && d.Max == 0 {
		return true
	}
	return v >= d.Min && v <= d.Max
}

func (d *Definition) castEnum(value interface{}) (string, error) {
	if idx, ok := asInt(value); ok {
		if idx < 0 || idx >= len(d.EnumValues) {
			return "", fmt.Errorf("attribute %q: enum index %d out of range", d.Name, idx)
		}
		return d.EnumValues[idx], nil
	}
	s := fmt.Sprintf("%v", value)
	for _, v := range d.EnumValues {
		if v == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("attribute %q: value %q not in enum", d.Name, s)
}

func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to number", value)
	}
}

// SetDefault validates and casts value through CheckAndCast and stores it
// as the definition's default. An invalid value leaves the default unset
// rather than returning an error, matching the "default remains null"
// rule of the casting contract.
func (d *Definition) SetDefault(value interface{}) {
	cast, err := d.CheckAndCast(value)
	if err != nil {
		d.hasDefault = false
		d.defaultVal = ""
		return
	}
	d.hasDefault = true
	d.defaultVal = cast
}

// Default returns the definition's default value, if any.
func (d *Definition) Default() (string, bool) {
	return d.defaultVal, d.hasDefault
}

// Attribute is a concrete attribute: a reference to its definition and an
// optional value override. A nil value means "use the definition default".
type Attribute struct {
	Definition *Definition
	value      string
	hasValue   bool
}

// NewAttribute creates an Attribute bound to definition, validating and
// casting value through the definition's rules.
func NewAttribute(definition *Definition, value interface{}) (*Attribute, error) {
	cast, err := definition.CheckAndCast(value)
	if err != nil {
		return nil, err
	}
	return &Attribute{Definition: definition, value: cast, hasValue: true}, nil
}

// Name returns the attribute's name (the name of its definition).
func (a *Attribute) Name() string {
	return a.Definition.Name
}

// Value returns the attribute's stored value, or its definition's default
// if none was set locally.
func (a *Attribute) Value() (string, bool) {
	if a.hasValue {
		return a.value, true
	}
	return a.Definition.Default()
}
