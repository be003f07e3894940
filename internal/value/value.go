package value

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindBool Kind = iota
	KindNil
	KindNumber
	KindObject
)

// Value is a tagged runtime value. Objects are referenced by handle into
// the Heap that created them.
type Value struct {
	Kind Kind
	B    bool
	Num  float64
	Ref  Ref
}

func Nil() Value { return Value{Kind: KindNil} }
func Bool(b bool) Value {
	return Value{Kind: KindBool, B: b}
}
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}
func Object(ref Ref) Value {
	return Value{Kind: KindObject, Ref: ref}
}

func (v Value) IsNil() bool    { return v.Kind == KindNil }
func (v Value) IsBool() bool   { return v.Kind == KindBool }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }
func (v Value) IsObject() bool { return v.Kind == KindObject }

// Falsey reports whether v is nil or false. Everything else is truthy.
func Falsey(v Value) bool {
	switch v.Kind {
	case KindNil:
		return true
	case KindBool:
		return !v.B
	default:
		return false
	}
}

// FormatNumber renders n the way C's %g does, using the shortest digits
// that round-trip.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
