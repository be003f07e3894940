package value

import (
	"fmt"
	"strconv"
)

// Ref is a handle to an object in a Heap.
type Ref uint32

// ObjectType enumerates heap object variants.
type ObjectType uint8

const (
	ObjString ObjectType = iota
)

type object struct {
	typ ObjectType
	str string
}

// Heap owns every object created while compiling and running scripts.
// Objects are never released individually; Free drops all of them.
type Heap struct {
	objects []object
	strings map[string]Ref
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{
		strings: make(map[string]Ref),
	}
}

// Intern returns the canonical string object for s, allocating it on
// first use.
func (h *Heap) Intern(s string) Value {
	if ref, ok := h.strings[s]; ok {
		return Object(ref)
	}
	ref := Ref(len(h.objects))
	h.objects = append(h.objects, object{typ: ObjString, str: s})
	h.strings[s] = ref
	return Object(ref)
}

// Len reports the number of live objects.
func (h *Heap) Len() int {
	return len(h.objects)
}

// Free releases every object and empties the intern table. Values that
// still hold handles into the heap must not be used afterwards.
func (h *Heap) Free() {
	h.objects = nil
	h.strings = make(map[string]Ref)
}

// Type reports the object variant v refers to.
func (h *Heap) Type(v Value) (ObjectType, bool) {
	if h == nil || v.Kind != KindObject || int(v.Ref) >= len(h.objects) {
		return 0, false
	}
	return h.objects[v.Ref].typ, true
}

// IsString reports whether v refers to a string object.
func (h *Heap) IsString(v Value) bool {
	typ, ok := h.Type(v)
	return ok && typ == ObjString
}

// String returns the content of a string object.
func (h *Heap) String(v Value) (string, bool) {
	if !h.IsString(v) {
		return "", false
	}
	return h.objects[v.Ref].str, true
}

// Equal compares by kind, then by value. Strings compare by content.
func (h *Heap) Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil:
		return true
	case KindBool:
		return a.B == b.B
	case KindNumber:
		return a.Num == b.Num
	case KindObject:
		if a.Ref == b.Ref {
			return true
		}
		as, aok := h.String(a)
		bs, bok := h.String(b)
		return aok && bok && as == bs
	default:
		return false
	}
}

// Format renders v the way the print statement writes it.
func (h *Heap) Format(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindNumber:
		return FormatNumber(v.Num)
	case KindObject:
		if s, ok := h.String(v); ok {
			return s
		}
		return fmt.Sprintf("<object %d>", v.Ref)
	default:
		return "<unknown>"
	}
}
