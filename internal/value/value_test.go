package value

import (
	"math"
	"testing"
)

func TestInternReturnsCanonicalObject(t *testing.T) {
	h := NewHeap()
	a := h.Intern("hello")
	b := h.Intern("hel" + "lo")
	if a.Ref != b.Ref {
		t.Fatalf("expected same handle, got %d and %d", a.Ref, b.Ref)
	}
	if h.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", h.Len())
	}
	c := h.Intern("world")
	if c.Ref == a.Ref {
		t.Fatalf("distinct content shared a handle")
	}
	if !h.Equal(a, b) || h.Equal(a, c) {
		t.Fatalf("content equality mismatch")
	}
}

func TestEqualByKindThenValue(t *testing.T) {
	h := NewHeap()
	cases := []struct {
		a, b Value
		want bool
	}{
		{Nil(), Nil(), true},
		{Bool(true), Bool(true), true},
		{Bool(true), Bool(false), false},
		{Number(1), Number(1), true},
		{Number(0), Bool(false), false},
		{Nil(), Bool(false), false},
		{Number(math.NaN()), Number(math.NaN()), false},
		{h.Intern("a"), h.Intern("a"), true},
		{h.Intern("a"), Number(1), false},
	}
	for i, tc := range cases {
		if got := h.Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestFalsey(t *testing.T) {
	h := NewHeap()
	if !Falsey(Nil()) || !Falsey(Bool(false)) {
		t.Fatalf("nil and false must be falsey")
	}
	if Falsey(Bool(true)) || Falsey(Number(0)) || Falsey(h.Intern("")) {
		t.Fatalf("true, 0 and empty string must be truthy")
	}
}

func TestFormat(t *testing.T) {
	h := NewHeap()
	cases := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(7), "7"},
		{Number(2.5), "2.5"},
		{Number(-0.125), "-0.125"},
		{Number(1e21), "1e+21"},
		{Number(1000000), "1e+06"},
		{Number(123456), "123456"},
		{Number(math.Inf(1)), "inf"},
		{Number(math.Inf(-1)), "-inf"},
		{h.Intern("verbatim text"), "verbatim text"},
	}
	for _, tc := range cases {
		if got := h.Format(tc.v); got != tc.want {
			t.Fatalf("format %+v: expected %q, got %q", tc.v, tc.want, got)
		}
	}
}

func TestFreeDropsEverything(t *testing.T) {
	h := NewHeap()
	h.Intern("a")
	h.Intern("b")
	h.Free()
	if h.Len() != 0 {
		t.Fatalf("expected empty heap, got %d", h.Len())
	}
	v := h.Intern("a")
	if v.Ref != 0 {
		t.Fatalf("expected fresh allocation after free, got handle %d", v.Ref)
	}
}
