package kv

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"null", Null()},
		{"bool", Bool(true)},
		{"number", Number(42.5)},
		{"integer number", Number(7)},
		{"string", String("hello")},
		{"empty string", String("")},
		{"list", List(String("a"), Number(1), Bool(false), Null())},
		{"empty list", List()},
		{"map", Map(map[string]Value{
			"title": String("first post"),
			"views": Number(3),
			"draft": Bool(false),
			"tags":  List(String("go"), String("web")),
		})},
		{"empty map", Map(nil)},
		{"nested", Map(map[string]Value{
			"meta": Map(map[string]Value{"author": String("admin")}),
			"rows": List(List(Number(1), Number(2)), List()),
		})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.value)
			if err != nil {
				t.Fatalf("marshal error: %v", err)
			}
			var got Value
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if !got.Equal(tc.value) {
				t.Fatalf("round trip mismatch: got %s, want %s", data, mustJSON(t, tc.value))
			}
		})
	}
}

func mustJSON(t *testing.T, v Value) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	return string(data)
}

func TestValueMarshal_EmptyContainers(t *testing.T) {
	if got := mustJSON(t, List()); got != "[]" {
		t.Fatalf("empty list: got %s, want []", got)
	}
	if got := mustJSON(t, Map(nil)); got != "{}" {
		t.Fatalf("empty map: got %s, want {}", got)
	}
	if got := mustJSON(t, Null()); got != "null" {
		t.Fatalf("null: got %s, want null", got)
	}
}

func TestValueMarshal_NonFiniteNumber(t *testing.T) {
	if _, err := json.Marshal(Number(math.NaN())); err == nil {
		t.Fatalf("expected error for NaN")
	}
	if _, err := json.Marshal(Number(math.Inf(1))); err == nil {
		t.Fatalf("expected error for +Inf")
	}
}

func TestValueAccessors(t *testing.T) {
	m := Map(map[string]Value{"title": String("x"), "count": Number(2)})

	if got := m.Kind(); got != KindMap {
		t.Fatalf("kind: got %v, want KindMap", got)
	}
	title, ok := m.Field("title")
	if !ok || title.StringOr("") != "x" {
		t.Fatalf("field title: got %v %v", title, ok)
	}
	if _, ok := m.Field("missing"); ok {
		t.Fatalf("missing field reported present")
	}
	if got := m.StringOr("fallback"); got != "fallback" {
		t.Fatalf("StringOr on map: got %q", got)
	}
	if got := String("s").NumberOr(9); got != 9 {
		t.Fatalf("NumberOr on string: got %v", got)
	}
	if got := Bool(true).BoolOr(false); got != true {
		t.Fatalf("BoolOr: got %v", got)
	}
	if items := List(Number(1)).Items(); len(items) != 1 || items[0].NumberOr(0) != 1 {
		t.Fatalf("Items: got %v", items)
	}
	if items := String("not a list").Items(); items != nil {
		t.Fatalf("Items on non-list: got %v", items)
	}
	if !Null().IsNull() || String("").IsNull() {
		t.Fatalf("IsNull misreported")
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", String("a"), String("a"), true},
		{"kind mismatch", String("1"), Number(1), false},
		{"list order matters", List(Number(1), Number(2)), List(Number(2), Number(1)), false},
		{"map key set", Map(map[string]Value{"a": Null()}), Map(map[string]Value{"b": Null()}), false},
		{"nested equal",
			Map(map[string]Value{"l": List(Bool(true))}),
			Map(map[string]Value{"l": List(Bool(true))}),
			true},
		{"zero value is null", Value{}, Null(), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Fatalf("Equal: got %v, want %v", got, tc.want)
			}
			if got := tc.b.Equal(tc.a); got != tc.want {
				t.Fatalf("Equal not symmetric: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValueIsolation(t *testing.T) {
	src := map[string]Value{"k": String("v")}
	m := Map(src)
	src["k"] = String("mutated")
	if f, _ := m.Field("k"); f.StringOr("") != "v" {
		t.Fatalf("constructor did not copy input map")
	}

	items := []Value{String("a")}
	l := List(items...)
	items[0] = String("mutated")
	if got := l.Items()[0].StringOr(""); got != "a" {
		t.Fatalf("constructor did not copy input slice")
	}

	out := m.Fields()
	out["k"] = String("mutated")
	if f, _ := m.Field("k"); f.StringOr("") != "v" {
		t.Fatalf("accessor returned live reference")
	}
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"s": "str",
		"n": 4.5,
		"i": 3,
		"b": true,
		"l": []any{nil, "x"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f, _ := v.Field("i"); f.NumberOr(0) != 3 {
		t.Fatalf("int not converted to number: %v", f)
	}
	back := v.Interface()
	m, ok := back.(map[string]any)
	if !ok || m["s"] != "str" || m["b"] != true {
		t.Fatalf("Interface round trip mismatch: %#v", back)
	}

	if _, err := FromAny(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
