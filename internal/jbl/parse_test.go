package jbl

import "testing"

func TestParseScalarLiterals(t *testing.T) {
	cases := []struct {
		text string
		kind Kind
	}{
		{"null", Null},
		{"true", Bool},
		{"false", Bool},
		{"42", Int},
		{"-17", Int},
		{"3.14", Float},
		{"1e10", Float},
		{`"hello"`, String},
	}
	for _, c := range cases {
		n, err := Parse(c.text)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.text, err)
		}
		if n.Kind() != c.kind {
			t.Errorf("Parse(%q).Kind() = %s, want %s", c.text, n.Kind(), c.kind)
		}
	}
}

func TestParseObjectAndArray(t *testing.T) {
	n, err := Parse(`{"a": 1, "b": [1, 2, 3], "c": {"d": null}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind() != Object {
		t.Fatalf("expected object root")
	}
	if n.Get("a").IntValue() != 1 {
		t.Fatalf("expected a=1")
	}
	if n.Get("b").Len() != 3 {
		t.Fatalf("expected b to have 3 elements")
	}
	if n.Get("c").Get("d").Kind() != Null {
		t.Fatalf("expected c.d == null")
	}
}

func TestParseStringEscapes(t *testing.T) {
	n, err := Parse(`"line\nbreak\ttabé"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "line\nbreak\ttabé"
	if n.StringValue() != want {
		t.Fatalf("got %q, want %q", n.StringValue(), want)
	}
}

func TestParseSurrogatePair(t *testing.T) {
	n, err := Parse(`"\ud83d\ude00"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.StringValue() != "\U0001F600" {
		t.Fatalf("got %q, want emoji", n.StringValue())
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse(`{"a":1} garbage`)
	if err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestParseBarewordDisallowedByDefault(t *testing.T) {
	_, err := Parse(`{foo: 1}`)
	if err == nil {
		t.Fatalf("expected bareword key to be rejected without AllowBareIdent")
	}
}

func TestParseBarewordAllowedInQueryContext(t *testing.T) {
	n, err := ParseWithOptions(`{foo: bar}`, ParseOptions{AllowBareIdent: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Get("foo").StringValue() != "bar" {
		t.Fatalf("expected foo=bar, got %v", n.Get("foo"))
	}
}

func TestParseIntVsFloatBoundary(t *testing.T) {
	n, err := Parse("100")
	if err != nil || n.Kind() != Int {
		t.Fatalf("expected plain integer literal to decode as Int")
	}
	n, err = Parse("100.0")
	if err != nil || n.Kind() != Float {
		t.Fatalf("expected literal with '.' to decode as Float")
	}
}
