package jbl

import "testing"

func TestSplitPointer(t *testing.T) {
	cases := []struct {
		ptr  string
		want []string
	}{
		{"", nil},
		{"/a/b", []string{"a", "b"}},
		{"/a~1b", []string{"a/b"}},
		{"/a~0b", []string{"a~b"}},
		{"/-", []string{"-"}},
	}
	for _, c := range cases {
		got, err := SplitPointer(c.ptr)
		if err != nil {
			t.Fatalf("SplitPointer(%q): %v", c.ptr, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("SplitPointer(%q) = %v, want %v", c.ptr, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("SplitPointer(%q)[%d] = %q, want %q", c.ptr, i, got[i], c.want[i])
			}
		}
	}
}

func TestSplitPointerRejectsMissingLeadingSlash(t *testing.T) {
	_, err := SplitPointer("a/b")
	if err == nil {
		t.Fatalf("expected error for pointer without leading slash")
	}
}

func TestNodePointerResolves(t *testing.T) {
	root, err := Parse(`{"foo":{"bar":[1,2,3]},"baz":"qux"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	n, err := root.Pointer("/foo/bar/1")
	if err != nil {
		t.Fatalf("Pointer: %v", err)
	}
	if n.IntValue() != 2 {
		t.Fatalf("expected 2, got %d", n.IntValue())
	}
	n, err = root.Pointer("/baz")
	if err != nil || n.StringValue() != "qux" {
		t.Fatalf("expected qux, got %v, err %v", n, err)
	}
}

func TestNodePointerMissingPath(t *testing.T) {
	root, _ := Parse(`{"foo":1}`)
	_, err := root.Pointer("/bar")
	if err == nil {
		t.Fatalf("expected error for missing path")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindPathNotFound {
		t.Fatalf("expected PathNotFound, got %v", err)
	}
}

func TestNodePointerArrayOutOfRange(t *testing.T) {
	root, _ := Parse(`{"arr":[1,2]}`)
	_, err := root.Pointer("/arr/5")
	if err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestNodePointerDashRejectedOnRead(t *testing.T) {
	root, _ := Parse(`{"arr":[1,2]}`)
	_, err := root.Pointer("/arr/-")
	if err == nil {
		t.Fatalf("expected error resolving '-' for read")
	}
}
