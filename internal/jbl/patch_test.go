package jbl

import "testing"

func mustParse(t *testing.T, text string) *Node {
	t.Helper()
	n, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return n
}

func TestApplyPatchAdd(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":1}}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "add", Path: "/foo/baz", Value: NewInt(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"foo":{"bar":1,"baz":2}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}
}

func TestApplyPatchAddArrayAppendAndInsert(t *testing.T) {
	root := mustParse(t, `{"arr":[1,3]}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "add", Path: "/arr/1", Value: NewInt(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"arr":[1,2,3]}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}

	out2, err := ApplyPatch(root, []PatchOp{
		{Op: "add", Path: "/arr/-", Value: NewInt(4)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want2 := mustParse(t, `{"arr":[1,3,4]}`)
	if !Equal(out2, want2) {
		t.Fatalf("got %s, want %s", Marshal(out2), Marshal(want2))
	}
}

func TestApplyPatchRemove(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":1,"baz":2}}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "remove", Path: "/foo/baz"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"foo":{"bar":1}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}
}

func TestApplyPatchReplace(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":22}}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "replace", Path: "/foo/bar", Value: NewInt(99)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"foo":{"bar":99}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}
}

func TestApplyPatchCopyAndMove(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":1},"baz":{}}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "copy", From: "/foo/bar", Path: "/baz/bar"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"foo":{"bar":1},"baz":{"bar":1}}`)
	if !Equal(out, want) {
		t.Fatalf("copy: got %s, want %s", Marshal(out), Marshal(want))
	}

	out2, err := ApplyPatch(root, []PatchOp{
		{Op: "move", From: "/foo/bar", Path: "/baz/bar"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want2 := mustParse(t, `{"foo":{},"baz":{"bar":1}}`)
	if !Equal(out2, want2) {
		t.Fatalf("move: got %s, want %s", Marshal(out2), Marshal(want2))
	}
}

func TestApplyPatchTestThenReplace(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":22}}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "test", Path: "/foo/bar", Value: NewInt(22)},
		{Op: "replace", Path: "/foo/bar", Value: NewInt(99)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := mustParse(t, `{"foo":{"bar":99}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}
}

func TestApplyPatchTestFailureRollsBack(t *testing.T) {
	root := mustParse(t, `{"foo":{"bar":22}}`)
	_, err := ApplyPatch(root, []PatchOp{
		{Op: "test", Path: "/foo/bar", Value: NewInt(23)},
		{Op: "replace", Path: "/foo/bar", Value: NewInt(99)},
	})
	if err == nil {
		t.Fatalf("expected test-failure error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindPatchTestFailed {
		t.Fatalf("expected PatchTestFailed, got %v", err)
	}
	unchanged := mustParse(t, `{"foo":{"bar":22}}`)
	if !Equal(root, unchanged) {
		t.Fatalf("original document should be untouched after failed patch, got %s", Marshal(root))
	}
}

func TestApplyPatchIncrementIntegerStaysInteger(t *testing.T) {
	root := mustParse(t, `{"count":5}`)
	out, err := ApplyPatch(root, []PatchOp{
		{Op: "increment", Path: "/count", Value: NewInt(3)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Get("count").Kind() != Int || out.Get("count").IntValue() != 8 {
		t.Fatalf("expected count=8 (int), got %s", Marshal(out.Get("count")))
	}
}

func TestApplyPatchIncrementFloatDeltaIsTypeError(t *testing.T) {
	root := mustParse(t, `{"count":5}`)
	_, err := ApplyPatch(root, []PatchOp{
		{Op: "increment", Path: "/count", Value: NewFloat(0.5)},
	})
	if err == nil {
		t.Fatalf("expected type error incrementing an integer by a float delta")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindPatchInvalid {
		t.Fatalf("expected PatchInvalid, got %v", err)
	}
}

func TestApplyPatchIncrementFloatTargetIsTypeError(t *testing.T) {
	root := mustParse(t, `{"count":5.5}`)
	_, err := ApplyPatch(root, []PatchOp{
		{Op: "increment", Path: "/count", Value: NewInt(1)},
	})
	if err == nil {
		t.Fatalf("expected type error incrementing a float target")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindPatchInvalid {
		t.Fatalf("expected PatchInvalid, got %v", err)
	}
}

func TestApplyPatchIncrementTypeError(t *testing.T) {
	root := mustParse(t, `{"name":"x"}`)
	_, err := ApplyPatch(root, []PatchOp{
		{Op: "increment", Path: "/name", Value: NewInt(1)},
	})
	if err == nil {
		t.Fatalf("expected type error incrementing a non-numeric field")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindPatchInvalid {
		t.Fatalf("expected PatchInvalid, got %v", err)
	}
}

func TestMergePatchRemovesNullsAndRecurses(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":{"c":2,"d":3}}`)
	patch := mustParse(t, `{"a":null,"b":{"c":99}}`)
	out := MergePatch(root, patch)
	want := mustParse(t, `{"b":{"c":99,"d":3}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s, want %s", Marshal(out), Marshal(want))
	}
}

func TestMergePatchIdempotent(t *testing.T) {
	root := mustParse(t, `{"a":1,"b":{"c":2}}`)
	patch := mustParse(t, `{"a":null,"b":{"c":99}}`)
	once := MergePatch(root, patch)
	twice := MergePatch(once, patch)
	if !Equal(once, twice) {
		t.Fatalf("expected idempotent merge patch application")
	}
}
