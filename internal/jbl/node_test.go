package jbl

import "testing"

func TestNodeObjectSetGetRemove(t *testing.T) {
	obj := NewObject()
	obj.Set("a", NewInt(1))
	obj.Set("b", NewString("x"))

	if obj.Len() != 2 {
		t.Fatalf("expected 2 children, got %d", obj.Len())
	}
	if got := obj.Get("a").IntValue(); got != 1 {
		t.Fatalf("expected a=1, got %d", got)
	}

	obj.Set("a", NewInt(2))
	if obj.Len() != 2 {
		t.Fatalf("Set on existing key should replace in place, got %d children", obj.Len())
	}
	if got := obj.Get("a").IntValue(); got != 2 {
		t.Fatalf("expected a=2 after replace, got %d", got)
	}

	removed := obj.Remove("a")
	if removed == nil || removed.IntValue() != 2 {
		t.Fatalf("expected removed node a=2, got %v", removed)
	}
	if obj.Has("a") {
		t.Fatalf("expected a removed")
	}
}

func TestNodeArrayInsertRemove(t *testing.T) {
	arr := NewArray()
	arr.Append(NewInt(1))
	arr.Append(NewInt(3))
	arr.InsertAt(1, NewInt(2))

	if arr.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", arr.Len())
	}
	for i, want := range []int64{1, 2, 3} {
		if arr.At(i).IntValue() != want {
			t.Fatalf("element %d: want %d got %d", i, want, arr.At(i).IntValue())
		}
	}

	removed := arr.RemoveAt(1)
	if removed.IntValue() != 2 {
		t.Fatalf("expected removed 2, got %d", removed.IntValue())
	}
	if arr.Len() != 2 {
		t.Fatalf("expected 2 elements after remove, got %d", arr.Len())
	}
}

func TestNodeDetach(t *testing.T) {
	obj := NewObject()
	child := NewInt(7)
	obj.Set("k", child)

	detached := child.Detach()
	if detached != child {
		t.Fatalf("Detach should return the same node")
	}
	if obj.Has("k") {
		t.Fatalf("expected k removed after detach")
	}
	if child.Parent() != nil {
		t.Fatalf("expected nil parent after detach")
	}

	// no-op at root
	if child.Detach() != child {
		t.Fatalf("Detach at root should return self")
	}
}

func TestNodeClone(t *testing.T) {
	obj := NewObject()
	obj.Set("arr", func() *Node {
		a := NewArray()
		a.Append(NewInt(1))
		a.Append(NewString("x"))
		return a
	}())

	clone := obj.Clone()
	if clone == obj {
		t.Fatalf("Clone must return a distinct node")
	}
	if !Equal(obj, clone) {
		t.Fatalf("clone should be structurally equal to original")
	}

	clone.Get("arr").Append(NewInt(99))
	if obj.Get("arr").Len() == clone.Get("arr").Len() {
		t.Fatalf("mutating clone should not affect original")
	}
}

