package jbl

import "strconv"

// PatchOp is a single RFC6902 operation, plus the non-standard "increment"
// extension.
type PatchOp struct {
	Op    string // add, remove, replace, copy, move, test, increment
	Path  string
	From  string // copy, move
	Value *Node  // add, replace, test, increment (numeric delta)
}

// ApplyPatch applies an RFC6902-style operation sequence to root, returning
// a new tree. On any failure the returned tree is nil and root is
// untouched — the whole sequence is applied to a clone first so partial
// failures never leave the caller's document half-patched.
func ApplyPatch(root *Node, ops []PatchOp) (*Node, error) {
	work := root.Clone()
	for _, op := range ops {
		if err := applyOne(work, op); err != nil {
			return nil, err
		}
	}
	return work, nil
}

func applyOne(root *Node, op PatchOp) error {
	switch op.Op {
	case "add":
		return patchAdd(root, op.Path, op.Value)
	case "remove":
		return patchRemove(root, op.Path)
	case "replace":
		return patchReplace(root, op.Path, op.Value)
	case "copy":
		src, err := root.Pointer(op.From)
		if err != nil {
			return err
		}
		return patchAdd(root, op.Path, src.Clone())
	case "move":
		src, err := root.Pointer(op.From)
		if err != nil {
			return err
		}
		moved := src.Clone()
		if err := patchRemove(root, op.From); err != nil {
			return err
		}
		return patchAdd(root, op.Path, moved)
	case "test":
		return patchTest(root, op.Path, op.Value)
	case "increment":
		return patchIncrement(root, op.Path, op.Value)
	default:
		return newErr(KindPatchInvalid, "unknown patch operation %q", op.Op)
	}
}

func patchAdd(root *Node, path string, value *Node) error {
	tokens, err := SplitPointer(path)
	if err != nil {
		return err
	}
	parent, last, err := parentAndLast(root, tokens)
	if err != nil {
		return err
	}
	switch parent.kind {
	case Object:
		parent.Set(last, value.Clone())
		return nil
	case Array:
		if last == "-" {
			parent.Append(value.Clone())
			return nil
		}
		idx, convErr := strconv.Atoi(last)
		if convErr != nil || idx < 0 || idx > len(parent.children) {
			return newErr(KindPatchArrayIndex, "array index out of range: %q", last)
		}
		parent.InsertAt(idx, value.Clone())
		return nil
	default:
		return newErr(KindPatchTarget, "cannot add under %s", parent.kind)
	}
}

func patchRemove(root *Node, path string) error {
	tokens, err := SplitPointer(path)
	if err != nil {
		return err
	}
	parent, last, err := parentAndLast(root, tokens)
	if err != nil {
		return err
	}
	switch parent.kind {
	case Object:
		if parent.Remove(last) == nil {
			return newErr(KindPatchTarget, "no such field %q", last)
		}
		return nil
	case Array:
		idx, convErr := strconv.Atoi(last)
		if convErr != nil || idx < 0 || idx >= len(parent.children) {
			return newErr(KindPatchArrayIndex, "array index out of range: %q", last)
		}
		parent.RemoveAt(idx)
		return nil
	default:
		return newErr(KindPatchTarget, "cannot remove under %s", parent.kind)
	}
}

func patchReplace(root *Node, path string, value *Node) error {
	tokens, err := SplitPointer(path)
	if err != nil {
		return err
	}
	parent, last, err := parentAndLast(root, tokens)
	if err != nil {
		return err
	}
	switch parent.kind {
	case Object:
		if !parent.Has(last) {
			return newErr(KindPatchTarget, "no such field %q", last)
		}
		parent.Set(last, value.Clone())
		return nil
	case Array:
		idx, convErr := strconv.Atoi(last)
		if convErr != nil || idx < 0 || idx >= len(parent.children) {
			return newErr(KindPatchArrayIndex, "array index out of range: %q", last)
		}
		value = value.Clone()
		value.parent = parent
		value.key = ""
		parent.children[idx] = value
		return nil
	default:
		return newErr(KindPatchTarget, "cannot replace under %s", parent.kind)
	}
}

func patchTest(root *Node, path string, value *Node) error {
	target, err := root.Pointer(path)
	if err != nil {
		return err
	}
	if !Equal(target, value) {
		return newErr(KindPatchTestFailed, "test failed at %q", path)
	}
	return nil
}

// patchIncrement adds an integer delta to an integer target. A float
// operand on either side, or any non-numeric operand, is a type error.
func patchIncrement(root *Node, path string, delta *Node) error {
	target, err := root.Pointer(path)
	if err != nil {
		return err
	}
	if target.kind != Int || delta.kind != Int {
		return newErr(KindPatchInvalid, "increment requires an integer target and integer delta")
	}
	tokens, err := SplitPointer(path)
	if err != nil {
		return err
	}
	parent, last, err := parentAndLast(root, tokens)
	if err != nil {
		return err
	}
	result := NewInt(target.intVal + delta.intVal)
	switch parent.kind {
	case Object:
		parent.Set(last, result)
	case Array:
		idx, convErr := strconv.Atoi(last)
		if convErr != nil {
			return newErr(KindPatchArrayIndex, "array index out of range: %q", last)
		}
		result.parent = parent
		parent.children[idx] = result
	}
	return nil
}

// MergePatch applies an RFC7386 JSON merge patch to root and returns a new
// tree: for each key in patch, null removes the target key, an object
// recurses, any other value replaces. Applying the same merge patch twice
// is idempotent because the second application simply overwrites with the
// same values again.
func MergePatch(root, patch *Node) *Node {
	if patch == nil || patch.kind != Object {
		return patch.Clone()
	}
	if root == nil || root.kind != Object {
		root = NewObject()
	} else {
		root = root.Clone()
	}
	for _, c := range patch.children {
		if c.kind == Null {
			root.Remove(c.key)
			continue
		}
		if c.kind == Object {
			existing := root.Get(c.key)
			root.Set(c.key, MergePatch(existing, c))
			continue
		}
		root.Set(c.key, c.Clone())
	}
	return root
}
