package jbl

import (
	"strconv"
	"strings"
)

// SplitPointer decodes an RFC6901 JSON pointer into its unescaped tokens.
// "" denotes the document root, which splits to an empty token slice.
func SplitPointer(ptr string) ([]string, error) {
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, newErr(KindInvalidPointer, "pointer must start with '/': %q", ptr)
	}
	raw := strings.Split(ptr[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = unescapeToken(t)
	}
	return tokens, nil
}

func unescapeToken(t string) string {
	if !strings.Contains(t, "~") {
		return t
	}
	t = strings.ReplaceAll(t, "~1", "/")
	t = strings.ReplaceAll(t, "~0", "~")
	return t
}

func escapeToken(t string) string {
	t = strings.ReplaceAll(t, "~", "~0")
	t = strings.ReplaceAll(t, "/", "~1")
	return t
}

// Pointer resolves an RFC6901 pointer against n, returning PathNotFound for
// a missing object field or a "-" array token, PatchInvalidArrayIndex for an
// out-of-range array index, and NotAnObject when a segment descends into a
// scalar.
func (n *Node) Pointer(ptr string) (*Node, error) {
	tokens, err := SplitPointer(ptr)
	if err != nil {
		return nil, err
	}
	cur := n
	for _, tok := range tokens {
		cur, err = step(cur, tok)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func step(n *Node, tok string) (*Node, error) {
	if n == nil {
		return nil, newErr(KindPathNotFound, "path not found at %q", tok)
	}
	switch n.kind {
	case Object:
		c := n.Get(tok)
		if c == nil {
			return nil, newErr(KindPathNotFound, "no such field %q", tok)
		}
		return c, nil
	case Array:
		if tok == "-" {
			return nil, newErr(KindPathNotFound, "'-' does not address an existing element")
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 0 || idx >= len(n.children) {
			return nil, newErr(KindPatchArrayIndex, "array index out of range: %q", tok)
		}
		return n.children[idx], nil
	default:
		return nil, newErr(KindNotAnObject, "cannot descend into %s", n.kind)
	}
}

// parentAndLast resolves all but the final pointer token, returning the
// parent container and the final token, so callers can add/remove/replace
// it directly (used by the RFC6902 patcher).
func parentAndLast(root *Node, tokens []string) (*Node, string, error) {
	if len(tokens) == 0 {
		return nil, "", newErr(KindInvalidPointer, "pointer must address a field or element, not the root")
	}
	cur := root
	for _, tok := range tokens[:len(tokens)-1] {
		next, err := step(cur, tok)
		if err != nil {
			return nil, "", err
		}
		cur = next
	}
	return cur, tokens[len(tokens)-1], nil
}
