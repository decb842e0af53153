package jql

import "github.com/ejql/ejql/internal/jbl"

// Project materializes a new tree from doc containing exactly the paths a
// ProjectionChain names, per spec.md §4.4: an include entry adds a path
// (and if no includes are present at all, projection starts from a full
// clone instead); exclude entries always remove paths, applied after any
// includes. Wildcard segments reuse path-matching rules from the matcher.
func Project(doc *jbl.Node, chain *ProjectionChain) *jbl.Node {
	if chain == nil || len(chain.Entries) == 0 {
		return doc
	}

	hasInclude := false
	for _, e := range chain.Entries {
		if !e.Exclude {
			hasInclude = true
			break
		}
	}

	var result *jbl.Node
	if hasInclude {
		result = jbl.NewNull()
		for _, e := range chain.Entries {
			if e.Exclude {
				continue
			}
			result = includePath(result, doc, e.Path)
		}
	} else {
		result = doc.Clone()
	}

	for _, e := range chain.Entries {
		if !e.Exclude {
			continue
		}
		result = excludePath(result, e.Path)
	}
	return result
}

// includePath copies the value(s) reached by path from src into dst,
// creating intermediate containers as needed, and returns dst.
func includePath(dst, src *jbl.Node, path []PathNode) *jbl.Node {
	if len(path) == 0 {
		return src.Clone()
	}
	node := path[0]
	rest := path[1:]

	switch node.Kind {
	case PathField:
		if src == nil || src.Kind() != jbl.Object {
			return dst
		}
		child := src.Get(node.Field)
		if child == nil {
			return dst
		}
		if dst == nil || dst.Kind() != jbl.Object {
			dst = jbl.NewObject()
		}
		existing := dst.Get(node.Field)
		dst.Set(node.Field, includePath(existing, child, rest))
		return dst

	case PathAny:
		if src == nil || !src.IsContainer() {
			return dst
		}
		for _, child := range src.Children() {
			dst = includeChild(dst, src, child, rest)
		}
		return dst

	case PathAnyRecursive:
		dst = includePath(dst, src, rest)
		if src == nil || !src.IsContainer() {
			return dst
		}
		for _, child := range src.Children() {
			dst = includeChild(dst, src, child, path)
		}
		return dst

	default:
		return dst
	}
}

func includeChild(dst, src, child *jbl.Node, rest []PathNode) *jbl.Node {
	switch src.Kind() {
	case jbl.Object:
		if dst == nil || dst.Kind() != jbl.Object {
			dst = jbl.NewObject()
		}
		existing := dst.Get(child.Key())
		dst.Set(child.Key(), includePath(existing, child, rest))
	case jbl.Array:
		if dst == nil || dst.Kind() != jbl.Array {
			dst = jbl.NewArray()
		}
		dst.Append(includePath(nil, child, rest))
	}
	return dst
}

// excludePath removes the value(s) reached by path from dst in place and
// returns dst.
func excludePath(dst *jbl.Node, path []PathNode) *jbl.Node {
	if dst == nil || len(path) == 0 {
		return dst
	}
	node := path[0]
	rest := path[1:]

	switch node.Kind {
	case PathField:
		if dst.Kind() != jbl.Object {
			return dst
		}
		child := dst.Get(node.Field)
		if child == nil {
			return dst
		}
		if len(rest) == 0 {
			dst.Remove(node.Field)
			return dst
		}
		excludePath(child, rest)
		return dst

	case PathAny:
		if !dst.IsContainer() {
			return dst
		}
		if len(rest) == 0 {
			for _, c := range append([]*jbl.Node{}, dst.Children()...) {
				c.Detach()
			}
			return dst
		}
		for _, c := range dst.Children() {
			excludePath(c, rest)
		}
		return dst

	case PathAnyRecursive:
		excludePath(dst, rest)
		if !dst.IsContainer() {
			return dst
		}
		for _, c := range dst.Children() {
			excludePath(c, path)
		}
		return dst

	default:
		return dst
	}
}
