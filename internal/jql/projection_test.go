package jql

import (
	"testing"

	"github.com/ejql/ejql/internal/jbl"
)

func TestProjectIncludeOnly(t *testing.T) {
	q := mustParseQuery(t, `/foo/[bar = 1] | fields foo/bar, baz`)
	doc := mustParseDoc(t, `{"foo":{"bar":1,"other":2},"baz":"x","secret":true}`)
	res, err := Match(q, doc, nil)
	if err != nil || !res.Matched {
		t.Fatalf("expected match")
	}
	out := res.Document
	if out.Get("foo").Get("bar").IntValue() != 1 {
		t.Fatalf("expected foo.bar included, got %s", jbl.Marshal(out))
	}
	if out.Get("foo").Has("other") {
		t.Fatalf("expected foo.other excluded (not in include list), got %s", jbl.Marshal(out))
	}
	if out.Get("baz").StringValue() != "x" {
		t.Fatalf("expected baz included, got %s", jbl.Marshal(out))
	}
	if out.Has("secret") {
		t.Fatalf("expected secret excluded (not in include list), got %s", jbl.Marshal(out))
	}
}

func TestProjectExcludeOnly(t *testing.T) {
	q := mustParseQuery(t, `/foo/[bar = 1] | fields -secret`)
	doc := mustParseDoc(t, `{"foo":{"bar":1},"secret":true}`)
	res, err := Match(q, doc, nil)
	if err != nil || !res.Matched {
		t.Fatalf("expected match")
	}
	out := res.Document
	if out.Has("secret") {
		t.Fatalf("expected secret excluded, got %s", jbl.Marshal(out))
	}
	if out.Get("foo").Get("bar").IntValue() != 1 {
		t.Fatalf("expected foo.bar preserved in exclude-only projection, got %s", jbl.Marshal(out))
	}
}

func TestProjectMixedIsIncludeFirstExcludeAfter(t *testing.T) {
	q := mustParseQuery(t, `/foo/[bar = 1] | fields foo, -foo/secret`)
	doc := mustParseDoc(t, `{"foo":{"bar":1,"secret":"shh"},"other":2}`)
	res, err := Match(q, doc, nil)
	if err != nil || !res.Matched {
		t.Fatalf("expected match")
	}
	out := res.Document
	if out.Has("other") {
		t.Fatalf("expected 'other' excluded since an include list is present, got %s", jbl.Marshal(out))
	}
	if out.Get("foo").Get("bar").IntValue() != 1 {
		t.Fatalf("expected foo.bar included, got %s", jbl.Marshal(out))
	}
	if out.Get("foo").Has("secret") {
		t.Fatalf("expected foo.secret excluded post-hoc, got %s", jbl.Marshal(out))
	}
}

func TestProjectNoProjectionReturnsDocUnchanged(t *testing.T) {
	q := mustParseQuery(t, `/foo/[bar = 1]`)
	doc := mustParseDoc(t, `{"foo":{"bar":1}}`)
	res, err := Match(q, doc, nil)
	if err != nil || !res.Matched {
		t.Fatalf("expected match")
	}
	if !jbl.Equal(res.Document, doc) {
		t.Fatalf("expected unprojected match to return the document unchanged")
	}
}
