package jbr

import (
	"bufio"

	"github.com/gofiber/fiber/v2"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
	"github.com/ejql/ejql/internal/store"
)

// PutDocResponse is returned from handlePutDoc.
type PutDocResponse struct {
	ID string `json:"id"`
}

// handlePutDoc stores the request body as a document in the named
// collection and returns its generated id.
//
// PUT /collections/:name/docs
func (s *Server) handlePutDoc(c *fiber.Ctx) error {
	collection := c.Params("name")

	doc, err := jbl.Parse(string(c.Body()))
	if err != nil {
		return SendError(c, fiber.StatusBadRequest, "invalid document: "+err.Error())
	}

	id, err := s.store.Put(c.Context(), collection, doc)
	if err != nil {
		s.log.Error("failed to store document", "error", err, "collection", collection)
		return SendError(c, fiber.StatusInternalServerError, "failed to store document")
	}

	s.tails.notify(collection, doc)

	return SendSuccess(c, fiber.StatusOK, PutDocResponse{ID: id})
}

// QueryRequest is the body accepted by handleQuery.
type QueryRequest struct {
	Query        string            `json:"query"`
	Placeholders map[string]string `json:"placeholders"`
}

// handleQuery parses req.Query, runs it against every document in the named
// collection, and streams matching documents back as newline-delimited
// JSON.
//
// POST /collections/:name/query
func (s *Server) handleQuery(c *fiber.Ctx) error {
	collection := c.Params("name")

	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	q, err := jql.Parse(req.Query)
	if err != nil {
		return SendError(c, fiber.StatusBadRequest, "invalid query: "+err.Error())
	}

	bindings, err := resolveBindings(req.Placeholders)
	if err != nil {
		return SendError(c, fiber.StatusBadRequest, err.Error())
	}

	ctx := c.Context()
	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Status(fiber.StatusOK)

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		err := s.store.Find(ctx, collection, q, bindings, func(m store.Match) error {
			if _, err := w.WriteString(jbl.Marshal(m.Result.Document)); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			s.log.Warn("query stream ended early", "error", err, "collection", collection)
		}
	})

	return nil
}

// resolveBindings converts placeholder values into jbl nodes: values that
// parse as JSON literals keep their type (numbers, bools, objects), anything
// else is taken as a literal string.
func resolveBindings(raw map[string]string) (jql.Bindings, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	bindings := make(jql.Bindings, len(raw))
	for k, v := range raw {
		n, err := jbl.Parse(v)
		if err != nil {
			n = jbl.NewString(v)
		}
		bindings[k] = n
	}
	return bindings, nil
}
