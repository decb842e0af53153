package jbr

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/ejql/ejql/internal/jbl"
	"github.com/ejql/ejql/internal/jql"
)

// tailRegistry fans out newly stored documents to any open WebSocket
// subscriptions whose query matches them. Matching is re-run per document as
// it arrives rather than through a separate notification bus.
type tailRegistry struct {
	mu   sync.Mutex
	subs map[string][]*subscription
}

type subscription struct {
	collection string
	query      *jql.Query
	bindings   jql.Bindings
	docs       chan *jbl.Node
	done       chan struct{}
}

func newTailRegistry() *tailRegistry {
	return &tailRegistry{subs: make(map[string][]*subscription)}
}

func (r *tailRegistry) subscribe(collection string, q *jql.Query, bindings jql.Bindings) *subscription {
	sub := &subscription{
		collection: collection,
		query:      q,
		bindings:   bindings,
		docs:       make(chan *jbl.Node, 16),
		done:       make(chan struct{}),
	}
	r.mu.Lock()
	r.subs[collection] = append(r.subs[collection], sub)
	r.mu.Unlock()
	return sub
}

func (r *tailRegistry) unsubscribe(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.subs[sub.collection]
	for i, s := range subs {
		if s == sub {
			r.subs[sub.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	close(sub.done)
}

// notify re-runs every live subscription's query against doc and pushes a
// match to its channel, dropping the document if the subscriber is slow.
func (r *tailRegistry) notify(collection string, doc *jbl.Node) {
	r.mu.Lock()
	subs := append([]*subscription(nil), r.subs[collection]...)
	r.mu.Unlock()

	for _, sub := range subs {
		res, err := jql.Match(sub.query, doc, sub.bindings)
		if err != nil || !res.Matched {
			continue
		}
		select {
		case sub.docs <- res.Document:
		default:
		}
	}
}

// streamQueryRequest is the first message a stream client must send to
// establish which query it is tailing.
type streamQueryRequest struct {
	Query        string            `json:"query"`
	Placeholders map[string]string `json:"placeholders"`
}

// handleStream upgrades the connection, reads one JSON query message, then
// forwards matching documents for as long as the socket stays open.
//
// GET /collections/:name/stream (WebSocket)
func (s *Server) handleStream(conn *websocket.Conn) {
	collection := conn.Params("name")

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var req streamQueryRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("invalid request: "+err.Error()))
		return
	}

	q, err := jql.Parse(req.Query)
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("invalid query: "+err.Error()))
		return
	}

	bindings, err := resolveBindings(req.Placeholders)
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte(err.Error()))
		return
	}

	sub := s.tails.subscribe(collection, q, bindings)
	defer s.tails.unsubscribe(sub)

	for {
		select {
		case doc := <-sub.docs:
			if err := conn.WriteMessage(websocket.TextMessage, []byte(jbl.Marshal(doc))); err != nil {
				return
			}
		case <-sub.done:
			return
		}
	}
}
