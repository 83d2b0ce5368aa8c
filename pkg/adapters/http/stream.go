package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// streamBuffer is the number of events queued per SSE client before drops.
const streamBuffer = 16

// SubscribeEvents handles GET /api/events?name=a,b as a server-sent event stream of the
// named bus events. Each message uses the event name as the SSE event type and the JSON
// encoded domain.Event as data.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var names []string
	for _, n := range strings.Split(r.URL.Query().Get("name"), ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ch := make(chan domain.Event, streamBuffer)
	for _, name := range names {
		unlisten, err := s.bus.Listen(ctx, name, func(e domain.Event) {
			select {
			case ch <- e:
			default:
				s.logger.Warn("SSE: Client buffer full, dropping event", "event", e.Name)
			}
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("Listen error: %v", err), http.StatusInternalServerError)
			return
		}
		defer unlisten()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.logger.Info("SSE: Client subscribed", "events", names)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("SSE: Client disconnected")
			return
		case e := <-ch:
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Warn("SSE: Event not encodable", "event", e.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, data)
			flusher.Flush()
		}
	}
}
