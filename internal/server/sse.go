package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"resumake/internal/common"
)

// sseHub fans out reload events to connected preview clients.
type sseHub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[chan string]struct{})}
}

// Subscribe registers a new client channel. The returned cancel func
// must be called when the client disconnects.
func (h *sseHub) Subscribe() (chan string, func()) {
	ch := make(chan string, 4)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast sends an event to every connected client. Slow clients are
// skipped rather than blocked on.
func (h *sseHub) Broadcast(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *sseHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// eventsHandler streams server-sent events to the preview page.
func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, "Streaming unsupported",
			"The connection does not support server-sent events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.hub.Subscribe()
	defer cancel()

	fmt.Fprint(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: reload\n\n", event)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

// startSourceWatcher watches the CV source file and broadcasts reload
// events to connected preview clients on change.
func (s *Server) startSourceWatcher(ctx context.Context) error {
	watcher, err := common.NewFileWatcher([]string{s.sourcePath()}, 300*time.Millisecond, func(path string) {
		s.Logger.Debug("CV source changed, notifying preview clients",
			"path", path, "clients", s.hub.ClientCount())
		s.hub.Broadcast("change")
		if s.metrics != nil {
			s.metrics.RecordPreviewReload(ctx)
		}
	}, s.Logger)
	if err != nil {
		return err
	}

	watcher.Start(ctx)
	s.watcher = watcher
	return nil
}

// reloadScript is injected into previewed HTML so the browser refreshes
// when the CV source changes on disk.
const reloadScript = `<script>
(function () {
  var es = new EventSource("/events");
  es.addEventListener("change", function () { location.reload(); });
})();
</script>`

// injectReload inserts the live-reload script before the closing body
// tag, or appends it when no body tag is present.
func injectReload(html []byte) []byte {
	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx < 0 {
		return append(html, []byte(reloadScript)...)
	}
	out := make([]byte, 0, len(html)+len(reloadScript))
	out = append(out, html[:idx]...)
	out = append(out, []byte(reloadScript)...)
	out = append(out, html[idx:]...)
	return out
}
