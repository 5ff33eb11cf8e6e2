package eventsink

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Server serves a single realtime event stream to websocket viewers: one
// page, a health endpoint, and a websocket publishing every event pushed
// to its ChanSink.
type Server struct {
	addr string
	sink *ChanSink
	last *AtomicFloat64
}

// NewServer wires a server around the sink an already-running driver is
// pushing events into.
func NewServer(addr string, sink *ChanSink) *Server {
	return &Server{addr: addr, sink: sink, last: NewAtomicFloat64(0)}
}

func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWebsocket)
	mux.HandleFunc("/health", s.serveHealth)

	if err := http.ListenAndServe(s.addr, mux); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	client, err := NewClient(s.sink.Events(), w, r, s.last)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	if err := client.Sync(); err != nil {
		log.Println("sync:", err)
	}
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		LastEventTime float64 `json:"last_event_time"`
	}{LastEventTime: s.last.AtomicRead()})
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
<head><title>stochproc event stream</title></head>
<body>
<pre id="log"></pre>
<script>
const log = document.getElementById("log");
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = (msg) => {
  log.textContent = msg.data + "\n" + log.textContent;
};
</script>
</body>
</html>
`
