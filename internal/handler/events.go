package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tableflow/internal/domain/order"
)

const heartbeatInterval = 30 * time.Second

// streamEvents serves a Server-Sent Events stream of broadcast events.
// Delivery is best-effort: clients that fall behind miss events and are
// expected to re-fetch authoritative state over the regular API.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe()
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev := <-sub.Events():
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}

// publishNewOrder re-broadcasts a client-submitted new_order event verbatim
// to all subscribers. It is a pass-through, not a state mutation.
func (h *Handler) publishNewOrder(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.hub.Publish(order.EventNewOrder, payload)
	w.WriteHeader(http.StatusAccepted)
}
