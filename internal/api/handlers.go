package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"circle-arena/internal/game"
)

// maxInputBody bounds POST bodies; an input snapshot is a few hundred bytes
const maxInputBody = 16 << 10

// Handler methods for routerHandlers

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.SnapshotCopy())
}

func (h *routerHandlers) handleGetWeapons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Rules().Catalog.All())
}

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Info())
}

func (h *routerHandlers) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	if h.frames == nil {
		writeError(w, "Frame rendering disabled", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := h.frames.WritePNG(&buf, h.engine.SnapshotCopy()); err != nil {
		log.Printf("⚠️ Frame render failed: %v", err)
		writeError(w, "Frame render failed", http.StatusInternalServerError)
		return
	}
	RecordFrameRender(time.Since(start))

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (h *routerHandlers) handlePostInput(w http.ResponseWriter, r *http.Request) {
	var in game.InputSnapshot
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, "Invalid input: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.engine.SubmitInput(in)

	info := h.engine.Info()
	writeJSON(w, map[string]interface{}{
		"success": true,
		"matchId": info.ID,
		"tick":    info.Tick,
	})
}

func (h *routerHandlers) handleMatchReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	// empty body means a time-based seed
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id := h.engine.Reset(req.Seed)
	RecordMatchStarted()
	log.Printf("🔄 Match reset via API: %s", id)

	writeJSON(w, h.engine.Info())
}

// Helper functions (package-level for reuse)

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
