package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"heatmap/internal/dataset"
	"heatmap/pkg/checksum"
)

// datasetHandler serves one dataset. Every request decodes the immutable
// snapshot afresh.
func (s *Server) datasetHandler(entry *dataset.Entry) http.HandlerFunc {
	label := entry.Config.DisplayLabel()

	return func(w http.ResponseWriter, r *http.Request) {
		if entry.Err != nil {
			s.failDataset(w, r, label, entry.Err)
			return
		}

		snap := entry.Snapshot

		result, err := snap.Normalize(s.log.With("request_id", requestID(r)))
		if err != nil {
			s.failDataset(w, r, label, err)
			return
		}

		w.Header().Set("ETag", snap.ETag)
		w.Header().Set("Cache-Control", "no-cache")

		if checksum.MatchETag(r.Header.Get("If-None-Match"), snap.ETag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		s.writeJSON(w, http.StatusOK, result.Items)
	}
}

func (s *Server) failDataset(w http.ResponseWriter, r *http.Request, label string, err error) {
	s.log.Error("dataset request failed", "path", r.URL.Path, "request_id", requestID(r), "error", err)
	http.Error(w, fmt.Sprintf("Failed to read %s data: %v", label, err), http.StatusInternalServerError)
}

type datasetStatus struct {
	Name     string `json:"name"`
	Route    string `json:"route"`
	Kind     string `json:"kind"`
	Mode     string `json:"mode"`
	Source   string `json:"source"`
	Healthy  bool   `json:"healthy"`
	Checksum string `json:"checksum,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
	Error    string `json:"error,omitempty"`
}

type healthResponse struct {
	Status   string          `json:"status"`
	Datasets []datasetStatus `json:"datasets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok", Datasets: make([]datasetStatus, 0, len(s.catalog.Entries()))}

	for _, entry := range s.catalog.Entries() {
		st := datasetStatus{
			Name:    entry.Config.Name,
			Route:   entry.Config.Route,
			Kind:    entry.Config.Kind,
			Source:  entry.Config.GetSource(),
			Healthy: entry.Healthy(),
		}

		if entry.Healthy() {
			st.Mode = entry.Snapshot.Mode.String()
			st.Checksum = entry.Snapshot.Sum
			st.Bytes = len(entry.Snapshot.Data)
		} else {
			st.Mode = entry.Config.Mode
			st.Error = entry.Err.Error()
			resp.Status = "degraded"
		}

		resp.Datasets = append(resp.Datasets, st)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON encodes v in full before sending any of the response, so an
// encoding failure becomes a 500 rather than a truncated 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
		w.Header().Del("ETag")
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("failed to write response", "error", err)
	}
}
