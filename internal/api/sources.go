// File path: internal/api/sources.go
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coddog/coddog/internal/coderr"
)

func (s *Server) handleGetSource(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	meta, err := s.store.GetSource(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSourceMetaDTO(meta))
}

// handleClusterSource implements §4.6 over HTTP, supplemented beyond
// spec.md's explicit route table since clustering is a named derivative
// service with no HTTP contract of its own in §6.
func (s *Server) handleClusterSource(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	minSize := 2
	if raw := r.URL.Query().Get("min_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, fmt.Errorf("%w: invalid min_size", coderr.ErrInvalidArgument))
			return
		}
		minSize = v
	}
	clusters, err := s.store.ClusterSource(r.Context(), slug, minSize)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]clusterDTO, len(clusters))
	for i, c := range clusters {
		symbols := make([]symbolMetaDTO, len(c.Symbols))
		for j, sym := range c.Symbols {
			symbols[j] = toSymbolMetaDTO(sym)
		}
		out[i] = clusterDTO{ExactHash: c.ExactHash, Symbols: symbols}
	}
	writeJSON(w, http.StatusOK, out)
}

type clusterDTO struct {
	ExactHash uint64          `json:"exact_hash"`
	Symbols   []symbolMetaDTO `json:"symbols"`
}
