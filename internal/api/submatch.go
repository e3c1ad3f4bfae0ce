// File path: internal/api/submatch.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/submatch"
)

func (s *Server) handleSubmatch(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var req submatchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: decode request: %v", coderr.ErrInvalidArgument, err))
		return
	}
	if req.PageNum < 0 || req.PageSize <= 0 {
		writeError(w, fmt.Errorf("%w: page_num must be non-negative and page_size positive", coderr.ErrInvalidArgument))
		return
	}
	// The request's window_size field is the minimum submatch length L, not
	// the deployment-wide window width W (which is fixed server-side); a
	// value below W is clamped rather than rejected, per §4.4's documented
	// policy.
	minLen := req.WindowSize
	if minLen <= 0 {
		minLen = s.cfg.WindowSize
	}

	// An omitted end is indistinguishable from an explicit 0 once decoded
	// from JSON; per §4.4's default range of [0, Q.len-1], treat end<=0 as
	// omitted and default it to the query Symbol's last index.
	if req.End <= 0 {
		sym, err := s.store.GetSymbol(r.Context(), slug)
		if err != nil {
			writeError(w, err)
			return
		}
		req.End = sym.Len - 1
	}

	key := submatch.SortByLength
	if req.SortBy == "query_start" {
		key = submatch.SortByQueryStart
	}
	dir := submatch.Descending
	if req.SortDir == "asc" {
		dir = submatch.Ascending
	}

	result, err := s.store.FindSubmatches(r.Context(), slug, req.Start, req.End, minLen, key, dir,
		submatch.Page{Num: req.PageNum, Size: req.PageSize}, s.cfg.WindowSize)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := submatchResponseDTO{TotalCount: result.Total, Submatches: make([]submatchEntryDTO, len(result.Rows))}
	for i, row := range result.Rows {
		resp.Submatches[i] = submatchEntryDTO{
			Symbol:     toSymbolMetaDTO(row.Symbol),
			QueryStart: row.QueryStart,
			MatchStart: row.MatchStart,
			Len:        row.Len,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
