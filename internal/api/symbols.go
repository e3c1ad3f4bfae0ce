// File path: internal/api/symbols.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/disasm"
)

type searchRequestDTO struct {
	Name string `json:"name"`
}

func (s *Server) handleSearchSymbols(w http.ResponseWriter, r *http.Request) {
	var req searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: decode request: %v", coderr.ErrInvalidArgument, err))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, fmt.Errorf("%w: name is required", coderr.ErrInvalidArgument))
		return
	}
	if s.search == nil {
		writeError(w, coderr.ErrBackingStoreMissing)
		return
	}
	lites, err := s.search.FindByNamePrefix(req.Name, 50)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", coderr.ErrBackingStoreUnavailable, err))
		return
	}
	out := make([]symbolMetaDTO, 0, len(lites))
	for _, lite := range lites {
		meta, err := s.store.GetSymbol(r.Context(), lite.Slug)
		if err != nil {
			continue
		}
		out = append(out, toSymbolMetaDTO(meta))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSymbol(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	meta, err := s.store.GetSymbol(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSymbolMetaDTO(meta))
}

// handleGetAsm implements get_symbol_instructions: the instruction stream
// is not stored directly, only the owning Object's blob path and the
// Symbol's ordinal within it, so every request re-runs the disassembler
// adapter over the one function asked for.
func (s *Server) handleGetAsm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	objectPath, symbolIdx, err := s.store.ResolveSymbolObject(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	decoded, err := rehydrateInstructions(r.Context(), objectPath, symbolIdx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"asm": toInstructionDTOs(decoded.Instructions)})
}

func rehydrateInstructions(ctx context.Context, objectPath string, symbolIdx int) (disasm.DecodedSymbol, error) {
	decoder, err := disasm.Resolve(objectPath)
	if err != nil {
		return disasm.DecodedSymbol{}, fmt.Errorf("%w: %v", coderr.ErrBackingStoreMissing, err)
	}
	decoded, err := decoder.DecodeOne(ctx, objectPath, symbolIdx)
	if err != nil {
		return disasm.DecodedSymbol{}, fmt.Errorf("%w: %v", coderr.ErrBackingStoreMissing, err)
	}
	return decoded, nil
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	matches, err := s.store.FindFullMatches(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]matchEntryDTO, 0, len(matches.Exact)+len(matches.Equivalent)+len(matches.Opcode))
	for _, sym := range matches.Exact {
		out = append(out, matchEntryDTO{Subtype: "exact", Symbol: toSymbolMetaDTO(sym)})
	}
	for _, sym := range matches.Equivalent {
		out = append(out, matchEntryDTO{Subtype: "equivalent", Symbol: toSymbolMetaDTO(sym)})
	}
	for _, sym := range matches.Opcode {
		out = append(out, matchEntryDTO{Subtype: "opcode", Symbol: toSymbolMetaDTO(sym)})
	}
	writeJSON(w, http.StatusOK, out)
}
