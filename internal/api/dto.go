// File path: internal/api/dto.go
package api

import (
	"github.com/coddog/coddog/internal/instr"
	"github.com/coddog/coddog/internal/store"
)

// symbolMetaDTO is the wire shape for store.SymbolMeta, matching the
// `SymbolMeta` field list from §6 exactly.
type symbolMetaDTO struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Len         int     `json:"len"`
	SourceID    int64   `json:"source_id"`
	SourceName  string  `json:"source_name"`
	VersionID   *int64  `json:"version_id,omitempty"`
	VersionName *string `json:"version_name,omitempty"`
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	ProjectRepo *string `json:"project_repo,omitempty"`
	Platform    *int16  `json:"platform,omitempty"`
	IsDecompiled bool   `json:"is_decompiled"`
}

func toSymbolMetaDTO(m store.SymbolMeta) symbolMetaDTO {
	return symbolMetaDTO{
		Slug: m.Slug, Name: m.Name, Len: m.Len,
		SourceID: m.SourceID, SourceName: m.SourceName,
		VersionID: m.VersionID, VersionName: m.VersionName,
		ProjectID: m.ProjectID, ProjectName: m.ProjectName, ProjectRepo: m.ProjectRepo,
		Platform: m.Platform, IsDecompiled: m.IsDecompiled,
	}
}

type operandDTO struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type instructionDTO struct {
	Opcode   string       `json:"opcode"`
	Operands []operandDTO `json:"operands"`
	Address  uint64       `json:"address"`
}

func toInstructionDTOs(stream instr.Stream) []instructionDTO {
	out := make([]instructionDTO, len(stream))
	for i, in := range stream {
		ops := make([]operandDTO, len(in.Operands))
		for j, op := range in.Operands {
			ops[j] = operandDTO{Kind: operandKindName(op.Kind), Text: op.Text}
		}
		out[i] = instructionDTO{Opcode: in.Opcode, Operands: ops, Address: in.Address}
	}
	return out
}

func operandKindName(k instr.OperandKind) string {
	switch k {
	case instr.Register:
		return "register"
	case instr.Immediate:
		return "immediate"
	case instr.Symbolic:
		return "symbolic"
	case instr.BranchTarget:
		return "branch_target"
	default:
		return "unknown"
	}
}

type matchEntryDTO struct {
	Subtype string        `json:"subtype"`
	Symbol  symbolMetaDTO `json:"symbol"`
}

type submatchRequestDTO struct {
	WindowSize int    `json:"window_size"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	PageNum    int    `json:"page_num"`
	PageSize   int    `json:"page_size"`
	SortBy     string `json:"sort_by"`
	SortDir    string `json:"sort_dir"`
}

type submatchEntryDTO struct {
	Symbol     symbolMetaDTO `json:"symbol"`
	QueryStart int           `json:"query_start"`
	MatchStart int           `json:"match_start"`
	Len        int           `json:"len"`
}

type submatchResponseDTO struct {
	TotalCount int                `json:"total_count"`
	Submatches []submatchEntryDTO `json:"submatches"`
}

type sourceMetaDTO struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	VersionID   *int64  `json:"version_id,omitempty"`
	VersionName *string `json:"version_name,omitempty"`
	ObjectHash  string  `json:"object_hash"`
	SymbolCount int     `json:"symbol_count"`
}

func toSourceMetaDTO(m store.SourceMeta) sourceMetaDTO {
	return sourceMetaDTO{
		Slug: m.Slug, Name: m.Name, ProjectID: m.ProjectID, ProjectName: m.ProjectName,
		VersionID: m.VersionID, VersionName: m.VersionName, ObjectHash: m.ObjectHash, SymbolCount: m.SymbolCount,
	}
}

type projectDTO struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Repo *string `json:"repo,omitempty"`
}

func toProjectDTO(p store.Project) projectDTO {
	return projectDTO{ID: p.ID, Name: p.Name, Repo: p.Repo}
}
