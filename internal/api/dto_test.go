package api

import (
	"testing"

	"github.com/coddog/coddog/internal/instr"
	"github.com/coddog/coddog/internal/store"
)

func TestOperandKindName(t *testing.T) {
	cases := []struct {
		kind instr.OperandKind
		want string
	}{
		{instr.Register, "register"},
		{instr.Immediate, "immediate"},
		{instr.Symbolic, "symbolic"},
		{instr.BranchTarget, "branch_target"},
		{instr.OperandKind(99), "unknown"},
	}
	for _, tc := range cases {
		if got := operandKindName(tc.kind); got != tc.want {
			t.Errorf("operandKindName(%v) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestToInstructionDTOs(t *testing.T) {
	stream := instr.Stream{
		{
			Opcode:  "addiu",
			Address: 0x400010,
			Operands: []instr.Operand{
				{Kind: instr.Register, Text: "$a0"},
				{Kind: instr.Immediate, Text: "4"},
			},
		},
	}
	dtos := toInstructionDTOs(stream)
	if len(dtos) != 1 {
		t.Fatalf("len(dtos) = %d, want 1", len(dtos))
	}
	if dtos[0].Opcode != "addiu" || dtos[0].Address != 0x400010 {
		t.Fatalf("dtos[0] = %+v", dtos[0])
	}
	if len(dtos[0].Operands) != 2 || dtos[0].Operands[0].Kind != "register" || dtos[0].Operands[1].Kind != "immediate" {
		t.Fatalf("operands = %+v", dtos[0].Operands)
	}
}

func TestToSymbolMetaDTO(t *testing.T) {
	versionID := int64(7)
	versionName := "US 1.0"
	m := store.SymbolMeta{
		Slug: "ab3xz", Name: "func_800", Len: 42,
		SourceID: 1, SourceName: "main.elf",
		VersionID: &versionID, VersionName: &versionName,
		ProjectID: 2, ProjectName: "Mario64",
		IsDecompiled: true,
	}
	dto := toSymbolMetaDTO(m)
	if dto.Slug != "ab3xz" || dto.Len != 42 || !dto.IsDecompiled {
		t.Fatalf("dto = %+v", dto)
	}
	if dto.VersionID == nil || *dto.VersionID != 7 {
		t.Fatalf("dto.VersionID = %v", dto.VersionID)
	}
}

func TestToSourceMetaDTO(t *testing.T) {
	m := store.SourceMeta{
		Slug: "zz111", Name: "libultra", ProjectID: 3, ProjectName: "Mario64",
		ObjectHash: "deadbeef", SymbolCount: 128,
	}
	dto := toSourceMetaDTO(m)
	if dto.Slug != "zz111" || dto.SymbolCount != 128 || dto.ObjectHash != "deadbeef" {
		t.Fatalf("dto = %+v", dto)
	}
}

func TestToProjectDTO(t *testing.T) {
	repo := "github.com/example/mario64"
	p := store.Project{ID: 9, Name: "Mario64", Repo: &repo}
	dto := toProjectDTO(p)
	if dto.ID != 9 || dto.Name != "Mario64" || dto.Repo == nil || *dto.Repo != repo {
		t.Fatalf("dto = %+v", dto)
	}
}
