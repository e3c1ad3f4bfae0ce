// File path: internal/api/upload.go
package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/common"
	"github.com/coddog/coddog/internal/ingest"
	"github.com/coddog/coddog/internal/workerpool"
)

type uploadResponseDTO struct {
	Source sourceMetaDTO `json:"source"`
}

// handleUpload accepts one multipart object plus its project/version/source
// metadata and runs it through the same ingest.Run path the CLI uses,
// grounded on the teacher's handleIngestUpload multipart-to-workspace
// pattern.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	const maxMemory = 64 << 20
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, fmt.Errorf("%w: parse upload form: %v", coderr.ErrInvalidArgument, err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	projectName := strings.TrimSpace(r.FormValue("project"))
	sourceName := strings.TrimSpace(r.FormValue("source"))
	if projectName == "" || sourceName == "" {
		writeError(w, fmt.Errorf("%w: project and source are required", coderr.ErrInvalidArgument))
		return
	}

	fileHeader, err := pickUploadedFile(r)
	if err != nil {
		writeError(w, err)
		return
	}

	workspace, err := os.MkdirTemp(s.cfg.UploadRoot, "upload-")
	if err != nil {
		writeError(w, fmt.Errorf("%w: create workspace: %v", coderr.ErrBackingStoreUnavailable, err))
		return
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			logger.Warn("api: cleanup upload workspace failed", "workspace", workspace, "error", err)
		}
	}()

	objectPath, err := saveUploadedFile(workspace, fileHeader)
	if err != nil {
		writeError(w, err)
		return
	}

	desc := ingest.Descriptor{
		Project: ingest.ProjectSpec{Name: projectName},
		Sources: []ingest.SourceSpec{{Name: sourceName, Object: objectPath}},
	}
	if repo := strings.TrimSpace(r.FormValue("repo")); repo != "" {
		desc.Project.Repo = repo
	}
	if versionName := strings.TrimSpace(r.FormValue("version")); versionName != "" {
		desc.Version = &ingest.VersionSpec{Name: versionName, Platform: strings.TrimSpace(r.FormValue("platform"))}
	}

	opts := ingest.Options{Seed: s.cfg.Seed, WindowSize: s.cfg.WindowSize, BinPath: s.cfg.UploadRoot, Pool: workerpool.New(0)}
	created, err := ingest.Run(r.Context(), s.store, s.search, opts, desc)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(created) == 0 {
		writeError(w, fmt.Errorf("%w: ingest produced no source", coderr.ErrInvalidArgument))
		return
	}

	meta, err := s.store.GetSource(r.Context(), created[0].Slug)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Info("api: upload ingested", "source", meta.Slug, "symbols", meta.SymbolCount)
	writeJSON(w, http.StatusCreated, uploadResponseDTO{Source: toSourceMetaDTO(meta)})
}

func pickUploadedFile(r *http.Request) (*multipart.FileHeader, error) {
	headers := r.MultipartForm.File["object"]
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no object file provided", coderr.ErrInvalidArgument)
	}
	return headers[0], nil
}

func saveUploadedFile(workspace string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open uploaded file: %v", coderr.ErrInvalidArgument, err)
	}
	defer src.Close()

	destPath := filepath.Join(workspace, "object.bin")
	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create destination file: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%w: write destination file: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return destPath, nil
}
