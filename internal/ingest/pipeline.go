// File path: internal/ingest/pipeline.go
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/disasm"
	"github.com/coddog/coddog/internal/hashfp"
	"github.com/coddog/coddog/internal/search"
	"github.com/coddog/coddog/internal/store"
	"github.com/coddog/coddog/internal/workerpool"
)

// Options bundles the deployment-wide constants the pipeline needs: the
// hash seed and window width from §4.1/§4.2, the blob storage root every
// ingested Object's bytes are copied under, and the CPU-bound worker pool.
type Options struct {
	Seed       hashfp.Seed
	WindowSize int
	BinPath    string
	Pool       *workerpool.Pool
}

// Run drives every Source in a Descriptor through decode -> normalize ->
// hash -> InsertSource, returning the created Source rows. A failure on
// any one Source aborts the remaining ones (each Source is independently
// transactional, so earlier successes are not rolled back).
func Run(ctx context.Context, st *store.Store, idx *search.Index, opts Options, desc Descriptor) ([]store.Source, error) {
	var versionName *string
	var platform int16
	if desc.Version != nil {
		name := desc.Version.Name
		versionName = &name
		platform = PlatformCode(desc.Version.Platform)
	}
	var repo *string
	if desc.Project.Repo != "" {
		repo = &desc.Project.Repo
	}

	created := make([]store.Source, 0, len(desc.Sources))
	for _, spec := range desc.Sources {
		if err := ctx.Err(); err != nil {
			return created, fmt.Errorf("%w: %v", coderr.ErrCancelled, err)
		}
		src, err := ingestOne(ctx, st, idx, opts, desc.Project.Name, repo, versionName, platform, spec)
		if err != nil {
			return created, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		created = append(created, src)
	}
	return created, nil
}

func ingestOne(ctx context.Context, st *store.Store, idx *search.Index, opts Options, projectName string, repo, versionName *string, platform int16, spec SourceSpec) (store.Source, error) {
	decoder, err := disasm.Resolve(spec.Object)
	if err != nil {
		return store.Source{}, fmt.Errorf("%w: %v", coderr.ErrInvalidArgument, err)
	}
	decoded, err := decoder.Decode(ctx, spec.Object)
	if err != nil {
		return store.Source{}, fmt.Errorf("%w: decode %s: %v", coderr.ErrInvalidArgument, spec.Object, err)
	}

	contentHash, err := hashFile(spec.Object)
	if err != nil {
		return store.Source{}, fmt.Errorf("%w: %v", coderr.ErrInvalidArgument, err)
	}
	localPath, err := storeBlob(opts.BinPath, contentHash, spec.Object)
	if err != nil {
		return store.Source{}, fmt.Errorf("%w: store blob: %v", coderr.ErrBackingStoreUnavailable, err)
	}

	symbols, err := fingerprintSymbols(ctx, opts, decoded, spec.Decompiled)
	if err != nil {
		return store.Source{}, err
	}
	for i := range symbols {
		symbols[i].SymbolIdx = i
	}

	var upstream *string
	if spec.UpstreamURL != "" {
		upstream = &spec.UpstreamURL
	}

	meta := store.SourceMetaInput{
		ProjectName:     projectName,
		ProjectRepo:     repo,
		VersionName:     versionName,
		VersionPlatform: platform,
		SourceName:      spec.Name,
		UpstreamURL:     upstream,
		ObjectHash:      contentHash,
		ObjectLocalPath: localPath,
	}

	created, err := st.InsertSource(ctx, meta, symbols, opts.Seed, opts.WindowSize)
	if err != nil {
		return store.Source{}, err
	}

	if idx != nil {
		// Symbol slugs are generated server-side inside InsertSource, so the
		// search index is refreshed from the store's authoritative listing
		// rather than threading generated slugs back through this call.
		if all, err := st.ListSymbolNames(ctx); err == nil {
			_ = idx.Warm(all)
		}
	}

	return created, nil
}

// fingerprintSymbols normalizes and hashes every decoded Symbol. Whether a
// Symbol is decompiled is descriptor-level metadata (a whole Source is
// ingested from either a compiled object or a decompilation project), not
// something the disassembler adapter can determine on its own, so decompiled
// overrides whatever DecodedSymbol.IsDecompiled the adapter left as its
// zero value.
func fingerprintSymbols(ctx context.Context, opts Options, decoded []disasm.DecodedSymbol, decompiled bool) ([]store.SymbolWithStream, error) {
	pool := opts.Pool
	if pool == nil {
		pool = workerpool.New(0)
	}
	return workerpool.Map(ctx, pool, decoded, func(_ context.Context, sym disasm.DecodedSymbol) (store.SymbolWithStream, error) {
		fp := hashfp.ComputeFingerprints(opts.Seed, sym.Instructions)
		equiv := hashfp.EquivalenceStream(opts.Seed, sym.Instructions)
		out := store.SymbolWithStream{
			Name:              sym.Name,
			IsDecompiled:      decompiled,
			EquivalenceHashes: equiv,
		}
		out.Fingerprints.Opcode = fp.Opcode
		out.Fingerprints.Equiv = fp.Equiv
		out.Fingerprints.Exact = fp.Exact
		return out, nil
	})
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// storeBlob copies the object into BinPath/{hash}.bin, skipping the copy
// if the blob is already on disk — the same dedup-by-hash policy the
// original tool's objects.rs create() uses.
func storeBlob(binPath, hash, srcPath string) (string, error) {
	if err := os.MkdirAll(binPath, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(binPath, hash+".bin")
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}
	in, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer in.Close()
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}
	return dest, nil
}
