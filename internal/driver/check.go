// Package driver runs the checking pipeline over model dumps: load,
// reconcile, cache. Batches run in parallel with deterministic,
// input-ordered results.
package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"nestml/internal/ast"
	"nestml/internal/diag"
	"nestml/internal/observ"
	"nestml/internal/sema"
	"nestml/internal/source"
	"nestml/internal/units"
)

// Options configure a batch check.
type Options struct {
	// Jobs caps worker parallelism; <=0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics bounds every per-model bag.
	MaxDiagnostics int
	// Targets overrides the canonical magnitude table; nil means the
	// built-in NEST conventions.
	Targets units.Targets
	// Cache, when non-nil, short-circuits models whose fingerprint has
	// been checked before.
	Cache *DiskCache
	// Observer receives progress events; nil disables them.
	Observer func(Event)
	// Timer, when non-nil, records pipeline phases.
	Timer *observ.Timer
}

const defaultMaxDiagnostics = 256

// Result is the outcome for a single model, in input order.
type Result struct {
	Path     string
	FileID   source.FileID
	Model    *ast.Model
	Bag      *diag.Bag
	Sema     *sema.Result
	CacheHit bool
	Elapsed  time.Duration
}

// ListModelFiles returns every *.json under dir, sorted for a
// deterministic batch order.
func ListModelFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckPaths loads and checks every path in parallel. The error return
// covers setup and cancellation only; per-model problems live in the
// result bags.
func CheckPaths(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) ([]Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = defaultMaxDiagnostics
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	registry := units.Default()
	if opts.Targets != nil {
		var err error
		registry, err = units.New(opts.Targets)
		if err != nil {
			return nil, err
		}
	}
	targetsHash := fingerprintTargets(opts.Targets)

	var phase int
	if opts.Timer != nil {
		phase = opts.Timer.Begin("check")
	}

	results := make([]Result, len(paths))

	// FileSet appends are not synchronized; one mutex covers the short
	// load window, checking itself runs outside it.
	var fsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			opts.emit(Event{Kind: EventStart, Index: i, Total: len(paths), Path: path})
			started := time.Now()

			res := checkOne(fileSet, &fsMu, path, registry, targetsHash, opts)
			res.Elapsed = time.Since(started)
			results[i] = res

			opts.emit(Event{
				Kind:     EventDone,
				Index:    i,
				Total:    len(paths),
				Path:     path,
				Errors:   res.Bag.CountBySeverity(diag.SevError),
				Warnings: res.Bag.CountBySeverity(diag.SevWarning),
				CacheHit: res.CacheHit,
				Elapsed:  res.Elapsed,
			})
			return nil
		})
	}

	err := g.Wait()
	if opts.Timer != nil {
		opts.Timer.End(phase, pluralModels(len(paths)))
	}
	return results, err
}

func checkOne(fileSet *source.FileSet, fsMu *sync.Mutex, path string, registry *units.Registry, targetsHash Digest, opts Options) Result {
	// #nosec G304 -- path comes from the caller's batch list
	data, err := os.ReadFile(path)
	if err != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		code := diag.IOModelDecode
		if errors.Is(err, os.ErrNotExist) {
			code = diag.IOFileNotFound
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     code,
			Message:  fmt.Sprintf("cannot read model: %v", err),
		})
		return Result{Path: path, Bag: bag}
	}

	// The probe needs only the raw bytes; a hit skips decode and check.
	var key Digest
	if opts.Cache != nil {
		key = modelKey(Digest(sha256.Sum256(data)), targetsHash)
		var payload DiskPayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			return resultFromPayload(fileSet, fsMu, path, &payload)
		}
	}

	fsMu.Lock()
	model, fileID, bag := DecodeModel(fileSet, path, data, opts.MaxDiagnostics)
	fsMu.Unlock()

	res := Result{Path: path, FileID: fileID, Model: model, Bag: bag}
	if model == nil {
		return res
	}

	res.Sema = sema.Check(model, sema.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Registry: registry,
	})

	if opts.Cache != nil {
		// Best-effort; a cache write failure never fails the check.
		_ = opts.Cache.Put(key, payloadFromResult(fileSet, &res))
	}
	return res
}

func (o Options) emit(ev Event) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}

func pluralModels(n int) string {
	if n == 1 {
		return "1 model"
	}
	return fmt.Sprintf("%d models", n)
}
