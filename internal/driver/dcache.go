package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"nestml/internal/diag"
	"nestml/internal/source"
)

// Bump when the payload layout changes; old entries then miss instead
// of deserializing garbage.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists check outcomes keyed by model fingerprint.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of one model check: the rendered
// diagnostics plus enough context to replay them without re-checking.
// Semantic annotation maps are not cached; a hit carries a nil sema
// result and callers needing one re-check without the cache.
type DiskPayload struct {
	Schema uint16

	Model  string
	Path   string
	Source []byte

	HadErrors   bool
	Diagnostics []DiskDiagnostic
}

// DiskDiagnostic is the flat wire form of one diagnostic. Spans keep
// raw offsets; the file id is rebased on read.
type DiskDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// OpenDiskCache initializes a cache under XDG_CACHE_HOME (or ~/.cache)
// for the given application name.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	// Подкаталог "models" — чтобы каталог кэша было удобно чистить.
	return filepath.Join(c.dir, "models", hex.EncodeToString(key[:])+".mp")
}

// Put serializes a payload and installs it atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload; a missing entry or a schema mismatch is a miss,
// not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func payloadFromResult(fileSet *source.FileSet, res *Result) *DiskPayload {
	payload := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Path:      res.Path,
		HadErrors: res.Bag.HasErrors(),
	}
	if res.Model != nil {
		payload.Model = res.Model.Name
	}
	if f := fileSet.Get(res.FileID); f != nil {
		payload.Source = f.Content
	}

	items := res.Bag.Items()
	payload.Diagnostics = make([]DiskDiagnostic, len(items))
	for i, d := range items {
		payload.Diagnostics[i] = DiskDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
	}
	return payload
}

func resultFromPayload(fileSet *source.FileSet, fsMu *sync.Mutex, path string, payload *DiskPayload) Result {
	fsMu.Lock()
	fileID := fileSet.AddVirtual(path, payload.Source)
	fsMu.Unlock()

	bag := diag.NewBag(max(len(payload.Diagnostics), 1))
	for _, d := range payload.Diagnostics {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: fileID, Start: d.Start, End: d.End},
		})
	}
	return Result{Path: path, FileID: fileID, Bag: bag, CacheHit: true}
}

// String renders a digest for logs.
func (d Digest) String() string {
	return fmt.Sprintf("%x", d[:8])
}
