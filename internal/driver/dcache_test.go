package driver

import (
	"crypto/sha256"
	"testing"

	"nestml/internal/units"
)

func testKey(seed string) Digest {
	return Digest(sha256.Sum256([]byte(seed)))
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}

	in := &DiskPayload{
		Schema:    diskCacheSchemaVersion,
		Model:     "iaf",
		Path:      "models/iaf.json",
		Source:    []byte("V_m mV = 70mV\n"),
		HadErrors: true,
		Diagnostics: []DiskDiagnostic{
			{Severity: 2, Code: 3002, Message: "dimensions of mV and ms do not match", Start: 9, End: 13},
		},
	}
	key := testKey("round-trip")
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if out.Model != in.Model || out.HadErrors != in.HadErrors {
		t.Fatalf("payload mangled: %+v", out)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Message != in.Diagnostics[0].Message {
		t.Fatalf("diagnostics mangled: %+v", out.Diagnostics)
	}
	if string(out.Source) != string(in.Source) {
		t.Fatalf("source mangled: %q", out.Source)
	}
}

func TestDiskCacheMissOnUnknownKey(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	var out DiskPayload
	hit, err := cache.Get(testKey("never-stored"), &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatalf("unknown key must miss")
	}
}

func TestDiskCacheMissOnSchemaBump(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := testKey("old-schema")
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var out DiskPayload
	hit, err := cache.Get(key, &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatalf("schema mismatch must read as a miss")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := testKey("dropped")
	if err := cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var out DiskPayload
	if hit, _ := cache.Get(key, &out); hit {
		t.Fatalf("entry survived DropAll")
	}
}

func TestNilDiskCacheIsInert(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(testKey("x"), &DiskPayload{}); err != nil {
		t.Fatalf("nil Put: %v", err)
	}
	var out DiskPayload
	if hit, err := cache.Get(testKey("x"), &out); hit || err != nil {
		t.Fatalf("nil Get: hit=%v err=%v", hit, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("nil DropAll: %v", err)
	}
}

func TestTargetsFingerprint(t *testing.T) {
	if fingerprintTargets(nil) != fingerprintTargets(units.DefaultTargets()) {
		t.Fatalf("nil targets must fingerprint as the defaults")
	}
	changed := units.DefaultTargets()
	changed["voltage"] = "uV"
	if fingerprintTargets(nil) == fingerprintTargets(changed) {
		t.Fatalf("changed targets must change the fingerprint")
	}
	if fingerprintTargets(changed) == fingerprintTargets(units.DefaultTargets()) {
		t.Fatalf("fingerprint ignored the override")
	}
}
