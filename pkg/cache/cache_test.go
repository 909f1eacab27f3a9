package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("Delete of missing entry: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("deleted entry still present")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want clean miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCacheStatsAndPrune(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if st, err := c.Stats(); err != nil || st.Entries != 0 {
		t.Fatalf("empty Stats() = %+v, %v", st, err)
	}

	if err := c.Set(ctx, "keep", []byte("svg"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "forever", []byte("svg"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("svg"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)

	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 3 || st.Expired != 1 || st.Bytes == 0 {
		t.Errorf("Stats() = %+v, want 3 entries with 1 expired", st)
	}

	n, err := c.Prune()
	if err != nil || n != 1 {
		t.Errorf("Prune() = %d, %v; want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "keep"); !hit {
		t.Error("live entry pruned")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without expiry pruned")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	svg := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png"})
	dpi := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", DPI: 600})
	other := k.ArtifactKey("abd", ArtifactKeyOpts{Format: "svg"})
	if svg == png || svg == dpi || svg == other {
		t.Error("artifact keys must differ when any input differs")
	}
	if !strings.HasPrefix(svg, "artifact:") {
		t.Errorf("ArtifactKey = %s", svg)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "tenant:42:")
	key := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if key != "tenant:42:"+NewDefaultKeyer().ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"}) {
		t.Errorf("ArtifactKey = %s", key)
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("down")
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	err := b.Retry(ctx, func() error {
		if calls++; calls < 3 {
			return errDown
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("err=%v calls=%d, want success after 3 calls", err, calls)
	}

	calls = 0
	err = b.Retry(ctx, func() error {
		calls++
		return Permanent(errDown)
	})
	if err != errDown || calls != 1 {
		t.Errorf("permanent: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = Backoff{Attempts: 2, Delay: time.Millisecond}.Retry(ctx, func() error {
		calls++
		return errDown
	})
	if err != errDown || calls != 2 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}

	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestBackoffRetryZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return errors.New("down")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoffRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Backoff{Attempts: 3, Delay: time.Second}.Retry(ctx, func() error {
		return errors.New("down")
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRedisPingError(t *testing.T) {
	tests := []struct {
		msg       string
		permanent bool
	}{
		{"dial tcp 127.0.0.1:6379: connect: connection refused", false},
		{"NOAUTH Authentication required.", true},
		{"WRONGPASS invalid username-password pair", true},
		{"ERR DB index is out of range", true},
		{"LOADING Redis is loading the dataset in memory", false},
	}
	for _, tt := range tests {
		var perm *permanentError
		got := errors.As(redisPingError(errors.New(tt.msg)), &perm)
		if got != tt.permanent {
			t.Errorf("%q: permanent = %v, want %v", tt.msg, got, tt.permanent)
		}
	}
	if redisPingError(nil) != nil {
		t.Error("nil should stay nil")
	}
}
