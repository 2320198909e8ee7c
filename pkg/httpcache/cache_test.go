package httpcache

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCacheSetGet(t *testing.T) {
	cache, err := NewMemoryOnly(time.Minute, discardLogger())
	if err != nil {
		t.Fatalf("NewMemoryOnly() error = %v", err)
	}

	cache.Set("https://oauth.reddit.com/user/alice/about", []byte(`{"kind":"t2"}`))

	data, found := cache.Get("https://oauth.reddit.com/user/alice/about")
	if !found {
		t.Fatal("Get() miss after Set()")
	}
	if !bytes.Equal(data, []byte(`{"kind":"t2"}`)) {
		t.Errorf("Get() = %q", data)
	}

	if _, found := cache.Get("https://oauth.reddit.com/user/bob/about"); found {
		t.Error("Get() hit for a URL never stored")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, err := NewMemoryOnly(10*time.Millisecond, discardLogger())
	if err != nil {
		t.Fatalf("NewMemoryOnly() error = %v", err)
	}

	cache.Set("https://example.com", []byte("stale soon"))
	time.Sleep(25 * time.Millisecond)

	if _, found := cache.Get("https://example.com"); found {
		t.Error("Get() returned an expired entry")
	}
}

func TestCacheDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir, time.Minute, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first.Set("https://example.com/a", []byte("persisted"))
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := New(dir, time.Minute, discardLogger())
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	data, found := second.Get("https://example.com/a")
	if !found {
		t.Fatal("entry lost across restart")
	}
	if string(data) != "persisted" {
		t.Errorf("Get() = %q, want %q", data, "persisted")
	}
}

func TestMemoryOnlyCloseIsNoop(t *testing.T) {
	cache, err := NewMemoryOnly(time.Minute, discardLogger())
	if err != nil {
		t.Fatalf("NewMemoryOnly() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
