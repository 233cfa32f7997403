package filestore

import (
	"bytes"
	"compress/flate"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
)

type fakeSender struct{ requested []uint16 }

func (f *fakeSender) SendFileRequest(index uint16) error {
	f.requested = append(f.requested, index)
	return nil
}

func deflate(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRequesterCacheHit(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{}
	r := New(nil, dir, "testzone", sender, crc32.ChecksumIEEE)

	content := []byte("cached map bytes")
	zoneDir := filepath.Join(dir, "testzone")
	if err := os.MkdirAll(zoneDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(zoneDir, "level.lvl"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	var got []byte
	err := r.Submit(Request{
		Filename:    "level.lvl",
		ExpectedCRC: crc32.ChecksumIEEE(content),
		Callback:    func(data []byte, err error) { got = data },
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("got %q, want %q", got, content)
	}
	if len(sender.requested) != 0 {
		t.Fatalf("expected no network request on cache hit, got %v", sender.requested)
	}
}

func TestRequesterDownloadAndDecompress(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{}
	r := New(nil, dir, "testzone", sender, crc32.ChecksumIEEE)

	plain := []byte("this is the decompressed map body")
	compressed := deflate(t, plain)
	header := make([]byte, 17)
	body := append(header, compressed...)

	var got []byte
	var gotErr error
	err := r.Submit(Request{
		Filename:    "level.lvl",
		ExpectedCRC: crc32.ChecksumIEEE(plain),
		Decompress:  true,
		Callback: func(data []byte, err error) {
			got = data
			gotErr = err
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sender.requested) != 1 {
		t.Fatalf("expected one file request, got %v", sender.requested)
	}

	r.HandleBody(body)
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if string(got) != string(plain) {
		t.Fatalf("got %q, want %q", got, plain)
	}

	if data, err := os.ReadFile(filepath.Join(dir, "testzone", "level.lvl")); err != nil || string(data) != string(plain) {
		t.Fatalf("expected file persisted to cache, err=%v data=%q", err, data)
	}
}

func TestRequesterCRCMismatchDropsRequest(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{}
	r := New(nil, dir, "testzone", sender, crc32.ChecksumIEEE)

	var gotErr error
	_ = r.Submit(Request{
		Filename:    "bad.lvl",
		ExpectedCRC: 0xDEADBEEF,
		Callback:    func(data []byte, err error) { gotErr = err },
	})
	r.HandleBody([]byte("not what was expected"))
	if gotErr != ErrCRCMismatch {
		t.Fatalf("expected ErrCRCMismatch, got %v", gotErr)
	}
}

func TestRequesterQueueAdvancesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	sender := &fakeSender{}
	r := New(nil, dir, "testzone", sender, crc32.ChecksumIEEE)

	var secondCalled bool
	_ = r.Submit(Request{Filename: "a.lvl", ExpectedCRC: 1, Callback: func([]byte, error) {}})
	_ = r.Submit(Request{Filename: "b.lvl", ExpectedCRC: 2, Callback: func([]byte, error) { secondCalled = true }})

	r.HandleBody([]byte("wrong"))
	if len(sender.requested) != 2 {
		t.Fatalf("expected queue to advance and request next file, got %v", sender.requested)
	}
	r.HandleBody([]byte("still wrong"))
	if !secondCalled {
		t.Fatal("expected second request's callback to fire")
	}
}
