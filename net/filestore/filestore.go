// Package filestore implements the FileRequester: a serial queue of
// compressed-file downloads (map, LVZ) backed by a local on-disk cache and
// verified by CRC32, per spec §4.3.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/flate"
)

// ErrInflate is returned when DEFLATE decompression of a downloaded body
// fails or exhausts the scratch buffer growth limit.
var ErrInflate = errors.New("filestore: inflate failed")

// ErrDisk is returned when writing a verified download to the local cache
// fails.
var ErrDisk = errors.New("filestore: disk error")

// ErrCRCMismatch is returned when a downloaded body's CRC32 does not match
// the request's expected CRC32; the request is then dropped. A cached file
// with a mismatching CRC32 is not an error: it is downloaded instead.
var ErrCRCMismatch = errors.New("filestore: crc mismatch")

// maxInflateSize bounds the doubling scratch buffer so a corrupt or
// malicious huge-chunk body cannot grow without limit.
const maxInflateSize = 64 << 20 // 64 MiB

// Request describes one file download.
type Request struct {
	Filename     string
	Index        uint16
	ExpectedSize uint32
	ExpectedCRC  uint32
	Decompress   bool
	Callback     func(data []byte, err error)
}

// Sender is the transport hook used to kick off a download: send a
// reliable CoreFileRequest{index} to the server.
type Sender interface {
	SendFileRequest(index uint16) error
}

// cacheIndex maps a filename to its last-verified (crc, path), keyed by an
// xxhash of the filename, so a repeated request for a file this Requester
// has already verified skips the CRC32 recomputation. The index lives in
// memory only, for the life of the Requester. An entry whose file can no
// longer be read is discarded; a request whose CRC differs from the indexed
// one falls back to the full CRC32 check.
type cacheIndex struct {
	entries map[uint64]cachedFile
}

type cachedFile struct {
	crc  uint32
	path string
}

func newCacheIndex() *cacheIndex {
	return &cacheIndex{entries: make(map[uint64]cachedFile)}
}

func indexKey(filename string) uint64 {
	return xxhash.Sum64String(filename)
}

// Requester runs a serial queue of Requests against a single zone's cache
// directory.
type Requester struct {
	log      *slog.Logger
	dir      string
	sender   Sender
	queue    []Request
	active   bool
	index    *cacheIndex
	crc32Of  func([]byte) uint32
}

// New returns a Requester caching downloads under zones/<serverName>.
func New(log *slog.Logger, zonesRoot, serverName string, sender Sender, crc32Of func([]byte) uint32) *Requester {
	if log == nil {
		log = slog.Default()
	}
	return &Requester{
		log:     log,
		dir:     filepath.Join(zonesRoot, serverName),
		sender:  sender,
		index:   newCacheIndex(),
		crc32Of: crc32Of,
	}
}

// Submit enqueues req. If a cached copy with a matching CRC already exists,
// the callback fires immediately and the request never touches the
// network. Otherwise it is queued; if the queue was previously empty, the
// download is kicked off immediately.
func (r *Requester) Submit(req Request) error {
	if cached, ok := r.tryCache(req); ok {
		req.Callback(cached, nil)
		return nil
	}
	empty := len(r.queue) == 0
	r.queue = append(r.queue, req)
	if empty {
		return r.startHead()
	}
	return nil
}

func (r *Requester) tryCache(req Request) ([]byte, bool) {
	path := filepath.Join(r.dir, req.Filename)
	if cf, ok := r.index.entries[indexKey(req.Filename)]; ok && cf.crc == req.ExpectedCRC && cf.path == path {
		if data, err := os.ReadFile(path); err == nil {
			return data, true
		}
		delete(r.index.entries, indexKey(req.Filename))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	if r.crc32Of(data) != req.ExpectedCRC {
		return nil, false
	}
	r.index.entries[indexKey(req.Filename)] = cachedFile{crc: req.ExpectedCRC, path: path}
	return data, true
}

func (r *Requester) startHead() error {
	if len(r.queue) == 0 {
		return nil
	}
	r.active = true
	return r.sender.SendFileRequest(r.queue[0].Index)
}

// HandleBody is called once the huge-chunk reassembly behind the active
// request has produced a complete payload. It decompresses (if requested),
// verifies, persists to disk, invokes the callback, and advances the queue.
func (r *Requester) HandleBody(payload []byte) {
	if len(r.queue) == 0 {
		return
	}
	req := r.queue[0]
	r.queue = r.queue[1:]
	r.active = false

	body := payload
	var err error
	if req.Decompress {
		if len(body) < 17 {
			err = fmt.Errorf("%w: body shorter than 17-byte header", ErrInflate)
		} else {
			body, err = inflate(body[17:])
			if err != nil {
				err = fmt.Errorf("%w: %v", ErrInflate, err)
			}
		}
	}
	if err == nil && r.crc32Of(body) != req.ExpectedCRC {
		err = ErrCRCMismatch
	}
	if err == nil {
		if werr := r.persist(req.Filename, body); werr != nil {
			r.log.Error("filestore: failed to persist download", "file", req.Filename, "err", werr)
			err = fmt.Errorf("%w: %v", ErrDisk, werr)
		} else {
			r.index.entries[indexKey(req.Filename)] = cachedFile{crc: req.ExpectedCRC, path: filepath.Join(r.dir, req.Filename)}
		}
	}

	if err != nil {
		r.log.Error("filestore: download failed, dropping request", "file", req.Filename, "err", err)
	}
	if req.Callback != nil {
		req.Callback(body, err)
	}

	if startErr := r.startHead(); startErr != nil {
		r.log.Error("filestore: failed to start next download", "err", startErr)
	}
}

func (r *Requester) persist(filename string, data []byte) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, filename), data, 0o644)
}

// inflate decompresses a DEFLATE-compressed body into a scratch buffer that
// doubles in capacity as needed, until the whole stream is consumed, per
// spec §4.3.
func inflate(compressed []byte) ([]byte, error) {
	fr := flate.NewReader(byteReader{compressed})
	defer fr.Close()

	out := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := fr.Read(chunk)
		if n > 0 {
			if len(out)+n > maxInflateSize {
				return nil, errors.New("scratch arena exhausted")
			}
			out = append(out, chunk[:n]...)
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

type byteReader struct{ b []byte }

func (r byteReader) Read(p []byte) (int, error) {
	n := copy(p, r.b)
	if n == 0 {
		return 0, io.EOF
	}
	r.b = r.b[n:]
	return n, nil
}
