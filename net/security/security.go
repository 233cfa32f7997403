// Package security implements the SecuritySolver: an asynchronous client to
// an external oracle service that performs Continuum key-expansion and
// memory-checksum computations the game thread must not block on. Per the
// spec's concurrency model, the oracle owns a small worker pool; results are
// delivered through a channel that the game thread drains at the top of
// every tick, so Connection fields are never touched from a worker
// goroutine.
package security

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrOracleUnavailable is returned when a request cannot be dispatched
// because the oracle connection could not be established.
var ErrOracleUnavailable = errors.New("security: oracle unavailable")

// RequestKind distinguishes the two oracle operations the spec requires.
type RequestKind uint8

const (
	KindKeyExpansion RequestKind = iota
	KindExeChecksum
)

// Request is one unit of work sent to the oracle.
type Request struct {
	ID   uuid.UUID
	Kind RequestKind
	// Seed is the key2 value for KindKeyExpansion, or the checksum key for
	// KindExeChecksum.
	Seed uint32
}

// Response is the oracle's answer, correlated to its Request by ID.
type Response struct {
	ID        uuid.UUID
	Kind      RequestKind
	Table     [20]uint32 // valid for KindKeyExpansion
	Checksum  uint32     // valid for KindExeChecksum
	Err       error
}

// Dialer abstracts the TCP round-trip to the oracle so tests can substitute
// an in-memory stub instead of a real network dependency.
type Dialer interface {
	RoundTrip(ctx context.Context, req Request) (Response, error)
}

// TCPDialer is the default Dialer: one TCP connection per request to
// addr, encoding the request as {kind:u8, seed:u32} and decoding the
// response as {kind:u8, checksum_or_table...}.
type TCPDialer struct {
	Addr    string
	Timeout time.Duration
}

func (d TCPDialer) RoundTrip(ctx context.Context, req Request) (Response, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(dctx, "tcp", d.Addr)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	defer conn.Close()

	var out [5]byte
	out[0] = byte(req.Kind)
	binary.BigEndian.PutUint32(out[1:], req.Seed)
	if _, err := conn.Write(out[:]); err != nil {
		return Response{}, err
	}

	resp := Response{ID: req.ID, Kind: req.Kind}
	switch req.Kind {
	case KindKeyExpansion:
		var buf [80]byte
		if _, err := conn.Read(buf[:]); err != nil {
			return Response{}, err
		}
		for i := range resp.Table {
			resp.Table[i] = binary.BigEndian.Uint32(buf[i*4:])
		}
	case KindExeChecksum:
		var buf [4]byte
		if _, err := conn.Read(buf[:]); err != nil {
			return Response{}, err
		}
		resp.Checksum = binary.BigEndian.Uint32(buf[:])
	}
	return resp, nil
}

// Solver runs a bounded worker pool of oracle round-trips and hands results
// back on Results, which the game thread polls once per tick.
type Solver struct {
	dialer  Dialer
	log     *slog.Logger
	sem     *semaphore.Weighted
	results chan Response

	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
}

// Config configures a Solver.
type Config struct {
	Dialer      Dialer
	Log         *slog.Logger
	WorkerCount int
}

// New starts a Solver with the given configuration. The worker pool is
// bounded by WorkerCount (default 4) in-flight requests.
func New(cfg Config) *Solver {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	return &Solver{
		dialer:  cfg.Dialer,
		log:     cfg.Log,
		sem:     semaphore.NewWeighted(int64(cfg.WorkerCount)),
		results: make(chan Response, 32),
		group:   group,
		ctx:     gctx,
		cancel:  cancel,
	}
}

// Submit enqueues req for processing on the worker pool. It returns
// immediately; the result is delivered asynchronously on Results.
func (s *Solver) Submit(req Request) {
	s.group.Go(func() error {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			s.results <- Response{ID: req.ID, Kind: req.Kind, Err: err}
			return nil
		}
		defer s.sem.Release(1)

		resp, err := s.dialer.RoundTrip(s.ctx, req)
		if err != nil {
			s.log.Debug("security: oracle request failed", "kind", req.Kind, "err", err)
			resp = Response{ID: req.ID, Kind: req.Kind, Err: err}
		}
		select {
		case s.results <- resp:
		case <-s.ctx.Done():
		}
		return nil
	})
}

// Results is the channel the game thread drains at the top of each tick to
// pick up completed oracle work without ever touching Connection fields
// from a worker goroutine.
func (s *Solver) Results() <-chan Response { return s.results }

// Poll drains every response currently buffered, calling onResult for each.
// It never blocks.
func (s *Solver) Poll(onResult func(Response)) {
	for {
		select {
		case r := <-s.results:
			onResult(r)
		default:
			return
		}
	}
}

// Close stops accepting new work and waits for in-flight requests to
// settle.
func (s *Solver) Close() error {
	s.cancel()
	return s.group.Wait()
}
