package ioring

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"qpaging/internal/errs"
	"qpaging/internal/schedule"
	"qpaging/internal/vmpage"
)

/// Residency lets the engine record, after a successful prefetch, which
/// pages the memory manager should now consider wanted. Satisfied by
/// *memmgr.Manager without either package importing the other.
type Residency interface {
	MarkWanted(page int)
}

type completion struct {
	err error
}

/// Engine accepts per-gate page bitmaps, coalesces their set bits into
/// contiguous runs, and issues one non-blocking advisory per run. It
/// owns a bounded submission/completion ring for its whole lifetime;
/// construct one per run_circuit invocation.
type Engine struct {
	mu       sync.Mutex
	ring     *descriptorRing
	pending  chan completion
	depth    int
	missCnt  int64
	inflight sync.WaitGroup
}

/// New constructs an Engine with the given queue depth, which must be a
/// positive power of two.
func New(queueDepth int) (*Engine, error) {
	if queueDepth <= 0 || queueDepth&(queueDepth-1) != 0 {
		return nil, errs.IOErr("ioring.New", "", fmt.Errorf("queue depth %d is not a positive power of two", queueDepth))
	}
	return &Engine{
		ring:    newDescriptorRing(queueDepth),
		pending: make(chan completion, queueDepth),
		depth:   queueDepth,
	}, nil
}

/// SubmitPrefetch issues advisories bringing into RAM exactly the pages
/// set in bm, against region. It coalesces maximal runs of consecutive
/// set pages into one advisory each and returns the number issued. The
/// empty bitmap issues zero advisories.
func (e *Engine) SubmitPrefetch(bm schedule.PageBitmap, region []byte, res Residency) (int, error) {
	pages := bm.Pages()
	runs := coalesce(pages)
	for _, r := range runs {
		if err := e.submitOne(r, region, res); err != nil {
			return 0, err
		}
	}
	return len(runs), nil
}

func (e *Engine) submitOne(r run, region []byte, res Residency) error {
	e.mu.Lock()
	if e.ring.full() {
		e.mu.Unlock()
		if !e.forceDrainOne() {
			return errs.IOErr("ioring.submitOne", "", fmt.Errorf("submission queue full (depth %d)", e.depth))
		}
		e.mu.Lock()
		if e.ring.full() {
			e.mu.Unlock()
			return errs.IOErr("ioring.submitOne", "", fmt.Errorf("submission queue full after forced drain (depth %d)", e.depth))
		}
	}
	e.ring.push(advisory{startPage: r.start, count: r.count})
	e.mu.Unlock()

	start := r.start * vmpage.PageSize
	end := start + r.count*vmpage.PageSize
	if end > len(region) {
		end = len(region)
	}
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		err := unix.Madvise(region[start:end], unix.MADV_WILLNEED)
		if err == nil && res != nil {
			for p := r.start; p < r.start+r.count; p++ {
				res.MarkWanted(p)
			}
		}
		e.pending <- completion{err: err}
	}()
	return nil
}

// forceDrainOne blocks for the next in-flight completion and retires
// its ring slot. Called only when the ring is observed full, so a
// completion is guaranteed to be outstanding.
func (e *Engine) forceDrainOne() bool {
	c, ok := <-e.pending
	if !ok {
		return false
	}
	e.mu.Lock()
	if !e.ring.empty() {
		e.ring.pop()
	}
	e.mu.Unlock()
	if c.err != nil {
		atomic.AddInt64(&e.missCnt, 1)
	}
	return true
}

/// ReapCompletions drains all completions currently ready without
/// blocking and returns the number drained. Individual advisory errors
/// are counted as advisory misses, never retried at this layer: the
/// subsequent compute access will demand-fault and still be correct.
func (e *Engine) ReapCompletions() int {
	drained := 0
	for {
		select {
		case c := <-e.pending:
			e.mu.Lock()
			if !e.ring.empty() {
				e.ring.pop()
			}
			e.mu.Unlock()
			drained++
			if c.err != nil {
				atomic.AddInt64(&e.missCnt, 1)
			}
		default:
			return drained
		}
	}
}

/// AdvisoryMisses returns the running count of prefetch advisories that
/// completed with an error. Never fatal; informational only.
func (e *Engine) AdvisoryMisses() int64 {
	return atomic.LoadInt64(&e.missCnt)
}

/// Close waits for all in-flight advisories to complete and drains the
/// ring, releasing it. This is the "drop the I/O Engine" step at the end
/// of run_circuit.
func (e *Engine) Close() {
	e.inflight.Wait()
	for e.ReapCompletions() > 0 {
	}
}
