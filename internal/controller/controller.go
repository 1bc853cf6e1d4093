// Package controller drives the lookahead execution loop: analyze the
// circuit once, then for each gate prefetch L gates ahead, reap
// completions, and dispatch the current gate to its kernel. It also
// caches the schedule by structural hash across repeated invocations of
// the same circuit topology, which is the common case for variational
// algorithms that only vary gate parameters between runs.
package controller

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"qpaging/internal/circuit"
	"qpaging/internal/errs"
	"qpaging/internal/ioring"
	"qpaging/internal/kernels"
	"qpaging/internal/memmgr"
	"qpaging/internal/schedule"
)

/// Config holds a Controller's fixed configuration.
type Config struct {
	NumQubits     int
	BackingPath   string
	LookaheadDepth int
	QueueDepth    int // I/O engine submission queue depth, power of two
}

/// Controller orchestrates one state vector's lifetime: construction of
/// the memory manager, repeated run_circuit invocations against it, and
/// checkpointing. At most one run_circuit executes at a time.
type Controller struct {
	cfg Config
	log *slog.Logger

	runMu sync.Mutex

	mgr  *memmgr.Manager
	pool *kernels.Pool

	cacheMu       sync.Mutex
	cacheHash     [32]byte
	cacheValid    bool
	cacheSchedule schedule.Schedule
}

/// New builds a Controller with the given configuration. It does not
/// touch the filesystem; call Initialize before RunCircuit.
func New(cfg Config, logger *slog.Logger) *Controller {
	if cfg.LookaheadDepth <= 0 {
		cfg.LookaheadDepth = 4
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 128
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{cfg: cfg, log: logger}
}

/// Initialize constructs the Memory Manager and the kernel worker pool.
/// The Memory Manager lives from here until the Controller is closed.
func (c *Controller) Initialize() error {
	mgr, err := memmgr.New(c.cfg.NumQubits, c.cfg.BackingPath)
	if err != nil {
		return err
	}
	c.mgr = mgr
	c.pool = kernels.NewPool()
	simd := kernels.DetectSIMD()
	c.log.Info("memory manager initialized",
		"path", c.cfg.BackingPath,
		"num_qubits", c.cfg.NumQubits,
		"num_pages", mgr.NumPages(),
		"arch", simd.Arch, "avx2", simd.AVX2, "fma", simd.FMA, "neon", simd.NEON)
	return nil
}

/// Close flushes and releases the Memory Manager. Safe to call once the
/// Controller is no longer needed.
func (c *Controller) Close() error {
	if c.mgr == nil {
		return nil
	}
	err := c.mgr.Close()
	c.mgr = nil
	return err
}

/// Region exposes the mapped state vector for callers that need to
/// seed an initial state or inspect the result (out of this design's
/// scope proper, but necessary for any host binding).
func (c *Controller) Region() ([]byte, error) {
	if c.mgr == nil {
		return nil, errs.PreconditionErr("controller.Region: not initialized")
	}
	return c.mgr.Region(), nil
}

/// RunCircuit executes gates against the initialized state vector:
/// compute or reuse the cached schedule, then loop issuing lookahead
/// prefetches, reaping completions, and dispatching each gate in turn.
/// The returned values are reserved, per the host-language surface —
/// real bindings report expectation values or measurement samples on
/// top of this engine; this revision returns an empty slice.
func (c *Controller) RunCircuit(gates []circuit.Gate) ([]float64, error) {
	if c.mgr == nil {
		return nil, errs.PreconditionErr("controller.RunCircuit: not initialized")
	}
	if err := circuit.Validate(c.cfg.NumQubits, gates); err != nil {
		return nil, err
	}

	c.runMu.Lock()
	defer c.runMu.Unlock()

	sched, hit := c.scheduleFor(gates)
	c.log.Debug("schedule resolved", "gates", len(gates), "cache_hit", hit)

	engine, err := ioring.New(c.cfg.QueueDepth)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	region := c.mgr.Region()
	L := c.cfg.LookaheadDepth
	G := len(gates)

	for i := 0; i < G; i++ {
		if i+L < G {
			bm := sched.At(i + L)
			if !bm.Empty() {
				if _, err := engine.SubmitPrefetch(bm, region, c.mgr); err != nil {
					// Mid-run prefetch failures are non-fatal: demand
					// paging still produces a correct result.
					c.log.Warn("prefetch submission failed", "gate", i + L, "err", err)
				}
			}
		}
		engine.ReapCompletions()

		if err := c.pool.Apply(region, gates[i]); err != nil {
			return nil, errs.InputErr("controller.RunCircuit.dispatch", err)
		}
	}

	if misses := engine.AdvisoryMisses(); misses > 0 {
		c.log.Warn("prefetch advisories missed", "count", misses)
	}

	return make([]float64, 0), nil
}

// scheduleFor returns the schedule for gates, reusing the cached one
// when the structural hash (name, targets only — not params) matches
// the previous invocation.
func (c *Controller) scheduleFor(gates []circuit.Gate) (schedule.Schedule, bool) {
	hash := circuit.StructuralHash(gates)

	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	if c.cacheValid && hash == c.cacheHash {
		return c.cacheSchedule, true
	}
	sched := schedule.Build(c.cfg.NumQubits, gates)
	c.cacheHash = hash
	c.cacheSchedule = sched
	c.cacheValid = true
	return sched, false
}

/// Checkpoint flushes the mapping and copies the backing file to dest.
/// It tries a reflink (FICLONE) first so same-filesystem checkpoints
/// are near-instant copy-on-write; if that's unsupported (different
/// filesystem, or one that lacks reflink) it falls back to a plain copy.
func (c *Controller) Checkpoint(dest string) error {
	if c.mgr == nil {
		return errs.PreconditionErr("controller.Checkpoint: not initialized")
	}
	if err := c.mgr.Flush(); err != nil {
		return err
	}

	src, err := os.Open(c.mgr.Path())
	if err != nil {
		return errs.IOErr("controller.Checkpoint.open", c.mgr.Path(), err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.IOErr("controller.Checkpoint.create", dest, err)
	}
	defer dst.Close()

	if err := unix.IoctlFileClone(int(dst.Fd()), int(src.Fd())); err == nil {
		return nil
	}
	// Reflink unsupported (cross-filesystem, or a filesystem without
	// FICLONE support): fall back to a byte-for-byte copy.
	if _, err := io.Copy(dst, src); err != nil {
		return errs.IOErr("controller.Checkpoint.copy", dest, err)
	}
	return nil
}
