// Package memmgr implements the Memory Manager: it owns a file-backed
// mapping of the state vector and advises the OS on page residency.
// The mapping is the sole route by which kernels and the I/O engine ever
// touch the state vector; this package is the single flush-and-release
// point for it.
//
// Grounded on the teacher's Physmem_t/Dmap direct-map bookkeeping
// (biscuit/src/mem/mem.go) and reworked from a physical-frame allocator
// into a single mmap'd region with a hint bitmap instead of refcounted
// frames — there is exactly one mapping here, not a pool of them.
package memmgr

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"qpaging/internal/errs"
	"qpaging/internal/vmpage"
)

/// Manager owns the open file handle and the mapping for one state
/// vector. Both live for the Manager's entire lifetime; Close flushes
/// dirty pages before unmapping.
type Manager struct {
	mu        sync.Mutex
	file      *os.File
	region    []byte
	numQubits int
	numPages  int
	resident  []bool
}

/// New opens or creates the file at path, extends it to exactly
/// 2^numQubits * 16 bytes, maps the whole file read/write, and advises
/// the OS that access will be random (deterministic prefetch makes the
/// kernel's own read-ahead heuristics counterproductive).
func New(numQubits int, path string) (*Manager, error) {
	size := vmpage.TotalBytes(numQubits)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errs.IOErr("memmgr.New.open", path, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, errs.IOErr("memmgr.New.truncate", path, err)
	}

	region, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errs.IOErr("memmgr.New.mmap", path, err)
	}
	if err := unix.Madvise(region, unix.MADV_RANDOM); err != nil {
		// Advisory only: failure to suppress read-ahead doesn't block
		// construction, it just leaves the kernel's own heuristic active.
		_ = err
	}

	npage := vmpage.TotalPages(numQubits)
	resident := make([]bool, npage)
	for i := range resident {
		resident[i] = true
	}

	return &Manager{
		file:      f,
		region:    region,
		numQubits: numQubits,
		numPages:  npage,
		resident:  resident,
	}, nil
}

/// Region returns the mutable byte region backing the state vector, for
/// kernels to reinterpret as a complex128 array.
func (m *Manager) Region() []byte { return m.region }

/// NumPages returns the total page count of the mapping.
func (m *Manager) NumPages() int { return m.numPages }

/// Resident reports the manager's last-advised residency hint for page
/// p. It is a hint, not ground truth: the OS may evict or fault the
/// page in independently of this bit.
func (m *Manager) Resident(p int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resident[p]
}

/// MarkWanted records that page p was just advised WILLNEED, so a later
/// Evict knows there is something to undo. Called by the I/O engine
/// once a prefetch advisory has completed without error.
func (m *Manager) MarkWanted(p int) {
	m.mu.Lock()
	m.resident[p] = true
	m.mu.Unlock()
}

/// Evict advises the OS to discard page p and clears its residency bit.
/// Infallible: a failed advisory is a no-op, since the advisory is only
/// ever a hint and the residency bit still needs to flip so repeated
/// Evict calls on the same page stay idempotent.
func (m *Manager) Evict(p int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resident[p] {
		return
	}
	start := p * vmpage.PageSize
	end := start + vmpage.PageSize
	if end > len(m.region) {
		end = len(m.region)
	}
	_ = unix.Madvise(m.region[start:end], unix.MADV_DONTNEED)
	m.resident[p] = false
}

/// Flush synchronously writes dirty pages back to the backing file.
func (m *Manager) Flush() error {
	if err := unix.Msync(m.region, unix.MS_SYNC); err != nil {
		return errs.IOErr("memmgr.Flush", m.file.Name(), err)
	}
	return nil
}

/// Close flushes the mapping, unmaps it, and closes the file. It is the
/// single teardown point for the region the I/O engine and kernels
/// borrow during their operations.
func (m *Manager) Close() error {
	flushErr := m.Flush()
	unmapErr := unix.Munmap(m.region)
	closeErr := m.file.Close()
	if flushErr != nil {
		return flushErr
	}
	if unmapErr != nil {
		return errs.IOErr("memmgr.Close.munmap", m.file.Name(), unmapErr)
	}
	if closeErr != nil {
		return errs.IOErr("memmgr.Close.close", m.file.Name(), closeErr)
	}
	return nil
}

/// Path returns the backing file's path, for checkpoint copies.
func (m *Manager) Path() string { return m.file.Name() }
