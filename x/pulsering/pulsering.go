// Package pulsering provides a fixed-size single-producer single-consumer
// buffer of IR line pulses. The producer is a pin interrupt handler, so the
// write path takes no locks and never blocks: when the ring is full, new
// pulses are dropped and counted rather than overwriting history.
package pulsering

import "sync/atomic"

// Pulse is one observed line period: the level and how long it held.
type Pulse struct {
	Mark  bool   // true = active (signal present)
	DurUS uint32 // duration in microseconds
}

type Ring struct {
	buf   []Pulse
	mask  uint32
	rd    atomic.Uint32 // consumer index (monotonic)
	wr    atomic.Uint32 // producer index (monotonic)
	drops atomic.Uint32
}

// New creates a ring. size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("pulsering: size must be power of two >= 2")
	}
	return &Ring{buf: make([]Pulse, size), mask: uint32(size - 1)}
}

// Push appends p from the producer side. Returns false (and counts a drop)
// when the ring is full.
func (r *Ring) Push(p Pulse) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr-rd >= uint32(len(r.buf)) {
		r.drops.Add(1)
		return false
	}
	r.buf[wr&r.mask] = p
	r.wr.Store(wr + 1) // release
	return true
}

// Pop removes the oldest pulse from the consumer side.
func (r *Ring) Pop() (Pulse, bool) {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr == rd {
		return Pulse{}, false
	}
	p := r.buf[rd&r.mask]
	r.rd.Store(rd + 1)
	return p, true
}

// Len reports how many pulses are buffered.
func (r *Ring) Len() int { return int(r.wr.Load() - r.rd.Load()) }

// Drops reports how many pulses were lost to a full ring.
func (r *Ring) Drops() uint32 { return r.drops.Load() }

// Reset discards buffered pulses. Consumer side only.
func (r *Ring) Reset() { r.rd.Store(r.wr.Load()) }
