// Package rda implements the readdir-ahead prefetch cache: a per-fd
// state machine that fills a directory-entry buffer one fetch ahead of
// the caller and invalidates cached stats when a write races a fill in
// flight (spec.md §4.5 "Readdir-ahead cache", C8). Grounded on
// original_source/xlators/performance/readdir-ahead/src/readdir-ahead.c
// and its header's RDA_FD_* state bitmask.
package rda

// State is the per-fd bitmask readdir-ahead.h declares as RDA_FD_*.
type State uint32

const (
	StateNew     State = 1 << 0
	StateRunning State = 1 << 1
	StateEOD     State = 1 << 2
	StateError   State = 1 << 3
	StateBypass  State = 1 << 4
	StatePlugged State = 1 << 5
)

func (s State) Has(bit State) bool { return s&bit != 0 }
