// Package testutil provides deterministic test doubles for the simulation
// core: a scripted random source and a buffering narration emitter.
package testutil

import "sync"

// ScriptedSource is an rng.Source returning pre-programmed values. Intn pops
// the next scripted int modulo n; Float64 pops the next scripted float.
// Exhausted scripts return zero, which selects the first element of any pool
// and succeeds any probability check.
type ScriptedSource struct {
	Ints   []int
	Floats []float64

	i, f int
}

// Intn returns the next scripted value modulo n.
//
// Precondition: n > 0.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	if s.i >= len(s.Ints) {
		return 0
	}
	v := s.Ints[s.i] % n
	s.i++
	return v
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	if s.f >= len(s.Floats) {
		return 0
	}
	v := s.Floats[s.f]
	s.f++
	return v
}

// BufferEmitter collects narration lines for assertions.
type BufferEmitter struct {
	mu    sync.Mutex
	lines []string
}

// Emit appends one line.
func (b *BufferEmitter) Emit(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, msg)
}

// Lines returns a copy of all emitted lines.
func (b *BufferEmitter) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Reset clears collected lines.
func (b *BufferEmitter) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}
