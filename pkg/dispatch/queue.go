// Package dispatch searches spectra in parallel
package dispatch

import (
	"sync"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
)

// Queue is a pre-populated work queue shared by workers
type Queue struct {
	mu    sync.Mutex
	items []*core.Spectrum
}

// NewQueue creates a queue holding the spectra in order
func NewQueue(spectra []*core.Spectrum) *Queue {
	items := make([]*core.Spectrum, len(spectra))
	copy(items, spectra)
	return &Queue{items: items}
}

// TryPop removes the next spectrum. ok is false once the queue is drained.
func (q *Queue) TryPop() (s *core.Spectrum, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	s = q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return s, true
}

// Len returns the number of spectra left
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
