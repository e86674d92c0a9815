package service

import (
	"math/rand/v2"
	"sync"
	"time"
)

// picker elige texto al azar; compartido entre requests, por eso el mutex.
type picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newPicker() *picker {
	seed := uint64(time.Now().UnixNano())
	return &picker{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *picker) choice(items []string) string {
	if len(items) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return items[p.rnd.IntN(len(items))]
}

// sample devuelve hasta k elementos distintos sin modificar items.
func (p *picker) sample(items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	p.mu.Lock()
	perm := p.rnd.Perm(len(items))
	p.mu.Unlock()

	out := make([]string, 0, k)
	for _, i := range perm[:k] {
		out = append(out, items[i])
	}
	return out
}
