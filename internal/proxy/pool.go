package proxy

import (
	"math/rand/v2"
	"strings"
)

// Excluded is the set of endpoints already tried for one target
type Excluded map[string]struct{}

// Add marks an endpoint as tried
func (e Excluded) Add(endpoint string) {
	e[endpoint] = struct{}{}
}

// Has reports whether the endpoint was already tried
func (e Excluded) Has(endpoint string) bool {
	_, ok := e[endpoint]
	return ok
}

// Pool holds a fixed list of proxy endpoints.
//
// The list is never mutated after construction, so a Pool may be shared by
// any number of goroutines as long as each keeps its own Excluded set.
type Pool struct {
	endpoints []string
}

// NewPool creates a Pool from the configured endpoints, dropping blanks and duplicates
func NewPool(endpoints []string) *Pool {
	seen := make(map[string]bool, len(endpoints))
	list := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		ep = strings.TrimSpace(ep)
		if ep == "" || seen[ep] {
			continue
		}
		seen[ep] = true
		list = append(list, ep)
	}
	return &Pool{endpoints: list}
}

// Pick returns a uniformly random endpoint that is not in excluded.
// It returns false once every endpoint has been excluded.
func (p *Pool) Pick(excluded Excluded) (string, bool) {
	available := make([]string, 0, len(p.endpoints))
	for _, ep := range p.endpoints {
		if !excluded.Has(ep) {
			available = append(available, ep)
		}
	}

	if len(available) == 0 {
		return "", false
	}
	return available[rand.IntN(len(available))], true
}

// Len returns the number of endpoints in the pool
func (p *Pool) Len() int {
	return len(p.endpoints)
}

// Endpoints returns a copy of the endpoint list
func (p *Pool) Endpoints() []string {
	out := make([]string, len(p.endpoints))
	copy(out, p.endpoints)
	return out
}
