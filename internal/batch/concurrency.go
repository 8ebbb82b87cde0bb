// internal/batch/concurrency.go
package batch

import (
	"runtime"
)

// OptimalConcurrency sizes the worker pool for a proxy pool of the given
// size. Workers never outnumber endpoints, so no endpoint is asked to serve
// two targets at once in the common case.
func OptimalConcurrency(endpoints int) int {
	numCPU := runtime.NumCPU()

	// Fetching is I/O bound
	optimal := numCPU * 3
	if optimal > 50 {
		optimal = 50
	}

	if endpoints > 0 && endpoints < optimal {
		optimal = endpoints
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}
