// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"runtime"
	"sync"
)

// minBandRows stops small images being split into bands so thin
// that starting goroutines costs more than the work
const minBandRows = 16

// workers returns the number of goroutines to split per-pixel work
// over
func workers() int {
	return runtime.GOMAXPROCS(0)
}

// inBands splits the rows 0 to height into contiguous bands and
// calls fn on each band concurrently, returning once every band is
// done. Each call must only write to its own rows.
func inBands(height int, fn func(start, end int)) {
	n := workers()
	if max := height / minBandRows; n > max {
		n = max
	}
	if n < 2 {
		fn(0, height)
		return
	}

	rows := (height + n - 1) / n
	var wg sync.WaitGroup
	for start := 0; start < height; start += rows {
		end := start + rows
		if end > height {
			end = height
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
