package testutil

import (
	"errors"
	"sync"

	dErrors "broker/pkg/domain-errors"
)

// Outcomes tallies the results of a concurrent run. Domain errors are counted
// per code; anything else is Untyped.
type Outcomes struct {
	Successes int32
	Untyped   int32
	ByCode    map[dErrors.Code]int32
}

// Total is the number of calls that returned.
func (o *Outcomes) Total() int32 {
	total := o.Successes + o.Untyped
	for _, n := range o.ByCode {
		total += n
	}
	return total
}

// Count returns how many calls failed with code.
func (o *Outcomes) Count(code dErrors.Code) int32 {
	return o.ByCode[code]
}

// RunConcurrent calls fn from n goroutines released together and tallies the
// results. Rate-limit and not-found races show up as separate codes, so tests
// can assert on them without collecting every error.
func RunConcurrent(n int, fn func(idx int) error) *Outcomes {
	out := &Outcomes{ByCode: make(map[dErrors.Code]int32)}
	var mu sync.Mutex
	run(n, fn, func(err error) {
		mu.Lock()
		defer mu.Unlock()
		var de *dErrors.Error
		switch {
		case err == nil:
			out.Successes++
		case errors.As(err, &de):
			out.ByCode[de.Code]++
		default:
			out.Untyped++
		}
	})
	return out
}

// RunConcurrentCollect is RunConcurrent for callers that need the errors themselves.
func RunConcurrentCollect(n int, fn func(idx int) error) (successes int32, errs []error) {
	var mu sync.Mutex
	run(n, fn, func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		successes++
	})
	return successes, errs
}

// run holds every goroutine on a shared start signal so calls overlap as much
// as the scheduler allows.
func run(n int, fn func(idx int) error, record func(error)) {
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			<-start
			record(fn(i))
		}()
	}
	close(start)
	wg.Wait()
}
