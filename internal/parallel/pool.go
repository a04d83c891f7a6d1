// Package parallel splits pixel work into horizontal bands and runs them on
// a shared pool of goroutines.
package parallel

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// MinBandRows is the smallest band handed to a worker. Short images run on
// the calling goroutine.
const MinBandRows = 32

// WorkerPool runs batches of work items on a fixed set of goroutines.
// Each worker owns a queue and steals from its neighbours when idle.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool. If workers is 0 or negative, GOMAXPROCS is
// used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), max(8, workers*4))
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
			continue
		default:
		}
		if work := p.steal(id); work != nil {
			work()
			continue
		}
		select {
		case <-p.done:
			drain(own)
			return
		case work := <-own:
			work()
		}
	}
}

func drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them. On a closed pool
// the items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		item := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- item:
		case <-p.done:
			item()
		}
	}
	wg.Wait()
}

// Rows splits r into horizontal bands and calls fn for each one. fn must
// only touch pixels inside the band it is given.
func (p *WorkerPool) Rows(r image.Rectangle, fn func(band image.Rectangle)) {
	if r.Empty() {
		return
	}
	bands := min(p.workers, r.Dy()/MinBandRows)
	if bands <= 1 {
		fn(r)
		return
	}

	work := make([]func(), 0, bands)
	step := (r.Dy() + bands - 1) / bands
	for y := r.Min.Y; y < r.Max.Y; y += step {
		band := image.Rect(r.Min.X, y, r.Max.X, min(y+step, r.Max.Y))
		work = append(work, func() { fn(band) })
	}
	p.ExecuteAll(work)
}

// Close finishes queued items and stops the workers. It must not race with
// ExecuteAll. Close is safe to call more than once.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of goroutines in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

var shared = sync.OnceValue(func() *WorkerPool { return NewWorkerPool(0) })

// Rows runs fn over bands of r on the process-wide pool.
func Rows(r image.Rectangle, fn func(band image.Rectangle)) {
	shared().Rows(r, fn)
}
