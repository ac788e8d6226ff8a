package view

import (
	"context"
	"log/slog"
	"sync"

	"gametracker/pkg/logger"
)

// collection is the fetched slice owned by one list view.
//
// seq identifies the latest load; older results are dropped. rev counts local
// mutations; a load that started before a mutation committed is discarded and
// issued again so a stale snapshot never undoes a delete.
type collection[T any] struct {
	fetch func(context.Context) ([]T, error)
	idOf  func(T) string
	log   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	items   []T
	loading bool
	loadErr error
	seq     uint64
	rev     uint64
	closed  bool
}

func newCollection[T any](parent context.Context, fetch func(context.Context) ([]T, error), idOf func(T) string, log *slog.Logger) *collection[T] {
	ctx, cancel := context.WithCancel(parent)
	return &collection[T]{
		fetch:  fetch,
		idOf:   idOf,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *collection[T]) reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

func (c *collection[T]) startLocked() {
	if c.closed {
		return
	}
	c.seq++
	seq, rev := c.seq, c.rev
	c.loading = true
	c.loadErr = nil

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		items, err := c.fetch(c.ctx)
		c.finish(seq, rev, items, err)
	}()
}

func (c *collection[T]) finish(seq, rev uint64, items []T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.seq {
		return
	}
	if err == nil && rev != c.rev {
		c.log.Debug("load overtaken by a local change, reloading")
		c.startLocked()
		return
	}
	c.loading = false
	if err != nil {
		c.log.Error("load failed", logger.Err(err))
		c.loadErr = err
		return
	}
	c.items = items
}

// commitDelete removes id after the backend confirmed the deletion.
func (c *collection[T]) commitDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.idOf(item) != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.rev++
}

func (c *collection[T]) find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) state() (items []T, loading bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items = make([]T, len(c.items))
	copy(items, c.items)
	return items, c.loading, c.loadErr
}

// await blocks until no load is in flight.
func (c *collection[T]) await() {
	c.wg.Wait()
}

func (c *collection[T]) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}
