package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

// Callback is a simple fire-and-forget lifecycle hook.
type Callback func(arg any)

// ShutdownProc is registered on the shutdown queue. It is called once
// during the notify pass (ctx carries no deadline) and again during
// the drain pass (ctx carries the wait timeout); a well-behaved
// implementation returns immediately on the second call if it already
// finished its work during the first.
type ShutdownProc func(ctx context.Context, arg any)

type entry struct {
	proc Callback
	arg  any
}

type shutdownEntry struct {
	proc ShutdownProc
	arg  any
}

// Queues holds the six callback lists a server runs through over its
// life: pre-startup, startup, signal, ready, shutdown, and exit.
type Queues struct {
	mu sync.Mutex

	preStartup []entry
	startup    []entry
	signal     []entry
	ready      []entry
	exit       []entry
	shutdown   []shutdownEntry

	shutdownPending  bool
	shutdownComplete bool
	shutdownDone     chan struct{}

	logger *slog.Logger
}

// New returns an empty set of callback queues. logger may be nil, in
// which case slog.Default() is used.
func New(logger *slog.Logger) *Queues {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queues{logger: logger}
}

func (q *Queues) appendFIFO(list *[]entry, proc Callback, arg any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shutdownPending {
		return coreerrors.ErrShutdownPending
	}
	*list = append(*list, entry{proc: proc, arg: arg})
	return nil
}

func (q *Queues) prependLIFO(list *[]entry, proc Callback, arg any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shutdownPending {
		return coreerrors.ErrShutdownPending
	}
	*list = append([]entry{{proc: proc, arg: arg}}, *list...)
	return nil
}

// RegisterAtPreStartup adds proc to the pre-startup queue, run in
// FIFO order once the configuration has been loaded but before the
// server starts accepting connections.
func (q *Queues) RegisterAtPreStartup(proc Callback, arg any) error {
	return q.appendFIFO(&q.preStartup, proc, arg)
}

// RegisterAtStartup adds proc to the startup queue, run in FIFO order
// just after the server begins listening for connections.
func (q *Queues) RegisterAtStartup(proc Callback, arg any) error {
	return q.appendFIFO(&q.startup, proc, arg)
}

// RegisterAtSignal adds proc to the signal queue, run in FIFO order
// when the process receives a reload signal.
func (q *Queues) RegisterAtSignal(proc Callback, arg any) error {
	return q.appendFIFO(&q.signal, proc, arg)
}

// RegisterAtReady adds proc to the ready queue, run in LIFO
// registration order (most recently registered runs first), each on
// its own goroutine, once the server is ready to serve.
func (q *Queues) RegisterAtReady(proc Callback, arg any) error {
	return q.prependLIFO(&q.ready, proc, arg)
}

// RegisterAtExit adds proc to the exit queue, run in LIFO registration
// order at process exit.
func (q *Queues) RegisterAtExit(proc Callback, arg any) error {
	return q.prependLIFO(&q.exit, proc, arg)
}

// RegisterAtShutdown adds proc to the shutdown queue, run in FIFO
// registration order by StartShutdown/WaitShutdown.
func (q *Queues) RegisterAtShutdown(proc ShutdownProc, arg any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shutdownPending {
		return coreerrors.ErrShutdownPending
	}
	q.shutdown = append(q.shutdown, shutdownEntry{proc: proc, arg: arg})
	return nil
}

func (q *Queues) run(name string, list []entry) {
	for _, e := range list {
		q.logger.Debug("lifecycle: callback", "queue", name)
		e.proc(e.arg)
	}
}

// RunPreStartupProcs runs the pre-startup queue.
func (q *Queues) RunPreStartupProcs() {
	q.mu.Lock()
	list := append([]entry(nil), q.preStartup...)
	q.mu.Unlock()
	q.run("prestartup", list)
}

// RunStartupProcs runs the startup queue.
func (q *Queues) RunStartupProcs() {
	q.mu.Lock()
	list := append([]entry(nil), q.startup...)
	q.mu.Unlock()
	q.run("startup", list)
}

// RunSignalProcs runs the signal queue.
func (q *Queues) RunSignalProcs() {
	q.mu.Lock()
	list := append([]entry(nil), q.signal...)
	q.mu.Unlock()
	q.run("signal", list)
}

// RunAtReadyProcs fires each ready callback on its own goroutine with
// panic recovery, so one misbehaving hook cannot wedge the others or
// crash the server.
func (q *Queues) RunAtReadyProcs() {
	q.mu.Lock()
	list := append([]entry(nil), q.ready...)
	q.mu.Unlock()

	for _, e := range list {
		e := e
		go func() {
			defer func() {
				if r := recover(); r != nil {
					q.logger.Error("lifecycle: ready callback panic", "error", r)
				}
			}()
			e.proc(e.arg)
		}()
	}
}

// RunAtExitProcs runs the exit queue sequentially, recovering panics
// so every registered callback gets a chance to run during a shutdown
// that is already underway.
func (q *Queues) RunAtExitProcs() {
	q.mu.Lock()
	list := append([]entry(nil), q.exit...)
	q.mu.Unlock()

	for _, e := range list {
		func() {
			defer func() {
				if r := recover(); r != nil {
					q.logger.Warn("lifecycle: exit callback panic", "error", r)
				}
			}()
			e.proc(e.arg)
		}()
	}
}

// StartShutdown marks the queues closed to new registrations and, if
// any shutdown callbacks are registered, launches a detached goroutine
// that notifies them (with a background context carrying no
// deadline) in registration-FIFO order. It returns immediately;
// WaitShutdown blocks until that notification pass has finished and
// then drains the callbacks a second time with the real deadline.
func (q *Queues) StartShutdown() {
	q.mu.Lock()
	if q.shutdownPending {
		q.mu.Unlock()
		return
	}
	q.shutdownPending = true
	list := append([]shutdownEntry(nil), q.shutdown...)
	q.shutdownDone = make(chan struct{})
	q.mu.Unlock()

	if len(list) == 0 {
		close(q.shutdownDone)
		q.mu.Lock()
		q.shutdownComplete = true
		q.mu.Unlock()
		return
	}

	go func() {
		for _, e := range list {
			q.logger.Debug("lifecycle: shutdown notify", "arg", e.arg)
			e.proc(context.Background(), e.arg)
		}
		q.mu.Lock()
		q.shutdownComplete = true
		q.mu.Unlock()
		close(q.shutdownDone)
	}()
}

// WaitShutdown waits for the notification pass started by
// StartShutdown to finish, then runs a second, concurrent drain pass
// over the same shutdown callbacks with a context carrying timeout as
// its deadline. It returns ErrShutdownTimeout if the notification pass
// itself does not finish within timeout; the drain pass is always
// given the same deadline regardless of how much of it the notify
// pass already consumed.
func (q *Queues) WaitShutdown(timeout time.Duration) error {
	q.mu.Lock()
	done := q.shutdownDone
	q.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-time.After(timeout):
		q.logger.Warn("lifecycle: timeout waiting for shutdown procs")
		return coreerrors.ErrShutdownTimeout
	}

	q.mu.Lock()
	list := append([]shutdownEntry(nil), q.shutdown...)
	q.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range list {
		e := e
		g.Go(func() error {
			e.proc(gctx, e.arg)
			return nil
		})
	}
	return g.Wait()
}

// ShutdownPending reports whether StartShutdown has been called.
func (q *Queues) ShutdownPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdownPending
}
