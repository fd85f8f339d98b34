package event

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/naviserver-project/naviserver-sub001/internal/otelspan"
)

// SockState identifies why an event callback is being invoked,
// mirroring nsd/event.c's Ns_SockState.
type SockState int

const (
	// Init is always delivered first, right after Enqueue.
	Init SockState = iota
	Read
	Write
	Exception
	// Timeout fires when a registered deadline elapses before any
	// poll condition is met.
	Timeout
	// Exit is delivered to every still-waiting event when the queue
	// is torn down.
	Exit
)

// ID addresses one event slot in a Queue's fixed arena. The zero value
// is never a valid ID (arena indices start at 1) so a stored ID can be
// compared against the zero value to detect "no event".
type ID int

const nilID ID = 0

// Proc is the event callback. It runs on whatever goroutine calls
// RunOnce; within the callback it must call (*Queue).Callback to set
// the poll conditions (or timeout) that should govern whether and
// when it is called again, exactly as Ns_EventCallback does from
// within an event proc.
type Proc func(q *Queue, id ID, arg any, now time.Time, state SockState)

const (
	waitFlag = 1 << iota
	doneFlag
)

type slot struct {
	inUse   bool
	sock    int
	proc    Proc
	arg     any
	events  int16
	hasTO   bool
	timeout time.Time
	status  uint8
	next    ID
}

var pollMap = [...]struct {
	when  SockState
	event int16
}{
	{Exception, unix.POLLPRI},
	{Write, unix.POLLOUT},
	{Read, unix.POLLIN},
}

// Queue is an event-driven I/O queue. All public methods are safe to
// call from any goroutine; RunOnce itself is intended to be driven by
// a single dedicated goroutine, matching the cooperative single-threaded
// design of the original poll loop.
type Queue struct {
	mu        sync.Mutex
	slots     []slot
	firstInit ID
	firstWait ID
	firstFree ID

	wakeR *os.File
	wakeW *os.File
}

// NewQueue allocates a fixed arena of maxEvents slots and a wake-up
// pipe used by Trigger to break RunOnce out of a blocking poll.
func NewQueue(maxEvents int) (*Queue, error) {
	if maxEvents <= 0 {
		maxEvents = 1
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	q := &Queue{
		slots: make([]slot, maxEvents+1), // index 0 unused; ids are 1-based
		wakeR: r,
		wakeW: w,
	}
	for i := 1; i < len(q.slots)-1; i++ {
		q.slots[i].next = ID(i + 1)
	}
	if len(q.slots) > 1 {
		q.slots[len(q.slots)-1].next = nilID
		q.firstFree = 1
	}
	return q, nil
}

// Enqueue registers sock with proc/arg, returning its ID and true, or
// false if the arena is full, matching Ns_EventEnqueue.
func (q *Queue) Enqueue(sock int, proc Proc, arg any) (ID, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.firstFree
	if id == nilID {
		return nilID, false
	}
	q.firstFree = q.slots[id].next

	s := &q.slots[id]
	s.inUse = true
	s.sock = sock
	s.proc = proc
	s.arg = arg
	s.events = 0
	s.hasTO = false
	s.status = 0
	s.next = q.firstInit
	q.firstInit = id
	return id, true
}

// Callback sets the poll conditions (and optional timeout) an event
// should wait on, called by an event's own Proc, matching
// Ns_EventCallback. A zero timeout (time.Time{}) leaves any previously
// set deadline in place.
func (q *Queue) Callback(id ID, when SockState, timeout time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if id == nilID || int(id) >= len(q.slots) || !q.slots[id].inUse {
		return
	}
	s := &q.slots[id]

	s.events = 0
	for _, m := range pollMap {
		if when == m.when {
			s.events |= m.event
		}
	}

	if !timeout.IsZero() {
		s.timeout = timeout
		s.hasTO = true
	}

	if s.events != 0 || s.hasTO {
		s.status = waitFlag
	} else {
		s.status = doneFlag
	}
}

func (q *Queue) call(id ID, now time.Time, when SockState) {
	s := &q.slots[id]
	s.proc(q, id, s.arg, now, when)
}

// RunOnce runs one iteration of the poll loop: it initializes freshly
// enqueued events, polls every waiting socket plus the wake-up pipe,
// and dispatches ready/timed-out callbacks. It returns true if any
// event remains on the wait list afterward, matching Ns_RunEventQueue's
// boolean result.
func (q *Queue) RunOnce(maxWait time.Duration) (bool, error) {
	now := time.Now()

	q.mu.Lock()
	for q.firstInit != nilID {
		id := q.firstInit
		q.firstInit = q.slots[id].next
		q.mu.Unlock()
		q.call(id, now, Init)
		q.mu.Lock()
		// A callback that requested waiting joins the wait list for
		// this same poll cycle; one that finished immediately (or
		// never called Callback at all) is freed right away.
		if q.slots[id].status == waitFlag {
			q.slots[id].next = q.firstWait
			q.firstWait = id
		} else {
			q.slots[id].inUse = false
			q.slots[id].next = q.firstFree
			q.firstFree = id
		}
	}

	type waiter struct {
		id  ID
		idx int
	}
	var waiters []waiter
	fds := []unix.PollFd{{Fd: int32(q.fd(q.wakeR)), Events: unix.POLLIN}}

	deadline := now.Add(maxWait)
	haveDeadline := maxWait >= 0

	id := q.firstWait
	for id != nilID {
		s := &q.slots[id]
		fds = append(fds, unix.PollFd{Fd: int32(s.sock), Events: s.events})
		waiters = append(waiters, waiter{id: id, idx: len(fds) - 1})
		if s.hasTO && (!haveDeadline || s.timeout.Before(deadline)) {
			deadline = s.timeout
			haveDeadline = true
		}
		id = s.next
	}
	q.mu.Unlock()

	timeoutMs := -1
	if haveDeadline {
		d := time.Until(deadline)
		if d < 0 {
			d = 0
		}
		timeoutMs = int(d.Milliseconds())
	}

	_, err := unix.Poll(fds, timeoutMs)
	if err != nil && err != unix.EINTR {
		return false, err
	}

	if fds[0].Revents&unix.POLLIN != 0 {
		var b [1]byte
		_, _ = q.wakeR.Read(b[:])
	}

	now = time.Now()

	for _, w := range waiters {
		s := &q.slots[w.id]
		revents := fds[w.idx].Revents
		if revents&unix.POLLHUP != 0 {
			revents |= unix.POLLIN
		}

		switch {
		case revents != 0:
			for _, m := range pollMap {
				if revents&m.event != 0 {
					q.call(w.id, now, m.when)
				}
			}
		case s.hasTO && s.timeout.Before(now):
			q.call(w.id, now, Timeout)
		}
	}

	q.mu.Lock()
	q.firstWait = nilID
	for _, w := range waiters {
		s := &q.slots[w.id]
		if s.status == waitFlag {
			s.next = q.firstWait
			q.firstWait = w.id
		} else {
			s.inUse = false
			s.next = q.firstFree
			q.firstFree = w.id
		}
	}
	remaining := q.firstWait != nilID
	q.mu.Unlock()

	return remaining, nil
}

// RunOnceTraced wraps RunOnce with a span covering the full drain
// cycle, for callers running their poll loop under a traced context.
// RunOnce itself stays context-free since the poll cycle it implements
// has no per-call deadline concept of its own beyond maxWait.
func (q *Queue) RunOnceTraced(ctx context.Context, maxWait time.Duration) (remaining bool, err error) {
	_, span := otelspan.Start(ctx, "event", "Queue.RunOnce")
	defer func() { otelspan.End(span, err) }()
	return q.RunOnce(maxWait)
}

// Trigger wakes a blocked RunOnce call, matching Ns_TriggerEventQueue.
func (q *Queue) Trigger() error {
	_, err := q.wakeW.Write([]byte{0})
	return err
}

// Exit delivers Exit to every event still on the wait list, matching
// Ns_ExitEventQueue. It does not return those slots to the free list,
// since a queue receiving Exit is being torn down.
func (q *Queue) Exit() {
	now := time.Now()
	q.mu.Lock()
	id := q.firstWait
	q.firstWait = nilID
	q.mu.Unlock()

	for id != nilID {
		next := q.slots[id].next
		q.call(id, now, Exit)
		id = next
	}
}

// Close releases the wake-up pipe.
func (q *Queue) Close() error {
	werr := q.wakeW.Close()
	rerr := q.wakeR.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

func (q *Queue) fd(f *os.File) int {
	return int(f.Fd())
}
