// Package session implements the single-threaded, cooperative event
// loop: it multiplexes I/O readiness across heterogeneous device
// handles with golang.org/x/sys/unix.Poll and fans datafeed packets
// out to subscribers synchronously, in subscription order.
//
// The wake-up-on-readiness idiom below is the classic producer/single-
// consumer wait queue: a producer arms a wait and a single consumer
// drains it without spinning. Here the "queue" is the poll set itself
// and the "wake up" is Poll returning.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/wk2xx/scopecore/datafeed"
	"github.com/wk2xx/scopecore/instrument"
)

// Events is the subset of poll(2) event bits a source cares about.
type Events int16

const (
	EventReadable Events = unix.POLLIN
	EventWritable Events = unix.POLLOUT
)

// Infinite and PollOnly are the two timeout sentinels callers reach for
// by name; any other value is milliseconds.
const (
	Infinite = -1
	PollOnly = 0
)

// Callback is invoked when a source is ready, or when its own timeout
// elapses (ready is 0 in that case). Returning false requests the
// source be removed after this call.
type Callback func(ctx any, ready Events) (bool, error)

// Handle is anything source_add can register: a file descriptor or
// transport handle that owns one.
type Handle interface {
	Fd() int
}

type source struct {
	handle    Handle
	events    Events
	timeoutMs int
	deadline  time.Time // zero if timeoutMs is Infinite
	cb        Callback
	ctx       any
}

func (src *source) arm(now time.Time) {
	if src.timeoutMs < 0 {
		src.deadline = time.Time{}
		return
	}
	src.deadline = now.Add(time.Duration(src.timeoutMs) * time.Millisecond)
}

// DatafeedCallback receives one packet for one device, in emission
// order, synchronously.
type DatafeedCallback func(inst *instrument.Instance, pkt datafeed.Packet, ctx any)

type subscriber struct {
	id  int
	cb  DatafeedCallback
	ctx any
}

// Session owns the registered sources and datafeed subscribers for
// one acquisition run.
type Session struct {
	log *log.Logger

	sources   map[int]*source // keyed by Fd
	order     []int           // registration order, by Fd
	subs      []subscriber
	nextSubID int

	stopping bool
}

// New returns an empty session ready for SourceAdd/DatafeedSubscribe.
func New() *Session {
	return &Session{
		log:     log.With("component", "session"),
		sources: make(map[int]*source),
	}
}

// SourceAdd registers a new source. A duplicate handle (same Fd)
// replaces the existing registration rather than adding a second one,
// and keeps that fd's place in dispatch order.
func (s *Session) SourceAdd(handle Handle, events Events, timeoutMs int, cb Callback, ctx any) {
	fd := handle.Fd()
	src := &source{handle: handle, events: events, timeoutMs: timeoutMs, cb: cb, ctx: ctx}
	src.arm(time.Now())
	if _, exists := s.sources[fd]; !exists {
		s.order = append(s.order, fd)
	}
	s.sources[fd] = src
}

// SourceRemove unregisters a source. It errors if fd isn't present.
func (s *Session) SourceRemove(handle Handle) error {
	return s.removeFd(handle.Fd())
}

// Rearm changes an already-registered source's timeout in place
// (e.g. the OLS engine switching from an infinite wait to a 30ms
// silence timeout after its first byte) without disturbing its
// position in dispatch order or triggering a remove/re-add cycle.
func (s *Session) Rearm(handle Handle, timeoutMs int) error {
	src, ok := s.sources[handle.Fd()]
	if !ok {
		return fmt.Errorf("session: source %d not registered", handle.Fd())
	}
	src.timeoutMs = timeoutMs
	src.arm(time.Now())
	return nil
}

func (s *Session) removeFd(fd int) error {
	if _, ok := s.sources[fd]; !ok {
		return fmt.Errorf("session: source %d not registered", fd)
	}
	delete(s.sources, fd)
	for i, f := range s.order {
		if f == fd {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DatafeedSubscribe registers cb to receive every packet sent via
// Send, in subscription order relative to other subscribers.
func (s *Session) DatafeedSubscribe(cb DatafeedCallback, ctx any) int {
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscriber{id: id, cb: cb, ctx: ctx})
	return id
}

// DatafeedUnsubscribe removes a subscription added by DatafeedSubscribe.
func (s *Session) DatafeedUnsubscribe(id int) {
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Send invokes every subscriber synchronously, in subscription order.
// A subscriber must not call back into Run/SourceAdd/SourceRemove from
// within its callback.
func (s *Session) Send(inst *instrument.Instance, pkt datafeed.Packet) {
	for _, sub := range s.subs {
		sub.cb(inst, pkt, sub.ctx)
	}
}

// Stop marks the loop for termination. Run drains the sources ready in
// its current iteration, then returns.
func (s *Session) Stop() {
	s.stopping = true
}

// Run loops while any source exists and Stop hasn't been called,
// waiting on the nearest deadline across registered sources and
// dispatching each source that is either ready or past its own
// deadline, in registration order. A callback returning false
// requests removal; a callback returning an error is logged and the
// loop continues.
func (s *Session) Run(ctx context.Context) error {
	for !s.stopping && len(s.sources) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runOnce(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) runOnce() error {
	now := time.Now()
	fds := make([]unix.PollFd, 0, len(s.order))
	waitMs := -1
	for _, fd := range s.order {
		src := s.sources[fd]
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: int16(src.events)})
		if src.deadline.IsZero() {
			continue
		}
		remaining := int(src.deadline.Sub(now) / time.Millisecond)
		if remaining < 0 {
			remaining = 0
		}
		if waitMs < 0 || remaining < waitMs {
			waitMs = remaining
		}
	}

	if len(fds) > 0 {
		_, err := unix.Poll(fds, waitMs)
		if err != nil && err != unix.EINTR {
			return fmt.Errorf("session: poll: %w", err)
		}
	} else if waitMs > 0 {
		time.Sleep(time.Duration(waitMs) * time.Millisecond)
	}

	now = time.Now()
	ready := make(map[int]Events, len(fds))
	for _, pfd := range fds {
		if pfd.Revents != 0 {
			ready[int(pfd.Fd)] = Events(pfd.Revents)
		}
	}

	var toRemove []int
	for _, fd := range s.order {
		src, ok := s.sources[fd]
		if !ok {
			continue
		}
		r, isReady := ready[fd]
		timedOut := !src.deadline.IsZero() && !now.Before(src.deadline)
		if !isReady && !timedOut {
			continue
		}
		keep, cbErr := src.cb(src.ctx, r)
		if cbErr != nil {
			s.log.Error("source callback failed", "fd", fd, "err", cbErr)
		}
		if !keep {
			toRemove = append(toRemove, fd)
			continue
		}
		// Re-arm for the next wait, whether this dispatch was
		// readiness- or timeout-driven.
		src.arm(now)
	}
	for _, fd := range toRemove {
		_ = s.removeFd(fd)
	}
	return nil
}
