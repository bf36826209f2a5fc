// Package reconcile keeps a local copy of a server-owned collection (the
// wishlist, the cart) and applies user mutations optimistically: the local
// copy changes at once, the remote call runs, and a failed call puts the
// affected entry back the way it was.
//
// Each key moves through an explicit state machine:
//
//	Absent  --add-->    OptimisticPresent --ok--> ConfirmedPresent
//	                                      --err-> Absent
//	Present --remove--> OptimisticAbsent  --ok--> Absent
//	                                      --err-> Present
//
// A newer mutation on the same key cancels the request of the older one and
// the older response, whenever it arrives, is discarded.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pkordes/wanderkart/backend/internal/domain"
)

// State is the lifecycle position of one key.
type State int

const (
	Absent State = iota
	OptimisticPresent
	ConfirmedPresent
	OptimisticAbsent
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case OptimisticPresent:
		return "optimistic-present"
	case ConfirmedPresent:
		return "confirmed-present"
	case OptimisticAbsent:
		return "optimistic-absent"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Present reports whether the entry is visible in the local list.
func (s State) Present() bool {
	return s == OptimisticPresent || s == ConfirmedPresent
}

// Remote is the server side of a collection.
// Add returns the server's view of the new (or merged) entry.
type Remote[V any] interface {
	List(ctx context.Context) ([]V, error)
	Add(ctx context.Context, v V) (V, error)
	Remove(ctx context.Context, v V) error
}

// Updater is implemented by remotes whose entries can be changed in place.
type Updater[V any] interface {
	Update(ctx context.Context, v V) (V, error)
}

// ErrSuperseded is returned to a caller whose mutation was overtaken by a
// newer mutation of the same key. The local state reflects the newer one.
var ErrSuperseded = errors.New("superseded by a newer change")

// ErrUnsupported is returned by Update when the remote cannot update entries.
var ErrUnsupported = errors.New("operation not supported by remote")

// Messages are the user-facing texts attached to failures.
type Messages struct {
	// Unauthorized is shown when the server answers 401.
	Unauthorized string
	// Failed is shown for every other failure.
	Failed string
}

// DefaultMessages is used for any field left empty.
var DefaultMessages = Messages{
	Unauthorized: "Please log in to continue.",
	Failed:       "Something went wrong. Please try again.",
}

// Failure is returned when a remote call failed and the local change was
// rolled back. Message is safe to show to the user.
type Failure struct {
	Op      string
	Key     string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("reconcile: %s %s: %v", f.Op, f.Key, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// flight is the in-progress remote call for one key. base is the entry as
// it stood before the first of a run of overlapping mutations, which is
// what a failure restores.
type flight[V any] struct {
	seq     uint64
	cancel  context.CancelFunc
	base    *V
	baseIdx int
}

// Collection is an optimistic local mirror of a remote collection.
// It is safe for concurrent use; remote calls run without holding the lock.
type Collection[V any] struct {
	remote Remote[V]
	keys   func(V) []string
	msgs   Messages
	log    *slog.Logger

	mu       sync.Mutex
	items    []V
	pending  map[string]State
	inflight map[string]*flight[V]
	seq      uint64
}

// New builds an empty collection. keys must return every identifier an entry
// can be addressed by; membership checks match any of them. The last
// identifier must be the one a placeholder already carries (the item ID),
// since in-flight mutations are tracked under it.
func New[V any](remote Remote[V], keys func(V) []string, msgs Messages, log *slog.Logger) *Collection[V] {
	if msgs.Unauthorized == "" {
		msgs.Unauthorized = DefaultMessages.Unauthorized
	}
	if msgs.Failed == "" {
		msgs.Failed = DefaultMessages.Failed
	}
	if log == nil {
		log = slog.Default()
	}
	return &Collection[V]{
		remote:   remote,
		keys:     keys,
		msgs:     msgs,
		log:      log,
		pending:  map[string]State{},
		inflight: map[string]*flight[V]{},
	}
}

// Items returns a copy of the local list, optimistic entries included.
func (c *Collection[V]) Items() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len is the number of visible entries.
func (c *Collection[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Contains reports whether any entry is addressed by key.
func (c *Collection[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(key) >= 0
}

// Get returns the entry addressed by key.
func (c *Collection[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(key); i >= 0 {
		return c.items[i], true
	}
	var zero V
	return zero, false
}

// State returns the lifecycle state of key.
func (c *Collection[V]) State(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateOf(key)
}

func (c *Collection[V]) stateOf(key string) State {
	key = c.canonical(key)
	if s, ok := c.pending[key]; ok {
		return s
	}
	if c.indexOf(key) >= 0 {
		return ConfirmedPresent
	}
	return Absent
}

// canonical maps any identifier of a present entry onto the one its
// mutations are tracked under. Caller holds c.mu.
func (c *Collection[V]) canonical(key string) string {
	if i := c.indexOf(key); i >= 0 {
		if ks := c.keys(c.items[i]); len(ks) > 0 {
			return ks[len(ks)-1]
		}
	}
	return key
}

func (c *Collection[V]) indexOf(key string) int {
	return slices.IndexFunc(c.items, func(v V) bool {
		return slices.Contains(c.keys(v), key)
	})
}

// Refresh replaces the local list with the server's. In-flight mutations are
// cancelled and their responses will be discarded.
func (c *Collection[V]) Refresh(ctx context.Context) error {
	items, err := c.remote.List(ctx)
	if err != nil {
		return c.failure("refresh", "", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, f := range c.inflight {
		f.cancel()
		delete(c.inflight, k)
	}
	clear(c.pending)
	c.items = slices.Clone(items)
	return nil
}

// Add inserts v under key. If an entry already exists and merge is non-nil
// the entry is replaced by merge(existing, v) before the call; with a nil
// merge an existing entry makes Add a no-op.
func (c *Collection[V]) Add(ctx context.Context, key string, v V, merge func(existing, v V) V) error {
	c.mu.Lock()
	key = c.canonical(key)
	i := c.indexOf(key)
	if i >= 0 && merge == nil {
		c.mu.Unlock()
		return nil
	}
	optimistic := v
	if i >= 0 {
		optimistic = merge(c.items[i], v)
	}
	callCtx, f, undo := c.begin(ctx, key, OptimisticPresent, func() {
		if i >= 0 {
			c.items[i] = optimistic
		} else {
			c.items = append(c.items, optimistic)
		}
	})
	c.mu.Unlock()

	confirmed, err := c.remote.Add(callCtx, v)
	return c.finish("add", key, f, undo, err, func() { c.put(key, confirmed) })
}

// Remove deletes the entry addressed by key. Removing an absent key is a no-op.
func (c *Collection[V]) Remove(ctx context.Context, key string) error {
	c.mu.Lock()
	key = c.canonical(key)
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return nil
	}
	current := c.items[i]
	callCtx, f, undo := c.begin(ctx, key, OptimisticAbsent, func() {
		c.items = slices.Delete(c.items, i, i+1)
	})
	c.mu.Unlock()

	err := c.remote.Remove(callCtx, current)
	return c.finish("remove", key, f, undo, err, func() {})
}

// Update applies mutate to the entry addressed by key and sends the result.
func (c *Collection[V]) Update(ctx context.Context, key string, mutate func(V) V) error {
	up, ok := c.remote.(Updater[V])
	if !ok {
		return ErrUnsupported
	}

	c.mu.Lock()
	key = c.canonical(key)
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("reconcile: update %s: %w", key, domain.ErrNotFound)
	}
	next := mutate(c.items[i])
	callCtx, f, undo := c.begin(ctx, key, OptimisticPresent, func() {
		c.items[i] = next
	})
	c.mu.Unlock()

	confirmed, err := up.Update(callCtx, next)
	return c.finish("update", key, f, undo, err, func() { c.put(key, confirmed) })
}

// Toggle flips membership of key, or sets it to *desired when desired is
// non-nil. placeholder is the entry shown until the server confirms an add.
// It returns the membership after the call (the pre-toggle membership when
// the call failed).
func (c *Collection[V]) Toggle(ctx context.Context, key string, desired *bool, placeholder V) (bool, error) {
	want := !c.Contains(key)
	if desired != nil {
		want = *desired
	}
	var err error
	if want {
		err = c.Add(ctx, key, placeholder, nil)
	} else {
		err = c.Remove(ctx, key)
	}
	return c.Contains(key), err
}

// begin snapshots key, applies the optimistic change and registers a new
// flight, cancelling any older one. When an older flight is cancelled its
// snapshot is inherited: the superseded change never reached a confirmed
// state, so a failure must not restore it. Caller holds c.mu.
func (c *Collection[V]) begin(ctx context.Context, key string, st State, apply func()) (context.Context, *flight[V], func()) {
	var (
		base    *V
		baseIdx = c.indexOf(key)
	)
	if old, ok := c.inflight[key]; ok {
		old.cancel()
		base, baseIdx = old.base, old.baseIdx
	} else if baseIdx >= 0 {
		v := c.items[baseIdx]
		base = &v
	}

	apply()
	c.pending[key] = st

	c.seq++
	callCtx, cancel := context.WithCancel(ctx)
	f := &flight[V]{seq: c.seq, cancel: cancel, base: base, baseIdx: baseIdx}
	c.inflight[key] = f

	undo := func() {
		if i := c.indexOf(key); i >= 0 {
			c.items = slices.Delete(c.items, i, i+1)
		}
		if base != nil {
			c.items = slices.Insert(c.items, min(max(baseIdx, 0), len(c.items)), *base)
		}
	}
	return callCtx, f, undo
}

// finish settles a flight: stale flights are ignored, failures are undone
// and successes committed.
func (c *Collection[V]) finish(op, key string, f *flight[V], undo func(), err error, commit func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer f.cancel()

	if cur, ok := c.inflight[key]; !ok || cur.seq != f.seq {
		c.log.Debug("discarding stale response", "op", op, "key", key, "seq", f.seq)
		return ErrSuperseded
	}
	delete(c.inflight, key)
	delete(c.pending, key)

	if err != nil {
		undo()
		c.log.Warn("optimistic change rolled back", "op", op, "key", key, "error", err)
		return c.failure(op, key, err)
	}
	commit()
	return nil
}

// put replaces the entry addressed by key with v, or appends v. Caller holds c.mu.
func (c *Collection[V]) put(key string, v V) {
	if i := c.indexOf(key); i >= 0 {
		c.items[i] = v
		return
	}
	c.items = append(c.items, v)
}

func (c *Collection[V]) failure(op, key string, err error) error {
	msg := c.msgs.Failed
	if errors.Is(err, domain.ErrUnauthorized) {
		msg = c.msgs.Unauthorized
	}
	return &Failure{Op: op, Key: key, Message: msg, Err: err}
}
