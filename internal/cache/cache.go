package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

// Key identifies one cached collection: what kind of entities, and whose.
type Key struct {
	Kind  types.Kind
	Owner uuid.UUID
}

func (k Key) String() string {
	return string(k.Kind) + "/" + k.Owner.String()
}

type EventReason string

const (
	ReasonInvalidated EventReason = "invalidated"
	ReasonRefreshed   EventReason = "refreshed"
	ReasonReset       EventReason = "reset"
)

// Event notifies a subscriber that a key's snapshot changed state. This is
// the explicit replacement for implicit re-render-on-state-change: consumers
// register for a key and decide themselves what to do on invalidation.
type Event struct {
	Key    Key
	Reason EventReason
}

type FetchFunc func(ctx context.Context) (interface{}, error)

type entry struct {
	snapshot  interface{}
	fetchedAt time.Time
	invalid   bool
}

// Store is the synchronization cache. It guarantees at most one in-flight
// gateway fetch per key (coalescing) and serves errors to every waiter
// without caching them. Entries are partitioned strictly by the key's owner:
// callers only ever construct keys from their own identity, so one caller's
// reads, invalidations and resets never touch another's entries.
type Store struct {
	log *logger.Logger

	mu       sync.Mutex
	entries  map[Key]*entry
	versions map[Key]uint64
	subs     map[Key]map[int]func(Event)
	nextSub  int

	group singleflight.Group
}

func NewStore(baseLog *logger.Logger) *Store {
	return &Store{
		log:      baseLog.With("service", "CacheStore"),
		entries:  map[Key]*entry{},
		versions: map[Key]uint64{},
		subs:     map[Key]map[int]func(Event){},
	}
}

// Reset drops every entry belonging to owner, for explicit sign-out: the
// operator's snapshots must not survive their session. Other owners' entries
// are untouched, so concurrent callers never evict each other.
func (s *Store) Reset(owner uuid.UUID) {
	s.mu.Lock()
	cleared := make([]Key, 0, len(s.entries))
	for k := range s.entries {
		if k.Owner == owner {
			cleared = append(cleared, k)
			delete(s.entries, k)
		}
	}
	for k := range s.versions {
		if k.Owner == owner {
			s.versions[k]++
		}
	}
	for _, k := range cleared {
		if _, ok := s.versions[k]; !ok {
			s.versions[k]++
		}
	}
	s.mu.Unlock()
	for _, k := range cleared {
		s.group.Forget(k.String())
		s.notify(Event{Key: k, Reason: ReasonReset})
	}
}

func (s *Store) checkScope(key Key) error {
	if key.Owner == uuid.Nil {
		return apierr.Unauthorized(fmt.Errorf("cache read without an active identity"))
	}
	return nil
}

// Get returns the snapshot for key, fetching through the gateway when there
// is none or the key has been invalidated. Reads issued after a mutation's
// invalidation always reflect the mutation: an invalid entry is never served
// here, the caller waits on the coalesced refetch instead.
//
// Cancellation detaches the waiter only. The underlying fetch keeps running
// and populates the entry for other consumers.
func (s *Store) Get(ctx context.Context, key Key, fetch FetchFunc) (interface{}, error) {
	s.mu.Lock()
	if err := s.checkScope(key); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if e, ok := s.entries[key]; ok && !e.invalid {
		snap := e.snapshot
		s.mu.Unlock()
		return snap, nil
	}
	version := s.versions[key]
	s.mu.Unlock()

	return s.fetchShared(ctx, key, version, fetch)
}

// GetStale is the stale-while-revalidate read path: an existing snapshot is
// served immediately even when invalid, with one revalidation running in the
// background. Views that must reflect their own writes use Get.
func (s *Store) GetStale(ctx context.Context, key Key, fetch FetchFunc) (interface{}, bool, error) {
	s.mu.Lock()
	if err := s.checkScope(key); err != nil {
		s.mu.Unlock()
		return nil, false, err
	}
	if e, ok := s.entries[key]; ok {
		snap, invalid := e.snapshot, e.invalid
		version := s.versions[key]
		s.mu.Unlock()
		if invalid {
			go func() {
				if _, err := s.fetchShared(context.Background(), key, version, fetch); err != nil {
					s.log.Warn("background revalidation failed", "key", key.String(), "error", err)
				}
			}()
		}
		return snap, invalid, nil
	}
	version := s.versions[key]
	s.mu.Unlock()

	snap, err := s.fetchShared(ctx, key, version, fetch)
	return snap, false, err
}

// fetchShared runs at most one gateway fetch per key. Results taken under a
// superseded version (an invalidation raced the fetch) are handed to the
// waiters that asked for them but never stored.
func (s *Store) fetchShared(ctx context.Context, key Key, version uint64, fetch FetchFunc) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key.String(), func() (interface{}, error) {
		snap, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		s.store(key, version, snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (s *Store) store(key Key, version uint64, snap interface{}) {
	s.mu.Lock()
	if s.versions[key] != version {
		s.mu.Unlock()
		return
	}
	s.entries[key] = &entry{snapshot: snap, fetchedAt: time.Now()}
	s.mu.Unlock()
	s.notify(Event{Key: key, Reason: ReasonRefreshed})
}

// Invalidate marks a key dirty after a successful mutation. The in-flight
// coalesced fetch, if any, is forgotten so the next read starts fresh.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	s.versions[key]++
	if e, ok := s.entries[key]; ok {
		e.invalid = true
	}
	s.mu.Unlock()
	s.group.Forget(key.String())
	s.notify(Event{Key: key, Reason: ReasonInvalidated})
}

// Snapshot exposes the current entry without fetching; nil when absent.
func (s *Store) Snapshot(key Key) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.snapshot, !e.invalid
}

func (s *Store) Subscribe(key Key, fn func(Event)) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	token := s.nextSub
	if s.subs[key] == nil {
		s.subs[key] = map[int]func(Event){}
	}
	s.subs[key][token] = fn
	return token
}

func (s *Store) Unsubscribe(key Key, token int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs[key], token)
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs[ev.Key]))
	for _, fn := range s.subs[ev.Key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
