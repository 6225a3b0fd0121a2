package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/metrics"
	"github.com/dmagro/blockscan/internal/view"
)

// session is one browser's dashboard: a mounted synchronizer plus its
// revalidation loop.
type session struct {
	id     string
	view   *view.Synchronizer
	cancel context.CancelFunc
}

func (s *session) close() {
	s.cancel()
	s.view.Unmount()
}

var errTooManySessions = errors.New("too many active sessions")

// sessionStore keeps sessions in go-cache. Every access extends a session's
// lifetime by ttl; expiry unmounts it. At most max sessions are mounted.
type sessionStore struct {
	ctx     context.Context
	fetcher chain.Fetcher
	opts    view.Options
	ttl     time.Duration
	max     int
	c       *gocache.Cache

	mu sync.Mutex // serializes create against the cap
}

func newSessionStore(ctx context.Context, fetcher chain.Fetcher, opts view.Options, ttl time.Duration, maxSessions int) *sessionStore {
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}

	st := &sessionStore{
		ctx:     ctx,
		fetcher: fetcher,
		opts:    opts,
		ttl:     ttl,
		max:     maxSessions,
		c:       gocache.New(ttl, cleanup),
	}
	st.c.OnEvicted(func(id string, v interface{}) {
		sess, ok := v.(*session)
		if !ok {
			return
		}
		sess.close()
		metrics.ActiveSessions.Dec()
		log.Debug().Str("session", id).Msg("session closed")
	})
	return st
}

// get returns the live session for id, touching its expiry.
func (st *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	v, found := st.c.Get(id)
	if !found {
		return nil, false
	}
	sess := v.(*session)
	if !st.touch(sess) {
		return nil, false
	}
	return sess, true
}

// touch extends sess's expiry. It reports false when sess was evicted after
// it was read, so a closed session is never stored again.
func (st *sessionStore) touch(sess *session) bool {
	return st.c.Replace(sess.id, sess, gocache.DefaultExpiration) == nil
}

// create mounts a new synchronizer and starts its revalidation loop.
func (st *sessionStore) create() (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.max > 0 && st.c.ItemCount() >= st.max {
		st.c.DeleteExpired()
		if st.c.ItemCount() >= st.max {
			return nil, errTooManySessions
		}
	}

	ctx, cancel := context.WithCancel(st.ctx)
	v := view.New(st.fetcher, st.opts)
	if err := v.Mount(ctx); err != nil {
		cancel()
		return nil, err
	}
	go v.Run(ctx)

	sess := &session{id: uuid.NewString(), view: v, cancel: cancel}
	st.c.Set(sess.id, sess, gocache.DefaultExpiration)
	metrics.ActiveSessions.Inc()
	log.Debug().Str("session", sess.id).Msg("session opened")
	return sess, nil
}

func (st *sessionStore) count() int {
	return st.c.ItemCount()
}

// closeAll unmounts every session.
func (st *sessionStore) closeAll() {
	st.c.DeleteExpired()
	for id := range st.c.Items() {
		st.c.Delete(id)
	}
}
