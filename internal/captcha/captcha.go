// Package captcha implements the arithmetic challenge gate for public
// listing submission.
package captcha

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Challenge is a generated question handed to the client.
type Challenge struct {
	Token    string `json:"token"`
	Question string `json:"question"`
}

type entry struct {
	answer    string
	createdAt time.Time
}

// Store issues arithmetic challenges and verifies answers. Tokens are
// single-use and expire after the TTL. The table is size-capped: when
// it overflows, the oldest half is dropped.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxPending int
	now        func() time.Time
	intn       func(int) int
}

// New creates a captcha store. Zero values get production defaults
// (10 minute TTL, 1000 pending challenges).
func New(ttl time.Duration, maxPending int) *Store {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxPending <= 0 {
		maxPending = 1000
	}

	return &Store{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxPending: maxPending,
		now:        time.Now,
		intn:       rand.Intn,
	}
}

// Generate issues a new challenge: two single-digit operands and a
// short token.
func (s *Store) Generate() Challenge {
	a := s.intn(10) + 1
	b := s.intn(10) + 1
	token := uuid.NewString()[:8]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = entry{
		answer:    fmt.Sprintf("%d", a+b),
		createdAt: s.now(),
	}
	if len(s.entries) > s.maxPending {
		s.evictOldest(s.maxPending / 2)
	}

	return Challenge{
		Token:    token,
		Question: fmt.Sprintf("%d + %d = ?", a, b),
	}
}

// Verify consumes a token and checks the answer. The token is removed
// whether or not the answer matches, so a challenge cannot be replayed.
func (s *Store) Verify(token, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return false
	}
	delete(s.entries, token)

	if s.now().Sub(e.createdAt) > s.ttl {
		return false
	}
	return e.answer == answer
}

// evictOldest drops the n oldest entries. Caller holds the lock.
func (s *Store) evictOldest(n int) {
	type aged struct {
		token     string
		createdAt time.Time
	}
	all := make([]aged, 0, len(s.entries))
	for tok, e := range s.entries {
		all = append(all, aged{tok, e.createdAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.Before(all[j].createdAt) })

	if n > len(all) {
		n = len(all)
	}
	for _, a := range all[:n] {
		delete(s.entries, a.token)
	}
}
