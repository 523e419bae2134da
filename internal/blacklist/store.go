package blacklist

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ExpiryFunc reports when a revoked token stops mattering. It must tolerate
// signature mismatches; an error means the token is undecodable garbage.
type ExpiryFunc func(token string) (time.Time, error)

// Store is the deny-list that makes logout work for otherwise stateless
// tokens. Membership is checked on every authenticated request, so reads
// must never block behind a store-wide lock; sync.Map gives lock-free
// lookups and safe removal while iterating under concurrent inserts.
type Store struct {
	expiry ExpiryFunc
	logger *zap.Logger
	now    func() time.Time

	tokens sync.Map
	count  atomic.Int64
}

// NewStore constructs an empty revocation store. The expiry function is
// typically the token codec's Expiry.
func NewStore(expiry ExpiryFunc, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.L()
	}
	return &Store{expiry: expiry, logger: logger, now: time.Now}
}

// Revoke records the token as invalid. Empty or whitespace-only values are
// ignored so a missing header can never poison the store.
func (s *Store) Revoke(token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	if _, loaded := s.tokens.LoadOrStore(token, struct{}{}); !loaded {
		s.count.Add(1)
	}
}

// IsRevoked reports whether the token has been revoked. Safe under arbitrary
// concurrent Revoke and Sweep calls.
func (s *Store) IsRevoked(token string) bool {
	_, ok := s.tokens.Load(token)
	return ok
}

// Size returns the current number of revoked tokens.
func (s *Store) Size() int {
	return int(s.count.Load())
}

// Sweep removes entries whose tokens have expired or no longer decode.
// A decode failure is treated as cause for removal, never as an error; the
// sweep always completes. Returns the number of entries removed.
func (s *Store) Sweep() int {
	now := s.now()
	removed := 0

	s.tokens.Range(func(key, _ any) bool {
		token := key.(string)
		exp, err := s.expiry(token)
		if err == nil && exp.After(now) {
			return true
		}
		if err != nil {
			s.logger.Debug("dropping undecodable token from blacklist", zap.Error(err))
		}
		if _, loaded := s.tokens.LoadAndDelete(token); loaded {
			s.count.Add(-1)
			removed++
		}
		return true
	})

	return removed
}

// Run sweeps on the given interval until ctx is cancelled. It runs on its
// own timer, independent of request traffic.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Info("blacklist sweep",
					zap.Int("removed", removed),
					zap.Int("remaining", s.Size()),
				)
			}
		}
	}
}
