package service

import (
	"time"

	"danmukit/internal/core/fingerprint"
	"danmukit/internal/services/monitor/domain"
)

// giftLedger layers combo-count accumulation on top of the fingerprint
// cache. A repeat sighting of the same user/gift with a higher count within
// the TTL is a combo in progress and re-emits as an update; equal or lower
// counts are suppressed
type giftLedger struct {
	seen *fingerprint.Cache
	ttl  time.Duration

	pairs map[string]pairState
	max   int
}

type pairState struct {
	count int64
	at    time.Time
}

func newGiftLedger(ttl time.Duration, maxEntries int) *giftLedger {
	return &giftLedger{
		seen:  fingerprint.New(fingerprint.Config{TTL: ttl, MaxEntries: maxEntries}),
		ttl:   ttl,
		pairs: make(map[string]pairState, maxEntries),
		max:   maxEntries,
	}
}

// Observe decides whether a gift sighting is emitted. The second return
// marks a combo update
func (l *giftLedger) Observe(user, gift string, count int64, now time.Time) (emit, update bool) {
	if l.seen.Seen(domain.GiftKey(user, gift, count), now) {
		return false, false
	}

	pair := domain.GiftPairKey(user, gift)
	if prev, ok := l.pairs[pair]; ok && now.Sub(prev.at) < l.ttl {
		if count > prev.count {
			l.remember(pair, count, now)
			return true, true
		}
		// a lower count within the TTL is a stale render of an older state
		return false, false
	}
	l.remember(pair, count, now)
	return true, false
}

func (l *giftLedger) remember(pair string, count int64, now time.Time) {
	if _, ok := l.pairs[pair]; !ok && len(l.pairs) >= l.max {
		l.sweep(now)
	}
	l.pairs[pair] = pairState{count: count, at: now}
}

// sweep drops expired pairs; if nothing expired the map is cleared, which
// only costs a spurious re-emission far past the bound
func (l *giftLedger) sweep(now time.Time) {
	for k, st := range l.pairs {
		if now.Sub(st.at) >= l.ttl {
			delete(l.pairs, k)
		}
	}
	if len(l.pairs) >= l.max {
		l.pairs = make(map[string]pairState, l.max)
	}
}
