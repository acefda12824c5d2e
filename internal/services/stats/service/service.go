// Package service implements the in-memory session statistics recorder
package service

import (
	"sort"
	"sync"
	"time"

	"danmukit/internal/services/stats/domain"
)

// Config tunes the recorder
type Config struct {
	// RecentSize bounds the recent-chat ring
	RecentSize int
}

// Recorder implements domain.RecorderPort
type Recorder struct {
	mu sync.RWMutex

	startedAt time.Time

	chats     int64
	gifts     int64
	giftUnits int64
	realtime  int64

	viewerCount int64
	likeCount   int64

	users map[string]*domain.UserTotals

	recent []domain.RecentChat
	next   int
	filled bool
}

// New constructs a Recorder
func New(cfg Config, startedAt time.Time) *Recorder {
	size := cfg.RecentSize
	if size <= 0 {
		size = 50
	}
	return &Recorder{
		startedAt: startedAt,
		users:     make(map[string]*domain.UserTotals),
		recent:    make([]domain.RecentChat, size),
	}
}

// RecordChat counts a chat message and appends it to the recent ring
func (r *Recorder) RecordChat(user, content string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chats++
	r.user(user).Chats++

	r.recent[r.next] = domain.RecentChat{User: user, Content: content, At: at}
	r.next = (r.next + 1) % len(r.recent)
	if r.next == 0 {
		r.filled = true
	}
}

// RecordGift counts a gift notification; count is the unit multiplier
func (r *Recorder) RecordGift(user, gift string, count int64, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gifts++
	r.giftUnits += count
	u := r.user(user)
	u.Gifts++
	u.GiftUnits += count
}

// RecordRealtime counts an ambient action
func (r *Recorder) RecordRealtime(info, user string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.realtime++
	r.user(user).Realtime++
}

// RecordViewerCount keeps the latest viewer counter value
func (r *Recorder) RecordViewerCount(value int64, at time.Time) {
	r.mu.Lock()
	r.viewerCount = value
	r.mu.Unlock()
}

// RecordLikeCount keeps the latest like counter value
func (r *Recorder) RecordLikeCount(value int64, at time.Time) {
	r.mu.Lock()
	r.likeCount = value
	r.mu.Unlock()
}

// Snapshot copies the counters. Users are sorted by gift units then chats so
// the heaviest contributors come first
func (r *Recorder) Snapshot() domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := domain.Snapshot{
		StartedAt:   r.startedAt,
		Chats:       r.chats,
		Gifts:       r.gifts,
		GiftUnits:   r.giftUnits,
		Realtime:    r.realtime,
		ViewerCount: r.viewerCount,
		LikeCount:   r.likeCount,
	}

	snap.Users = make([]domain.UserTotals, 0, len(r.users))
	for _, u := range r.users {
		snap.Users = append(snap.Users, *u)
	}
	sort.Slice(snap.Users, func(i, j int) bool {
		if snap.Users[i].GiftUnits != snap.Users[j].GiftUnits {
			return snap.Users[i].GiftUnits > snap.Users[j].GiftUnits
		}
		if snap.Users[i].Chats != snap.Users[j].Chats {
			return snap.Users[i].Chats > snap.Users[j].Chats
		}
		return snap.Users[i].User < snap.Users[j].User
	})

	snap.Recent = r.recentOrdered()
	return snap
}

// user returns the totals row for user, creating it on first sight
func (r *Recorder) user(name string) *domain.UserTotals {
	u, ok := r.users[name]
	if !ok {
		u = &domain.UserTotals{User: name}
		r.users[name] = u
	}
	return u
}

// recentOrdered flattens the ring oldest first
func (r *Recorder) recentOrdered() []domain.RecentChat {
	if !r.filled {
		out := make([]domain.RecentChat, r.next)
		copy(out, r.recent[:r.next])
		return out
	}
	out := make([]domain.RecentChat, 0, len(r.recent))
	out = append(out, r.recent[r.next:]...)
	out = append(out, r.recent[:r.next]...)
	return out
}
