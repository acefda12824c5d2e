package service

import (
	"strings"
	"sync"
)

// ChatFilter screens chat events against the streamer's own nickname and the
// alt-account nickname set. Runtime configuration may race with the scan
// loop, hence the lock
type ChatFilter struct {
	mu   sync.RWMutex
	self string
	alts []string
}

// NewChatFilter builds a filter from the initial nickname configuration
func NewChatFilter(self string, alts []string) *ChatFilter {
	f := &ChatFilter{}
	f.SetSelf(self)
	f.SetAlts(alts)
	return f
}

// SetSelf replaces the streamer's own nickname
func (f *ChatFilter) SetSelf(name string) {
	f.mu.Lock()
	f.self = strings.TrimSpace(name)
	f.mu.Unlock()
}

// SetAlts replaces the alt-account nickname set
func (f *ChatFilter) SetAlts(names []string) {
	trimmed := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			trimmed = append(trimmed, n)
		}
	}
	f.mu.Lock()
	f.alts = trimmed
	f.mu.Unlock()
}

// Admit reports whether a chat from user should pass. The alt matching is
// deliberately wide: exact, user prefixed by the alt's owner, or the alt
// contained in the user, all count as the operator talking to themselves
func (f *ChatFilter) Admit(user, content string) bool {
	user = strings.TrimSpace(user)
	if user == "" || strings.TrimSpace(content) == "" {
		return false
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.self != "" && user == f.self {
		return false
	}
	for _, alt := range f.alts {
		if user == alt {
			return false
		}
		if strings.HasPrefix(alt, user) {
			return false
		}
		if strings.Contains(user, alt) {
			return false
		}
	}
	return true
}
