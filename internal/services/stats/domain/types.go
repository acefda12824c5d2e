// Package domain defines the core types and interfaces for the stats service
package domain

import "time"

// UserTotals aggregates one user's activity within a session
type UserTotals struct {
	User      string `json:"user"`
	Chats     int64  `json:"chats"`
	Gifts     int64  `json:"gifts"`
	GiftUnits int64  `json:"gift_units"`
	Realtime  int64  `json:"realtime"`
}

// RecentChat is one entry of the bounded recent-message ring
type RecentChat struct {
	User    string    `json:"user"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Snapshot is a point-in-time copy of the session counters
type Snapshot struct {
	StartedAt time.Time `json:"started_at"`

	Chats     int64 `json:"chats"`
	Gifts     int64 `json:"gifts"`
	GiftUnits int64 `json:"gift_units"`
	Realtime  int64 `json:"realtime"`

	ViewerCount int64 `json:"viewer_count"`
	LikeCount   int64 `json:"like_count"`

	Users  []UserTotals `json:"users"`
	Recent []RecentChat `json:"recent"`
}
