// Package domain defines the core types and interfaces for the monitor
// service: raw overlay blocks in, deduplicated typed events out
package domain

import "time"

// SourceHint tags which overlay region a block was scraped from
type SourceHint string

const (
	HintUnknown SourceHint = ""
	HintPanel   SourceHint = "panel"
	HintList    SourceHint = "list"
)

// Rect is the block's bounding box in overlay coordinates, when known
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// RawBlock is one scraped text block. It is classified exactly once and
// never mutated afterwards
type RawBlock struct {
	Text string `json:"text"`
	// ImageAlt carries the accessible name of an embedded gift icon, if any
	ImageAlt string     `json:"image_alt,omitempty"`
	Hint     SourceHint `json:"hint,omitempty"`
	Region   *Rect      `json:"region,omitempty"`
}

// Kind tags an emitted event
type Kind string

const (
	KindChat        Kind = "chat"
	KindGift        Kind = "gift"
	KindRealtime    Kind = "realtime"
	KindViewerCount Kind = "viewer_count"
	KindLikeCount   Kind = "like_count"
)

// InfoType labels a realtime ambient action
type InfoType string

const (
	InfoEnter InfoType = "enter"
	InfoShare InfoType = "share"
	InfoTop   InfoType = "top"
	InfoLike  InfoType = "like"
	InfoScore InfoType = "score"
)

// Event is one deduplicated overlay event. Only the fields relevant to its
// Kind are populated
type Event struct {
	Kind Kind      `json:"kind"`
	At   time.Time `json:"at"`

	User    string `json:"user,omitempty"`
	Content string `json:"content,omitempty"`

	GiftName string `json:"gift_name,omitempty"`
	Count    int64  `json:"count,omitempty"`
	// Update marks a gift re-emission caused by a growing combo count
	Update bool `json:"update,omitempty"`

	Info InfoType `json:"info,omitempty"`
	// Raw preserves the counter text exactly as rendered ("1.2万")
	Raw string `json:"raw,omitempty"`
}

// Diagnostic records why a block was dropped. Kept in a bounded ring so a
// stuck extraction shows up without flooding logs
type Diagnostic struct {
	Category string    `json:"category"`
	Code     string    `json:"code"`
	Text     string    `json:"text"`
	At       time.Time `json:"at"`
}
