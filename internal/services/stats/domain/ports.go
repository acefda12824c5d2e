package domain

import "time"

// RecorderPort is the external port of the stats module. All methods are
// in-memory and safe for concurrent use
type RecorderPort interface {
	RecordChat(user, content string, at time.Time)
	RecordGift(user, gift string, count int64, at time.Time)
	RecordRealtime(info, user string, at time.Time)
	RecordViewerCount(value int64, at time.Time)
	RecordLikeCount(value int64, at time.Time)

	Snapshot() Snapshot
}
