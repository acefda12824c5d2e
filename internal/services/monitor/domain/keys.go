package domain

import (
	"strconv"
	"strings"
)

// Fingerprint keys. Equal keys within a TTL window are the same logical
// event; the separator never occurs in normalized nicknames

// GiftKey fingerprints a gift sighting including its combo count, so a
// growing combo produces a fresh key
func GiftKey(user, gift string, count int64) string {
	return strings.Join([]string{user, gift, strconv.FormatInt(count, 10)}, "|")
}

// GiftPairKey identifies a user/gift combo independent of count
func GiftPairKey(user, gift string) string {
	return user + "|" + gift
}

// ChatKey fingerprints a chat message
func ChatKey(user, content string) string {
	return user + "|" + content
}

// RealtimeKey fingerprints an ambient action
func RealtimeKey(info InfoType, user string) string {
	return string(info) + "|" + user
}
