// Package classify decides which event kind a scraped overlay block
// represents. Classification is pure and side effect free; extraction of the
// structured fields happens later in core/extract
package classify

import (
	"regexp"
	"strings"

	"danmukit/internal/core/giftpack"
)

// Hint tags where the scanning collaborator found a block
type Hint uint8

const (
	// HintUnknown means the block's source region was not identified
	HintUnknown Hint = iota
	// HintPanel marks blocks from the room info panel (counters, labels)
	HintPanel
	// HintList marks blocks from the scrolling chat list
	HintList
)

// Category is the coarse event kind assigned to a block
type Category uint8

const (
	// CatNone marks page chrome, containers and anything unclassifiable
	CatNone Category = iota
	// CatGift marks a single gift notification
	CatGift
	// CatChat marks a single chat message
	CatChat
	// CatRealtime marks an ambient action line (enter, share, top, like, score)
	CatRealtime
	// CatViewerCount marks the live viewer counter
	CatViewerCount
	// CatLikeCount marks the session like counter
	CatLikeCount
)

// String returns a stable label for logging and diagnostics
func (c Category) String() string {
	switch c {
	case CatGift:
		return "gift"
	case CatChat:
		return "chat"
	case CatRealtime:
		return "realtime"
	case CatViewerCount:
		return "viewer_count"
	case CatLikeCount:
		return "like_count"
	default:
		return "none"
	}
}

const (
	// giftVerb is the completion marker of a gift send
	giftVerb = "送出了"
	// giftWord is the loose single-character verb used by the side panel
	giftWord = "送"
	// maxGiftBlockRunes rejects oversized container nodes
	maxGiftBlockRunes = 200
)

var (
	// one "speaker：" shaped span; more than one means the block aggregates
	// several independent messages and is a container, never a single event
	sepSpanRe = regexp.MustCompile(`[^：:\n]+[：:]`)

	// "user 送" shaped prefix from the side panel gift ticker
	sendPrefixRe = regexp.MustCompile(`[^\s：:]{1,30}[\s\n]+送`)

	// single chat line: short speaker, separator, body
	chatLineRe = regexp.MustCompile(`(?s)^[^：:\n]{1,30}[：:].+$`)

	// bare counter text as rendered by the audience widget ("532", "1.2万")
	viewerRe = regexp.MustCompile(`^\d+(\.\d+)?[万千]?人?$`)

	// session like counter label ("3.5万本场点赞")
	likeRe = regexp.MustCompile(`\d+(\.\d+)?[万千]?本场点赞`)
)

// Classifier assigns a Category to normalized block text
type Classifier struct {
	pack *giftpack.Pack
}

// New creates a Classifier over the given vocabulary pack
func New(p *giftpack.Pack) *Classifier { return &Classifier{pack: p} }

// Classify returns the category for a normalized block. Earlier rules take
// precedence; the order resolves ambiguity between overlapping textual cues
func (c *Classifier) Classify(text string, hint Hint) Category {
	text = strings.TrimSpace(text)
	if text == "" {
		return CatNone
	}

	// 1. The gift purchase list is page chrome, never an event
	if c.isGiftList(text) {
		return CatNone
	}

	// 2. Panel counters ride the same block stream
	if hint == HintPanel {
		if likeRe.MatchString(text) {
			return CatLikeCount
		}
		if viewerRe.MatchString(text) {
			return CatViewerCount
		}
	}

	hasVerb := strings.Contains(text, giftVerb)
	hasSep := strings.ContainsAny(text, "：:")

	// 3. Gift completion marker. With a separator the block is a chat-region
	// gift mention that carries no gift name; there is nothing to extract
	if hasVerb {
		if hasSep {
			return CatNone
		}
		if c.giftContainer(text) {
			return CatNone
		}
		return CatGift
	}

	// Side panel tickers use the bare verb plus a known gift vocabulary hit
	if strings.Contains(text, giftWord) && sendPrefixRe.MatchString(text) && !hasSep {
		if _, known := c.pack.FindName(text); known && !c.giftContainer(text) && !c.pack.HasChrome(text) {
			return CatGift
		}
	}

	sepSpans := len(sepSpanRe.FindAllString(text, -1))

	// 4. Ambient realtime actions
	if c.matchesRealtime(text) {
		if c.pack.HasChrome(text) || sepSpans > 1 {
			return CatNone
		}
		return CatRealtime
	}

	// 5. Chat requires the list region, exactly one speaker span and a body
	if hint == HintList && sepSpans == 1 && chatLineRe.MatchString(text) && !c.pack.HasChrome(text) {
		return CatChat
	}

	return CatNone
}

// GiftMentionWithoutName reports whether the block carries the gift verb in
// chat format (with a separator), i.e. a gift line with no recoverable name.
// Callers record these as missing-name diagnostics rather than events
func (c *Classifier) GiftMentionWithoutName(text string) bool {
	return strings.Contains(text, giftVerb) && strings.ContainsAny(text, "：:")
}

// isGiftList detects the purchase list: several known gift names alongside
// the currency unit, or a load-more/recharge phrase
func (c *Classifier) isGiftList(text string) bool {
	for _, re := range c.pack.ListSignatures {
		if re.MatchString(text) {
			return true
		}
	}
	if c.pack.CurrencyUnit != "" && strings.Contains(text, c.pack.CurrencyUnit) {
		if c.pack.CountNames(text, 2) >= 2 {
			return true
		}
	}
	return false
}

// giftContainer rejects nodes that aggregate several gift lines
func (c *Classifier) giftContainer(text string) bool {
	if len([]rune(text)) >= maxGiftBlockRunes {
		return true
	}
	if len(sendPrefixRe.FindAllString(text, -1)) > 1 {
		return true
	}
	return strings.Count(text, giftWord) > 2
}

func (c *Classifier) matchesRealtime(text string) bool {
	for _, r := range c.pack.Realtime {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return false
}
