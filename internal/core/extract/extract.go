// Package extract pulls structured fields out of blocks that classify has
// already categorized. Every function takes normalized text and returns a
// typed record or a coded error describing why the block was unusable
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"danmukit/internal/core/giftpack"
	perr "danmukit/internal/platform/errors"
	pstrings "danmukit/internal/platform/strings"
)

// Gift is a single resolved gift notification
type Gift struct {
	User  string
	Name  string
	Count int64
}

// Chat is a single resolved chat message
type Chat struct {
	User    string
	Content string
}

// Realtime is an ambient action attributed to a user
type Realtime struct {
	Info  string
	User  string
	Score int64
}

const (
	giftVerb = "送出了"

	maxUserRunes = 30
	maxNameRunes = 50
)

var (
	countMultRe  = regexp.MustCompile(`[×xX]\s*(\d+)`)
	countUnitRe  = regexp.MustCompile(`(\d+)\s*个`)
	countStripRe = regexp.MustCompile(`([×xX]\s*\d+|\d+\s*个)`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
	scoreRe      = regexp.MustCompile(`为主播加了\s*(\d+)\s*分`)
	counterRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)([万千]?)`)
	sendPrefixRe = regexp.MustCompile(`^([^\s：:]{1,30})[\s\n]+送`)
)

const comeSuffix = "来了"

// Extractor resolves event fields against the gift vocabulary
type Extractor struct {
	pack *giftpack.Pack
}

// New creates an Extractor over the given vocabulary pack
func New(p *giftpack.Pack) *Extractor { return &Extractor{pack: p} }

// Chat splits a "speaker：body" line into its parts. Lines carrying the
// entered marker are overlay joins leaking into the chat list and are filtered
func (e *Extractor) Chat(text string) (Chat, error) {
	idx := strings.IndexAny(text, "：:")
	if idx < 0 {
		return Chat{}, perr.EmptyFieldf("chat line has no separator")
	}
	user := strings.TrimSpace(text[:idx])
	content := strings.TrimSpace(pstrings.TrimSeparators(text[idx:]))

	if user == "" {
		return Chat{}, perr.EmptyFieldf("chat user is empty")
	}
	if content == "" {
		return Chat{}, perr.EmptyFieldf("chat content is empty")
	}
	if len([]rune(user)) > maxUserRunes {
		return Chat{}, perr.InvalidArgf("chat user exceeds %d runes", maxUserRunes)
	}
	if !e.pack.PlausibleUser(user) {
		return Chat{}, perr.Filteredf("chat user %q is not a plausible nickname", user)
	}
	if e.pack.EnteredMarker != "" && strings.Contains(content, e.pack.EnteredMarker) {
		return Chat{}, perr.Filteredf("chat content is an entry notice")
	}
	return Chat{User: user, Content: content}, nil
}

// Realtime matches the ambient action rules in pack order and attributes the
// action to the text preceding the match
func (e *Extractor) Realtime(text string) (Realtime, error) {
	text = strings.TrimSpace(text)
	for _, rule := range e.pack.Realtime {
		loc := rule.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		user := strings.TrimSpace(pstrings.TrimSeparators(text[:loc[0]]))
		if user == "" || !e.pack.PlausibleUser(user) {
			return Realtime{}, perr.EmptyFieldf("realtime %s line has no user", rule.Info)
		}
		rt := Realtime{Info: rule.Info, User: user}
		if rule.Info == "score" {
			if m := scoreRe.FindStringSubmatch(text); m != nil {
				rt.Score, _ = strconv.ParseInt(m[1], 10, 64)
			}
		}
		return rt, nil
	}
	return Realtime{}, perr.InvalidArgf("no realtime rule matches")
}

// Gift resolves user, gift name and count from a gift block. The name is
// recovered by an ordered cascade: exact vocabulary hit, archetype keyword
// match, structural fragment scan, then the accessibility alt text
func (e *Extractor) Gift(text, imageAlt string) (Gift, error) {
	user := e.giftUser(text)
	if user == "" {
		return Gift{}, perr.EmptyFieldf("gift block has no user")
	}

	count := parseGiftCount(text)

	name := e.giftName(text, user, imageAlt)
	if name == "" {
		return Gift{}, perr.MissingGiftNamef("gift name could not be recovered")
	}
	if name == user {
		return Gift{}, perr.AmbiguousFieldf("gift name collides with user %q", user)
	}
	if !e.plausibleGiftName(name, user) {
		return Gift{}, perr.InvalidGiftf("gift name %q is not plausible", name)
	}
	return Gift{User: user, Name: name, Count: count}, nil
}

// Counter parses an overlay counter such as "1.2万" or "3.5万本场点赞" into
// its absolute value and the raw numeric token as rendered
func (e *Extractor) Counter(text string) (int64, string, error) {
	m := counterRe.FindStringSubmatch(text)
	if m == nil {
		return 0, "", perr.InvalidArgf("no counter value in %q", pstrings.Truncate(text, 40))
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "counter value")
	}
	switch m[2] {
	case "万":
		f *= 10000
	case "千":
		f *= 1000
	}
	return int64(f), m[1] + m[2], nil
}

// giftUser returns the sender: the text preceding the verb, reduced to its
// last line so stacked overlay decorations above the nickname are dropped
func (e *Extractor) giftUser(text string) string {
	idx := strings.Index(text, giftVerb)
	if idx < 0 {
		// bare-verb side ticker form: "user 送 name"
		if m := sendPrefixRe.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	prefix := strings.TrimSpace(text[:idx])
	if prefix == "" {
		return ""
	}

	// walk upward past gift vocabulary so reversed layouts, where the gift
	// renders above the sender, still resolve the nickname. The bottom line
	// stands when nothing above qualifies: some senders are nicknamed after
	// a gift
	lines := strings.Split(prefix, "\n")
	user := ""
	for i := len(lines) - 1; i >= 0; i-- {
		cand := strings.TrimSpace(lines[i])
		if cand == "" {
			continue
		}
		if user == "" {
			user = cand
		}
		if !e.giftNameToken(cand) {
			user = cand
			break
		}
	}
	if len([]rune(user)) > maxUserRunes || !e.pack.PlausibleUser(user) {
		return ""
	}
	return user
}

// giftName runs the recovery cascade. Each strategy is tried in order and the
// first non-empty survivor of cleanup wins
func (e *Extractor) giftName(text, user, imageAlt string) string {
	before, after := "", text
	if idx := strings.Index(text, giftVerb); idx >= 0 {
		before, after = text[:idx], text[idx+len(giftVerb):]
	}

	strategies := []func() string{
		func() string {
			name, _ := e.pack.FindName(after)
			return name
		},
		func() string {
			name, _ := e.pack.MatchArchetype(after)
			return name
		},
		func() string { return e.scanFragments(after, user) },
		func() string { return e.scanBackward(before, user) },
		func() string { return imageAlt },
	}
	for _, s := range strategies {
		if name := cleanName(s()); name != "" {
			return name
		}
	}
	return ""
}

// scanFragments walks whitespace-separated tokens after the verb and keeps
// the first one that is not a quantity, a verb, or the sender
func (e *Extractor) scanFragments(after, user string) string {
	after = countStripRe.ReplaceAllString(after, "")
	for _, frag := range strings.Fields(after) {
		frag = strings.TrimSpace(pstrings.TrimSeparators(frag))
		if frag == "" || frag == user {
			continue
		}
		if isQuantityToken(frag) || strings.Contains(frag, "送") {
			continue
		}
		return frag
	}
	return ""
}

// scanBackward walks fragments before the verb in reverse for reversed
// layouts where the gift renders above the sender. Only vocabulary or
// archetype hits qualify; arbitrary fragments stay forward-only so nickname
// decorations above the verb never masquerade as gifts
func (e *Extractor) scanBackward(before, user string) string {
	before = countStripRe.ReplaceAllString(before, "")
	frags := strings.Fields(before)
	for i := len(frags) - 1; i >= 0; i-- {
		frag := strings.TrimSpace(pstrings.TrimSeparators(frags[i]))
		if frag == "" || frag == user {
			continue
		}
		if isQuantityToken(frag) || strings.Contains(frag, "送") {
			continue
		}
		if e.giftNameToken(frag) {
			return frag
		}
	}
	return ""
}

func (e *Extractor) giftNameToken(s string) bool {
	if e.pack.KnownName(s) {
		return true
	}
	_, ok := e.pack.MatchArchetype(s)
	return ok
}

// cleanName strips quantity suffixes, cuts at structural breaks and rejects
// entry-notice fragments
func cleanName(name string) string {
	name = countStripRe.ReplaceAllString(name, "")
	if idx := strings.IndexAny(name, "：:\n"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "None" {
		return ""
	}
	if strings.HasSuffix(name, comeSuffix) {
		return ""
	}
	return name
}

func (e *Extractor) plausibleGiftName(name, user string) bool {
	if len([]rune(name)) >= maxNameRunes {
		return false
	}
	if e.pack.KnownName(name) {
		return true
	}
	if _, ok := e.pack.MatchArchetype(name); ok {
		return true
	}
	return name != user && !digitsRe.MatchString(name)
}

func parseGiftCount(text string) int64 {
	if m := countMultRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return n
		}
	}
	if m := countUnitRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.ParseInt(m[1], 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func isQuantityToken(s string) bool {
	switch s {
	case "×", "x", "X", "个":
		return true
	}
	if digitsRe.MatchString(s) {
		return true
	}
	return countStripRe.MatchString(s)
}
