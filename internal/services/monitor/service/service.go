// Package service implements the monitor session pipeline: scan, classify,
// extract, dedup, filter, emit
package service

import (
	"sync"
	"time"

	"danmukit/internal/core/cadence"
	"danmukit/internal/core/classify"
	"danmukit/internal/core/extract"
	"danmukit/internal/core/fingerprint"
	"danmukit/internal/core/giftpack"
	"danmukit/internal/core/normalize"
	perr "danmukit/internal/platform/errors"
	"danmukit/internal/platform/logger"
	pstrings "danmukit/internal/platform/strings"
	"danmukit/internal/services/monitor/domain"
)

// Config tunes a Session
type Config struct {
	SelfNickname string
	AltNicknames []string

	// Interval is the tick used until cadence has enough samples
	Interval time.Duration
	// FixedInterval pins the tick to Interval and disables cadence adaptation
	FixedInterval bool

	ChatTTL     time.Duration
	RealtimeTTL time.Duration
	GiftTTL     time.Duration
	CacheMax    int

	// CounterGate is the minimum spacing between counter emissions
	CounterGate time.Duration

	Cadence cadence.Config

	// DiagSize bounds the drop-diagnostics ring
	DiagSize int
	// EmitBuffer sizes the dispatch queue between scan and consumer
	EmitBuffer int
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = 500 * time.Millisecond
	}
	if c.ChatTTL <= 0 {
		c.ChatTTL = 10 * time.Second
	}
	if c.RealtimeTTL <= 0 {
		c.RealtimeTTL = 10 * time.Second
	}
	if c.GiftTTL <= 0 {
		c.GiftTTL = 60 * time.Second
	}
	if c.CacheMax <= 0 {
		c.CacheMax = fingerprint.DefaultMaxEntries
	}
	if c.CounterGate <= 0 {
		c.CounterGate = 5 * time.Second
	}
	if c.DiagSize <= 0 {
		c.DiagSize = 100
	}
	if c.EmitBuffer <= 0 {
		c.EmitBuffer = 256
	}
}

type counterState struct {
	value int64
	at    time.Time
	has   bool
}

// Session is one goroutine-confined monitoring pipeline. Only the chat
// filter and the diagnostics ring are touched from outside the scan loop
type Session struct {
	log *logger.Logger
	cfg Config

	norm *normalize.Normalizer
	cls  *classify.Classifier
	ext  *extract.Extractor

	filter   *ChatFilter
	chatSeen *fingerprint.Cache
	rtSeen   *fingerprint.Cache
	gifts    *giftLedger
	cad      *cadence.Controller

	viewer counterState
	like   counterState

	source  domain.SourcePort
	emitter domain.EmitterPort
	stats   domain.StatsRecorderPort

	diagMu sync.Mutex
	diag   []domain.Diagnostic
	dnext  int
	dfull  bool

	now func() time.Time
}

// New constructs a Session over the injected ports
func New(ports domain.Ports, pack *giftpack.Pack, cfg Config, log *logger.Logger) *Session {
	cfg.defaults()
	if cfg.Cadence.Default <= 0 {
		cfg.Cadence.Default = cfg.Interval
	}
	return &Session{
		log:      log,
		cfg:      cfg,
		norm:     normalize.New(),
		cls:      classify.New(pack),
		ext:      extract.New(pack),
		filter:   NewChatFilter(cfg.SelfNickname, cfg.AltNicknames),
		chatSeen: fingerprint.New(fingerprint.Config{TTL: cfg.ChatTTL, MaxEntries: cfg.CacheMax}),
		rtSeen:   fingerprint.New(fingerprint.Config{TTL: cfg.RealtimeTTL, MaxEntries: cfg.CacheMax}),
		gifts:    newGiftLedger(cfg.GiftTTL, cfg.CacheMax),
		cad:      cadence.New(cfg.Cadence),
		source:   ports.Source,
		emitter:  ports.Emitter,
		stats:    ports.Stats,
		diag:     make([]domain.Diagnostic, cfg.DiagSize),
		now:      time.Now,
	}
}

// SetSelfNickname satisfies domain.SessionPort
func (s *Session) SetSelfNickname(name string) { s.filter.SetSelf(name) }

// SetAltNicknames satisfies domain.SessionPort
func (s *Session) SetAltNicknames(names []string) { s.filter.SetAlts(names) }

// ProcessBlock runs one block through the pipeline and returns the events to
// emit, in order. Zero events is the common case
func (s *Session) ProcessBlock(b domain.RawBlock, now time.Time) []domain.Event {
	text := s.norm.Normalize(b.Text)
	if text == "" {
		return nil
	}

	switch s.cls.Classify(text, hintOf(b.Hint)) {
	case classify.CatGift:
		return s.onGift(text, s.norm.Normalize(b.ImageAlt), now)
	case classify.CatChat:
		return s.onChat(text, now)
	case classify.CatRealtime:
		return s.onRealtime(text, now)
	case classify.CatViewerCount:
		return s.onCounter(text, domain.KindViewerCount, &s.viewer, now)
	case classify.CatLikeCount:
		return s.onCounter(text, domain.KindLikeCount, &s.like, now)
	default:
		if s.cls.GiftMentionWithoutName(text) {
			s.record("gift", perr.MissingGiftNamef("gift mention carries no name"), text, now)
		}
		return nil
	}
}

func (s *Session) onGift(text, imageAlt string, now time.Time) []domain.Event {
	g, err := s.ext.Gift(text, imageAlt)
	if err != nil {
		s.record("gift", err, text, now)
		return nil
	}

	emit, update := s.gifts.Observe(g.User, g.Name, g.Count, now)
	if !emit {
		return nil
	}

	if !s.cfg.FixedInterval {
		s.cad.Observe(now)
	}
	if s.stats != nil && !update {
		s.stats.RecordGift(g.User, g.Name, g.Count, now)
	}
	return []domain.Event{{
		Kind:     domain.KindGift,
		At:       now,
		User:     g.User,
		GiftName: g.Name,
		Count:    g.Count,
		Update:   update,
	}}
}

func (s *Session) onChat(text string, now time.Time) []domain.Event {
	c, err := s.ext.Chat(text)
	if err != nil {
		s.record("chat", err, text, now)
		return nil
	}
	if !s.filter.Admit(c.User, c.Content) {
		return nil
	}
	if s.chatSeen.Seen(domain.ChatKey(c.User, c.Content), now) {
		return nil
	}
	if s.stats != nil {
		s.stats.RecordChat(c.User, c.Content, now)
	}
	return []domain.Event{{
		Kind:    domain.KindChat,
		At:      now,
		User:    c.User,
		Content: c.Content,
	}}
}

func (s *Session) onRealtime(text string, now time.Time) []domain.Event {
	rt, err := s.ext.Realtime(text)
	if err != nil {
		s.record("realtime", err, text, now)
		return nil
	}
	info := domain.InfoType(rt.Info)
	if s.rtSeen.Seen(domain.RealtimeKey(info, rt.User), now) {
		return nil
	}
	if s.stats != nil {
		s.stats.RecordRealtime(rt.Info, rt.User, now)
	}
	ev := domain.Event{
		Kind: domain.KindRealtime,
		At:   now,
		User: rt.User,
		Info: info,
	}
	if info == domain.InfoScore && rt.Score > 0 {
		ev.Count = rt.Score
	}
	return []domain.Event{ev}
}

// onCounter emits a counter only when its value changed and the previous
// emission is at least CounterGate old
func (s *Session) onCounter(text string, kind domain.Kind, st *counterState, now time.Time) []domain.Event {
	v, raw, err := s.ext.Counter(text)
	if err != nil {
		s.record(string(kind), err, text, now)
		return nil
	}
	if st.has && (v == st.value || now.Sub(st.at) < s.cfg.CounterGate) {
		return nil
	}
	st.value, st.at, st.has = v, now, true

	if s.stats != nil {
		switch kind {
		case domain.KindViewerCount:
			s.stats.RecordViewerCount(v, now)
		case domain.KindLikeCount:
			s.stats.RecordLikeCount(v, now)
		}
	}
	return []domain.Event{{Kind: kind, At: now, Count: v, Raw: raw}}
}

// Diagnostics satisfies domain.SessionPort; oldest entry first
func (s *Session) Diagnostics() []domain.Diagnostic {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()

	if !s.dfull {
		out := make([]domain.Diagnostic, s.dnext)
		copy(out, s.diag[:s.dnext])
		return out
	}
	out := make([]domain.Diagnostic, 0, len(s.diag))
	out = append(out, s.diag[s.dnext:]...)
	out = append(out, s.diag[:s.dnext]...)
	return out
}

func (s *Session) record(category string, err error, text string, now time.Time) {
	code := perr.CodeOf(err).String()
	if s.log != nil {
		s.log.Debug().
			Str("category", category).
			Str("code", code).
			Str("text", pstrings.Truncate(text, 80)).
			Msg("block dropped")
	}

	s.diagMu.Lock()
	s.diag[s.dnext] = domain.Diagnostic{
		Category: category,
		Code:     code,
		Text:     pstrings.Truncate(text, 80),
		At:       now,
	}
	s.dnext = (s.dnext + 1) % len(s.diag)
	if s.dnext == 0 {
		s.dfull = true
	}
	s.diagMu.Unlock()
}

func hintOf(h domain.SourceHint) classify.Hint {
	switch h {
	case domain.HintPanel:
		return classify.HintPanel
	case domain.HintList:
		return classify.HintList
	default:
		return classify.HintUnknown
	}
}
