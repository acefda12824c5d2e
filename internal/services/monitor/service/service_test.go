package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"danmukit/internal/core/giftpack"
	"danmukit/internal/platform/testkit"
	"danmukit/internal/services/monitor/domain"
)

type fakeSource struct {
	mu      sync.Mutex
	batches [][]domain.RawBlock
}

func (f *fakeSource) Fetch(context.Context) ([]domain.RawBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		return nil, io.EOF
	}
	b := f.batches[0]
	f.batches = f.batches[1:]
	return b, nil
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []domain.Event
}

func (f *fakeEmitter) Emit(_ context.Context, ev domain.Event) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	return nil
}

func (f *fakeEmitter) all() []domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, len(f.events))
	copy(out, f.events)
	return out
}

type fakeStats struct {
	mu    sync.Mutex
	chats []string
}

func (f *fakeStats) RecordChat(user, content string, _ time.Time) {
	f.mu.Lock()
	f.chats = append(f.chats, user+"|"+content)
	f.mu.Unlock()
}
func (f *fakeStats) RecordGift(string, string, int64, time.Time) {}
func (f *fakeStats) RecordRealtime(string, string, time.Time)    {}
func (f *fakeStats) RecordViewerCount(int64, time.Time)          {}
func (f *fakeStats) RecordLikeCount(int64, time.Time)            {}

func newTestSession(t *testing.T, cfg Config, ports domain.Ports) *Session {
	t.Helper()
	pack, err := giftpack.Load()
	if err != nil {
		t.Fatalf("giftpack.Load: %v", err)
	}
	if ports.Emitter == nil {
		ports.Emitter = &fakeEmitter{}
	}
	if ports.Source == nil {
		ports.Source = &fakeSource{}
	}
	return New(ports, pack, cfg, nil)
}

func TestChatPipeline(t *testing.T) {
	stats := &fakeStats{}
	s := newTestSession(t, Config{}, domain.Ports{Stats: stats})
	now := time.Unix(1000, 0)

	evs := s.ProcessBlock(domain.RawBlock{Text: "小明：你好呀", Hint: domain.HintList}, now)
	if len(evs) != 1 {
		t.Fatalf("events: %d", len(evs))
	}
	ev := evs[0]
	if ev.Kind != domain.KindChat || ev.User != "小明" || ev.Content != "你好呀" {
		t.Fatalf("event: %+v", ev)
	}

	// the identical block within the TTL is the same logical message
	if evs := s.ProcessBlock(domain.RawBlock{Text: "小明：你好呀", Hint: domain.HintList}, now.Add(2*time.Second)); len(evs) != 0 {
		t.Fatalf("dup not suppressed: %+v", evs)
	}

	// the stats sink saw the message exactly once
	if len(stats.chats) != 1 || stats.chats[0] != "小明|你好呀" {
		t.Fatalf("stats: %v", stats.chats)
	}
}

func TestChatReemitsAfterTTL(t *testing.T) {
	s := newTestSession(t, Config{ChatTTL: 10 * time.Second}, domain.Ports{})
	now := time.Unix(1000, 0)

	s.ProcessBlock(domain.RawBlock{Text: "小明：在吗", Hint: domain.HintList}, now)
	evs := s.ProcessBlock(domain.RawBlock{Text: "小明：在吗", Hint: domain.HintList}, now.Add(11*time.Second))
	if len(evs) != 1 {
		t.Fatalf("repeat past TTL must re-emit, got %d", len(evs))
	}
}

func TestSelfAndAltChatFiltered(t *testing.T) {
	stats := &fakeStats{}
	s := newTestSession(t, Config{
		SelfNickname: "主播本人",
		AltNicknames: []string{"直播小号"},
	}, domain.Ports{Stats: stats})
	now := time.Unix(1000, 0)

	for _, text := range []string{"主播本人：欢迎大家", "直播小号：赞一个", "我是直播小号哦：哈哈"} {
		if evs := s.ProcessBlock(domain.RawBlock{Text: text, Hint: domain.HintList}, now); len(evs) != 0 {
			t.Fatalf("%q must be filtered, got %+v", text, evs)
		}
	}
	if len(stats.chats) != 0 {
		t.Fatalf("filtered chat must not reach stats: %v", stats.chats)
	}
}

func TestGiftPipelineWithComboUpdate(t *testing.T) {
	s := newTestSession(t, Config{}, domain.Ports{})
	now := time.Unix(1000, 0)

	evs := s.ProcessBlock(domain.RawBlock{Text: "小红\n送出了 小心心 × 3"}, now)
	if len(evs) != 1 || evs[0].Kind != domain.KindGift {
		t.Fatalf("gift: %+v", evs)
	}
	if evs[0].User != "小红" || evs[0].GiftName != "小心心" || evs[0].Count != 3 || evs[0].Update {
		t.Fatalf("gift fields: %+v", evs[0])
	}

	// identical render within the TTL
	if evs := s.ProcessBlock(domain.RawBlock{Text: "小红\n送出了 小心心 × 3"}, now.Add(5*time.Second)); len(evs) != 0 {
		t.Fatalf("gift dup: %+v", evs)
	}

	// the combo grew
	evs = s.ProcessBlock(domain.RawBlock{Text: "小红\n送出了 小心心 × 5"}, now.Add(8*time.Second))
	if len(evs) != 1 || !evs[0].Update || evs[0].Count != 5 {
		t.Fatalf("combo update: %+v", evs)
	}
}

func TestMissingGiftNameDiagnostic(t *testing.T) {
	s := newTestSession(t, Config{}, domain.Ports{})
	now := time.Unix(1000, 0)

	// chat-region gift mention with no recoverable name
	if evs := s.ProcessBlock(domain.RawBlock{Text: "用户A：送出了 × 1", Hint: domain.HintList}, now); len(evs) != 0 {
		t.Fatalf("mention must not emit: %+v", evs)
	}

	diags := s.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics: %d", len(diags))
	}
	if diags[0].Code != "missing_gift_name" || diags[0].Category != "gift" {
		t.Fatalf("diagnostic: %+v", diags[0])
	}
}

func TestViewerCountGating(t *testing.T) {
	s := newTestSession(t, Config{}, domain.Ports{})
	now := time.Unix(1000, 0)

	evs := s.ProcessBlock(domain.RawBlock{Text: "1.2万", Hint: domain.HintPanel}, now)
	if len(evs) != 1 || evs[0].Kind != domain.KindViewerCount || evs[0].Count != 12000 || evs[0].Raw != "1.2万" {
		t.Fatalf("viewer count: %+v", evs)
	}

	// unchanged value
	if evs := s.ProcessBlock(domain.RawBlock{Text: "1.2万", Hint: domain.HintPanel}, now.Add(10*time.Second)); len(evs) != 0 {
		t.Fatalf("unchanged counter: %+v", evs)
	}
	// changed but inside the gate
	if evs := s.ProcessBlock(domain.RawBlock{Text: "1.3万", Hint: domain.HintPanel}, now.Add(2*time.Second)); len(evs) != 0 {
		t.Fatalf("gated counter: %+v", evs)
	}
	// changed and past the gate
	evs = s.ProcessBlock(domain.RawBlock{Text: "1.3万", Hint: domain.HintPanel}, now.Add(6*time.Second))
	if len(evs) != 1 || evs[0].Count != 13000 {
		t.Fatalf("counter change: %+v", evs)
	}
}

func TestLikeCountPipeline(t *testing.T) {
	s := newTestSession(t, Config{}, domain.Ports{})
	now := time.Unix(1000, 0)

	evs := s.ProcessBlock(domain.RawBlock{Text: "3.5万本场点赞", Hint: domain.HintPanel}, now)
	if len(evs) != 1 || evs[0].Kind != domain.KindLikeCount || evs[0].Count != 35000 {
		t.Fatalf("like count: %+v", evs)
	}
}

func TestRealtimePipeline(t *testing.T) {
	s := newTestSession(t, Config{}, domain.Ports{})
	now := time.Unix(1000, 0)

	evs := s.ProcessBlock(domain.RawBlock{Text: "小刚加入了直播间", Hint: domain.HintList}, now)
	if len(evs) != 1 || evs[0].Kind != domain.KindRealtime || evs[0].Info != domain.InfoEnter || evs[0].User != "小刚" {
		t.Fatalf("realtime: %+v", evs)
	}
	// the same join within the TTL is one event
	if evs := s.ProcessBlock(domain.RawBlock{Text: "小刚加入了直播间", Hint: domain.HintList}, now.Add(3*time.Second)); len(evs) != 0 {
		t.Fatalf("realtime dup: %+v", evs)
	}
}

func TestRunDrainsAndStopsOnEOF(t *testing.T) {
	src := &fakeSource{batches: [][]domain.RawBlock{
		{
			{Text: "小明：你好呀", Hint: domain.HintList},
			{Text: "小红\n送出了 玫瑰 × 2"},
		},
	}}
	em := &fakeEmitter{}
	s := newTestSession(t, Config{Interval: time.Millisecond}, domain.Ports{Source: src, Emitter: em})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	evs := em.all()
	if len(evs) != 2 {
		t.Fatalf("emitted: %+v", evs)
	}
	if evs[0].Kind != domain.KindChat || evs[1].Kind != domain.KindGift {
		t.Fatalf("order: %+v", evs)
	}
}

func TestRunStampsEventsWithScanClock(t *testing.T) {
	src := &fakeSource{batches: [][]domain.RawBlock{
		{{Text: "小明：早上好", Hint: domain.HintList}},
	}}
	em := &fakeEmitter{}
	s := newTestSession(t, Config{Interval: time.Millisecond}, domain.Ports{Source: src, Emitter: em})

	at := time.Unix(5000, 0)
	testkit.Swap(t, &s.now, func() time.Time { return at })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	evs := em.all()
	if len(evs) != 1 || !evs[0].At.Equal(at) {
		t.Fatalf("events: %+v", evs)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	// an endless empty source
	src := sourceFunc(func(ctx context.Context) ([]domain.RawBlock, error) {
		return nil, nil
	})
	s := newTestSession(t, Config{Interval: time.Millisecond}, domain.Ports{Source: src, Emitter: &fakeEmitter{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

type sourceFunc func(ctx context.Context) ([]domain.RawBlock, error)

func (f sourceFunc) Fetch(ctx context.Context) ([]domain.RawBlock, error) { return f(ctx) }
