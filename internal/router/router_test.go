package router

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/awfufu/go-statbot/internal/cmds"
	"github.com/awfufu/go-statbot/internal/llm"
	"github.com/awfufu/go-statbot/internal/stats"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu     sync.Mutex
	sent   []string
	failAt int // 1-based send that fails, 0 never
}

func (s *sink) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.sent)+1 == s.failAt {
		return errors.New("transport closed")
	}
	s.sent = append(s.sent, text)
	return nil
}

type fakeContact struct {
	sink
	name  string
	alias string
}

func (c *fakeContact) Name() string  { return c.name }
func (c *fakeContact) Alias() string { return c.alias }

type fakeRoom struct {
	sink
	topic string
}

func (r *fakeRoom) Topic(ctx context.Context) (string, error) { return r.topic, nil }

type fakeMessage struct {
	talker  *fakeContact
	room    *fakeRoom
	text    string
	notText bool
	mention string
	self    bool
}

func (m *fakeMessage) Talker() Contact { return m.talker }
func (m *fakeMessage) To() string      { return "bot" }
func (m *fakeMessage) Text() string    { return m.text }
func (m *fakeMessage) IsText() bool    { return !m.notText }
func (m *fakeMessage) Self() bool      { return m.self }

func (m *fakeMessage) Room() Room {
	if m.room == nil {
		return nil
	}
	return m.room
}

func (m *fakeMessage) MentionText(ctx context.Context) (string, error) {
	return m.mention, nil
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Reply(ctx context.Context, question string, kind llm.ServiceKind) (string, error) {
	args := m.Called(question, kind)
	return args.String(0), args.Error(1)
}

func testConfig(prefix string) *Config {
	return &Config{
		BotName:        "@statbot",
		Prefix:         prefix,
		AliasWhitelist: map[string]struct{}{"alice": {}},
		RoomWhitelist:  map[string]struct{}{"ladder": {}},
		Service:        llm.Kimi,
		SystemAccount:  DefaultSystemAccount,
	}
}

func newTestRouter(prefix string, ai Completer) *Router {
	return New(testConfig(prefix), cmds.New(stats.Stub{}, prefix), ai, log.New(io.Discard))
}

func TestClassify(t *testing.T) {
	cfg := testConfig("")

	cases := []struct {
		name string
		in   Inbound
		want Eligibility
	}{
		{"direct by name", Inbound{Name: "alice", IsText: true}, Eligibility{Direct: true}},
		{"direct by alias", Inbound{Name: "a1", Alias: "alice", IsText: true}, Eligibility{Direct: true}},
		{"direct unknown", Inbound{Name: "mallory", IsText: true}, Eligibility{}},
		{"direct non text", Inbound{Name: "alice"}, Eligibility{}},
		{"group mentioned", Inbound{Name: "bob", Text: "@statbot 排行榜", IsText: true, HasRoom: true, Topic: "ladder"}, Eligibility{Group: true}},
		{"group not mentioned", Inbound{Name: "bob", Text: "排行榜", IsText: true, HasRoom: true, Topic: "ladder"}, Eligibility{}},
		{"group not listed", Inbound{Name: "bob", Text: "@statbot 排行榜", IsText: true, HasRoom: true, Topic: "other"}, Eligibility{}},
		{"group whitelisted sender", Inbound{Name: "alice", Text: "hi", IsText: true, HasRoom: true, Topic: "ladder"}, Eligibility{}},
		{"self echo", Inbound{Name: "statbot", Text: "@statbot hi", IsText: true, HasRoom: true, Topic: "ladder"}, Eligibility{SelfEcho: true, Group: true}},
		{"self echo by alias", Inbound{Name: "x", Alias: "statbot", IsText: true}, Eligibility{SelfEcho: true}},
		{"self reported by transport", Inbound{Name: "alice", Self: true, IsText: true}, Eligibility{SelfEcho: true, Direct: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.in, cfg)
			require.Equal(t, tc.want, got)
			require.False(t, got.Group && got.Direct)
		})
	}
	require.False(t, Classify(Inbound{Name: "statbot", IsText: true}, cfg).Eligible())
}

func TestQuestion(t *testing.T) {
	require.True(t, HasTrigger("anything", ""))
	require.True(t, HasTrigger("/ai hello", "/ai"))
	require.False(t, HasTrigger("hello", "/ai"))

	require.Equal(t, "hello", Question("/ai hello", "/ai"))
	require.Equal(t, "hello /ai", Question("/ai hello /ai", "/ai"))
	require.Equal(t, "what is elo", Question("what is elo", ""))
}

func TestChunks(t *testing.T) {
	long := strings.Repeat("a", 1200)
	chunks := Chunks(long)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 500)
	require.Len(t, chunks[1], 500)
	require.Len(t, chunks[2], 200)
	require.Equal(t, long, strings.Join(chunks, ""))

	chunks = Chunks(strings.Repeat("b", 500))
	require.Len(t, chunks, 2)
	require.Len(t, chunks[0], 500)
	require.Empty(t, chunks[1])

	require.Equal(t, []string{""}, Chunks(""))
	require.Len(t, Chunks(strings.Repeat("c", 499)), 1)

	wide := strings.Repeat("中", 501)
	chunks = Chunks(wide)
	require.Len(t, chunks, 2)
	require.Equal(t, 500, len([]rune(chunks[0])))
	require.Equal(t, "中", chunks[1])
}

func TestEmitOrderAndAbort(t *testing.T) {
	ctx := context.Background()

	s := &sink{}
	require.NoError(t, Emit(ctx, s, strings.Repeat("x", 1200)))
	require.Len(t, s.sent, 3)
	require.Len(t, s.sent[2], 200)

	s = &sink{failAt: 2}
	err := Emit(ctx, s, strings.Repeat("x", 1200))
	require.ErrorContains(t, err, "send chunk 2")
	require.Len(t, s.sent, 1)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	s = &sink{}
	require.ErrorIs(t, Emit(cancelled, s, "hi"), context.Canceled)
	require.Empty(t, s.sent)
}

func TestDirectCommandReply(t *testing.T) {
	ai := &mockCompleter{}
	r := newTestRouter("/ai", ai)
	alice := &fakeContact{name: "alice"}

	out := r.Handle(context.Background(), &fakeMessage{talker: alice, text: "查询VP"})

	require.NoError(t, out.Err)
	require.Equal(t, "player", out.Route)
	require.Equal(t, []string{"玩家信息 VP"}, alice.sent)
	ai.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything)
}

func TestDirectSelfDefaultsToAlias(t *testing.T) {
	r := newTestRouter("/ai", &mockCompleter{})
	alice := &fakeContact{name: "wx_alice", alias: "alice"}

	r.Handle(context.Background(), &fakeMessage{talker: alice, text: "个人日报"})

	require.Equal(t, []string{"个人日报 alice"}, alice.sent)
}

func TestNeverRepliesToNonText(t *testing.T) {
	r := newTestRouter("", &mockCompleter{})
	alice := &fakeContact{name: "alice"}
	room := &fakeRoom{topic: "ladder"}

	r.Handle(context.Background(), &fakeMessage{talker: alice, text: "查询VP", notText: true})
	r.Handle(context.Background(), &fakeMessage{talker: alice, room: room, text: "@statbot 查询VP", notText: true})

	require.Empty(t, alice.sent)
	require.Empty(t, room.sent)
}

func TestNeverRepliesToSelfEcho(t *testing.T) {
	r := newTestRouter("", &mockCompleter{})
	bot := &fakeContact{name: "statbot"}
	room := &fakeRoom{topic: "ladder"}

	out := r.Handle(context.Background(), &fakeMessage{talker: bot, room: room, text: "@statbot 排行榜"})

	require.Empty(t, out.Route)
	require.Empty(t, room.sent)
}

func TestNeverRepliesToOwnAccount(t *testing.T) {
	r := newTestRouter("", &mockCompleter{})
	bot := &fakeContact{name: "群里的机器人", alias: "stats"}
	room := &fakeRoom{topic: "ladder"}

	out := r.Handle(context.Background(), &fakeMessage{talker: bot, room: room, self: true, text: "@statbot 排行榜"})

	require.Empty(t, out.Route)
	require.Empty(t, room.sent)
}

func TestGroupCommandReply(t *testing.T) {
	r := newTestRouter("/ai", &mockCompleter{})
	bob := &fakeContact{name: "bob"}
	room := &fakeRoom{topic: "ladder"}

	out := r.Handle(context.Background(), &fakeMessage{talker: bob, room: room, text: "@statbot 排行榜10"})

	require.Equal(t, "leaderboard_n", out.Route)
	require.Equal(t, []string{"排行榜 10"}, room.sent)
	require.Empty(t, bob.sent)
}

func TestGroupNeedsMentionAndWhitelist(t *testing.T) {
	r := newTestRouter("", &mockCompleter{})
	bob := &fakeContact{name: "bob"}
	listed := &fakeRoom{topic: "ladder"}
	other := &fakeRoom{topic: "other"}

	r.Handle(context.Background(), &fakeMessage{talker: bob, room: listed, text: "排行榜"})
	r.Handle(context.Background(), &fakeMessage{talker: bob, room: other, text: "@statbot 排行榜"})

	require.Empty(t, listed.sent)
	require.Empty(t, other.sent)
}

func TestFallbackEmptyPrefixForwardsVerbatim(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "what is elo?", llm.Kimi).Return("a rating", nil).Once()
	r := newTestRouter("", ai)
	alice := &fakeContact{name: "alice"}

	out := r.Handle(context.Background(), &fakeMessage{talker: alice, text: "  what is elo?  "})

	require.NoError(t, out.Err)
	require.Equal(t, RouteAI, out.Route)
	require.Equal(t, []string{"a rating"}, alice.sent)
	ai.AssertExpectations(t)
}

func TestFallbackPrefix(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "hello", llm.Kimi).Return("hi there", nil).Once()
	r := newTestRouter("/ai", ai)
	alice := &fakeContact{name: "alice"}

	out := r.Handle(context.Background(), &fakeMessage{talker: alice, text: "hello"})
	require.Empty(t, out.Route)
	require.Empty(t, alice.sent)

	out = r.Handle(context.Background(), &fakeMessage{talker: alice, text: "/ai hello"})
	require.Equal(t, RouteAI, out.Route)
	require.Equal(t, []string{"hi there"}, alice.sent)
	ai.AssertExpectations(t)
}

func TestGroupFallbackPrefersMentionText(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "/ai who is VP", llm.Kimi).Return("a player", nil).Once()
	r := newTestRouter("/ai", ai)
	room := &fakeRoom{topic: "ladder"}

	r.Handle(context.Background(), &fakeMessage{
		talker:  &fakeContact{name: "bob"},
		room:    room,
		text:    "@statbot /ai who is VP",
		mention: "/ai who is VP",
	})

	require.Equal(t, []string{"a player"}, room.sent)
	ai.AssertExpectations(t)
}

func TestGroupFallbackWithoutMentionText(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "who is VP", llm.Kimi).Return("a player", nil).Once()
	r := newTestRouter("/ai", ai)
	room := &fakeRoom{topic: "ladder"}

	r.Handle(context.Background(), &fakeMessage{
		talker: &fakeContact{name: "bob"},
		room:   room,
		text:   "@statbot /ai who is VP",
	})

	require.Equal(t, []string{"a player"}, room.sent)
	ai.AssertExpectations(t)
}

func TestCompletionFailureIsContained(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "hello", llm.Kimi).Return("", errors.New("rate limited")).Once()
	r := newTestRouter("/ai", ai)
	alice := &fakeContact{name: "alice"}

	out := r.Handle(context.Background(), &fakeMessage{talker: alice, text: "/ai hello"})

	require.ErrorContains(t, out.Err, "rate limited")
	require.Empty(t, alice.sent)
}

func TestLongAnswerIsChunked(t *testing.T) {
	ai := &mockCompleter{}
	ai.On("Reply", "essay", llm.Kimi).Return(strings.Repeat("z", 1200), nil).Once()
	r := newTestRouter("", ai)
	alice := &fakeContact{name: "alice"}

	r.Handle(context.Background(), &fakeMessage{talker: alice, text: "essay"})

	require.Len(t, alice.sent, 3)
	require.Len(t, alice.sent[0], 500)
	require.Len(t, alice.sent[1], 500)
	require.Len(t, alice.sent[2], 200)
}
