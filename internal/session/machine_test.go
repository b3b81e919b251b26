package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/kana"
	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/vocab"
)

var t0 = time.Date(2026, 4, 1, 16, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

type fakeTutor struct {
	replies []string
	err     error
	calls   []fakeCall
}

type fakeCall struct {
	mode    lessons.Mode
	history []llm.Message
	message string
}

func (f *fakeTutor) Reply(_ context.Context, mode lessons.Mode, history []llm.Message, message string) (string, error) {
	f.calls = append(f.calls, fakeCall{mode, history, message})
	if f.err != nil {
		return "", f.err
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type fakeEnricher struct {
	items []vocab.Item
	asked [][]string
}

func (f *fakeEnricher) Enrich(_ context.Context, terms []string) []vocab.Item {
	f.asked = append(f.asked, terms)
	return f.items
}

type zeroRand struct{}

func (zeroRand) IntN(int) int { return 0 }

type fixture struct {
	m        *Machine
	progress *progress.Store
	tutor    *fakeTutor
	enricher *fakeEnricher
	clock    *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{t: t0}
	p, err := progress.New("kid-9", kv.NewMemory(), progress.WithClock(clock.now), progress.WithLocation(time.UTC))
	require.NoError(t, err)

	f := &fixture{progress: p, tutor: &fakeTutor{}, enricher: &fakeEnricher{}, clock: clock}
	ids := 0
	f.m = NewMachine(Deps{
		Progress: p,
		Tutor:    f.tutor,
		Enricher: f.enricher,
		Rand:     zeroRand{},
		NewID: func() string {
			ids++
			return "sess-" + string(rune('0'+ids))
		},
	})
	return f
}

func (f *fixture) seedWord(t *testing.T, term string, lastSeenAgo, dueIn time.Duration, romaji, english string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.progress.MergeObservedTerms(ctx, []string{term}, []vocab.Item{{Term: term, Romaji: romaji, English: english}})
	require.NoError(t, err)
	_, err = f.progress.UpdateWord(ctx, term, func(w *progress.WordEntry, now time.Time) {
		w.LastSeen = now.Add(-lastSeenAgo)
		w.NextReviewAt = now.Add(dueIn)
	})
	require.NoError(t, err)
}

func TestOpenMode_EmptyLedgerStartsDirectly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, v.Phase)
	assert.Equal(t, lessons.ModeFunChat, v.Mode)
	assert.Equal(t, "sess-1", v.SessionID)
	require.Len(t, v.Messages, 1)
	assert.Equal(t, Message{Role: llm.RoleAssistant, Content: lessons.ModeFunChat.Starter()}, v.Messages[0])

	st := f.progress.Snapshot(ctx)
	assert.Equal(t, 1, st.TotalSessions)
	assert.Equal(t, 1, st.DailySessions)
	assert.Empty(t, f.enricher.asked, "nothing to backfill")
}

func TestOpenMode_InvalidMode(t *testing.T) {
	f := newFixture(t)
	_, err := f.m.OpenMode(context.Background(), lessons.Mode("karaoke"))
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, PhaseHome, f.m.View().Phase)
}

func TestReview_DueWordThenMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedWord(t, "猫", 48*time.Hour, -24*time.Hour, "neko", "cat")

	v, err := f.m.OpenMode(ctx, lessons.ModeTraining5)
	require.NoError(t, err)
	assert.Equal(t, PhaseReviewing, v.Phase)
	assert.Equal(t, lessons.ModeTraining5, v.PendingMode)
	require.NotNil(t, v.Review)
	assert.Equal(t, ReviewCard{Term: "猫", Romaji: "neko", English: "cat", Index: 0, Total: 1}, *v.Review)
	assert.Zero(t, f.progress.Snapshot(ctx).TotalSessions)

	_, err = f.m.OpenMode(ctx, lessons.ModeFunChat)
	assert.ErrorIs(t, err, ErrReviewing)

	v, err = f.m.AnswerReview(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, PhaseActive, v.Phase)
	assert.Equal(t, lessons.ModeTraining5, v.Mode)
	assert.Nil(t, v.Review)
	assert.Equal(t, lessons.ModeTraining5.Starter(), v.Messages[0].Content)

	st := f.progress.Snapshot(ctx)
	w, _ := st.Word("猫")
	assert.True(t, w.NextReviewAt.Equal(t0.Add(72*time.Hour)))
	assert.True(t, w.LastSeen.Equal(t0))
	assert.Equal(t, 8, st.XP)
	assert.Equal(t, 1, st.TotalSessions)
}

func TestReview_FallbackQueueOfThree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedWord(t, "いち", 5*time.Hour, 24*time.Hour, "ichi", "one")
	f.seedWord(t, "に", 4*time.Hour, 24*time.Hour, "ni", "two")
	f.seedWord(t, "さん", 3*time.Hour, 24*time.Hour, "san", "three")
	f.seedWord(t, "よん", 1*time.Hour, 24*time.Hour, "yon", "four")

	v, err := f.m.OpenMode(ctx, lessons.ModeKanaMatch)
	require.NoError(t, err)
	require.Equal(t, PhaseReviewing, v.Phase)
	assert.Equal(t, "いち", v.Review.Term)
	assert.Equal(t, 3, v.Review.Total)

	v, _ = f.m.AnswerReview(ctx, false)
	assert.Equal(t, "に", v.Review.Term)
	v, _ = f.m.AnswerReview(ctx, true)
	assert.Equal(t, "さん", v.Review.Term)
	v, err = f.m.AnswerReview(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, PhaseActive, v.Phase)
	require.NotNil(t, v.Kana)
	assert.Equal(t, 3+8+3, f.progress.Snapshot(ctx).XP)

	_, err = f.m.AnswerReview(ctx, true)
	assert.ErrorIs(t, err, ErrNotReviewing)
}

func TestOpenMode_BackfillsMissingMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedWord(t, "すし", time.Hour, time.Hour, "", "")
	f.enricher.items = []vocab.Item{{Term: "すし", Romaji: "sushi", English: "sushi"}}

	v, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)

	require.Len(t, f.enricher.asked, 1)
	assert.Equal(t, []string{"すし"}, f.enricher.asked[0])
	require.NotNil(t, v.Review)
	assert.Equal(t, "sushi", v.Review.Romaji)
}

func TestKanaMatch_FiveRoundsThenHome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.m.OpenMode(ctx, lessons.ModeKanaMatch)
	require.NoError(t, err)
	require.NotNil(t, v.Kana)
	assert.Empty(t, v.Messages)
	assert.Equal(t, "あ", v.Kana.Kana, "zero rand always draws the first item")

	for i := 0; i < kana.Rounds-1; i++ {
		res, err := f.m.AnswerKana(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.False(t, res.Done)
	}

	res, err := f.m.AnswerKana(ctx, "wrong")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.True(t, res.Done)
	assert.Equal(t, "a", res.Answer)
	assert.Equal(t, PhaseHome, res.View.Phase)
	assert.Equal(t, "Good effort! Game complete.", res.View.Notice)
	require.NotNil(t, res.Summary)
	assert.Equal(t, 4, res.Summary.KanaScore)
	assert.Equal(t, 4*10+3, res.Summary.XPEarned)

	assert.Equal(t, 43, f.progress.Snapshot(ctx).XP)

	_, err = f.m.AnswerKana(ctx, "a")
	assert.ErrorIs(t, err, ErrNoKanaRound)
}

func TestSendChat_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedWord(t, "ねこ", time.Hour, time.Hour, "neko", "cat")
	f.tutor.replies = []string{"ねこ is cat, 犬 is dog"}
	f.enricher.items = []vocab.Item{{Term: "犬", Romaji: "inu", English: "dog"}}

	// Move past the review of ねこ.
	_, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)
	_, err = f.m.AnswerReview(ctx, true)
	require.NoError(t, err)
	xpBefore := f.progress.Snapshot(ctx).XP

	res, err := f.m.SendChat(ctx, "  what is dog?  ")
	require.NoError(t, err)
	assert.Equal(t, "ねこ is cat, 犬 is dog", res.Reply)
	assert.Equal(t, []string{"ねこ", "犬"}, res.Terms)
	assert.Empty(t, res.Notice)

	require.Len(t, res.View.Messages, 3)
	assert.Equal(t, Message{Role: llm.RoleUser, Content: "what is dog?"}, res.View.Messages[1])
	assert.Equal(t, llm.RoleAssistant, res.View.Messages[2].Role)

	require.Len(t, f.tutor.calls, 1)
	call := f.tutor.calls[0]
	assert.Equal(t, lessons.ModeFunChat, call.mode)
	assert.Equal(t, "what is dog?", call.message)
	require.Len(t, call.history, 1, "history excludes the message being sent")

	// Only the unknown term is enriched.
	require.Len(t, f.enricher.asked, 1)
	assert.Equal(t, []string{"犬"}, f.enricher.asked[0])

	st := f.progress.Snapshot(ctx)
	cat, _ := st.Word("ねこ")
	assert.Equal(t, 2, cat.Count)
	dog, ok := st.Word("犬")
	require.True(t, ok)
	assert.Equal(t, "inu", dog.Romaji)
	assert.Equal(t, 1, dog.Count)
	assert.Equal(t, xpBefore+12, st.XP)
}

func TestSendChat_FailureShowsNotice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.tutor.err = &llm.ErrProviderUnavailable{Err: errors.New("502")}

	_, err := f.m.OpenMode(ctx, lessons.ModeTraining10)
	require.NoError(t, err)
	xpBefore := f.progress.Snapshot(ctx).XP

	res, err := f.m.SendChat(ctx, "konnichiwa")
	require.NoError(t, err)
	assert.Equal(t, ChatErrorNotice, res.Notice)
	assert.Empty(t, res.Reply)
	require.Len(t, res.View.Messages, 2)
	assert.Equal(t, "konnichiwa", res.View.Messages[1].Content)
	assert.False(t, res.View.Busy)
	assert.Equal(t, xpBefore, f.progress.Snapshot(ctx).XP)

	// Retry is allowed and the notice clears.
	f.tutor.err = nil
	f.tutor.replies = []string{"Let's keep practicing!"}
	res, err = f.m.SendChat(ctx, "konnichiwa")
	require.NoError(t, err)
	assert.Empty(t, res.View.Notice)
}

func TestSendChat_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.m.SendChat(ctx, "hi")
	assert.ErrorIs(t, err, ErrNotInMode)

	_, err = f.m.OpenMode(ctx, lessons.ModeKanaMatch)
	require.NoError(t, err)
	_, err = f.m.SendChat(ctx, "hi")
	assert.ErrorIs(t, err, ErrNotInMode)

	_, err = f.m.SendChat(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

type gateTutor struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gateTutor) Reply(context.Context, lessons.Mode, []llm.Message, string) (string, error) {
	close(g.entered)
	<-g.release
	return "はい", nil
}

func TestSendChat_BusyGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gate := &gateTutor{entered: make(chan struct{}), release: make(chan struct{})}
	f.m.tutor = gate

	_, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.m.SendChat(ctx, "first")
		done <- err
	}()
	<-gate.entered

	assert.True(t, f.m.View().Busy)
	_, err = f.m.SendChat(ctx, "second")
	assert.ErrorIs(t, err, ErrBusy)
	_, _, err = f.m.BackHome(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	close(gate.release)
	require.NoError(t, <-done)
	assert.False(t, f.m.View().Busy)
	assert.Len(t, f.m.View().Messages, 3)
}

func TestBackHome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, s, err := f.m.BackHome(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, PhaseHome, v.Phase)

	f.tutor.replies = []string{"すし!"}
	_, err = f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)
	_, err = f.m.SendChat(ctx, "food?")
	require.NoError(t, err)

	f.clock.mu.Lock()
	f.clock.t = f.clock.t.Add(4 * time.Minute)
	f.clock.mu.Unlock()

	v, s, err = f.m.BackHome(ctx)
	require.NoError(t, err)
	assert.Equal(t, PhaseHome, v.Phase)
	assert.Empty(t, v.Messages)
	require.NotNil(t, s)
	assert.Equal(t, lessons.ModeFunChat, s.Mode)
	assert.Equal(t, 1, s.Turns)
	assert.Equal(t, 12, s.XPEarned)
	assert.Equal(t, 4*time.Minute, s.Duration)
	assert.Equal(t, s, f.m.LastSummary())

	// No progress side effects from going home.
	assert.Equal(t, 1, f.progress.Snapshot(ctx).TotalSessions)
}

func TestBackHome_DuringReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedWord(t, "山", time.Hour, -time.Hour, "yama", "mountain")

	_, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)
	_, _, err = f.m.BackHome(ctx)
	assert.ErrorIs(t, err, ErrNotInMode)
}

func TestOpenMode_FromActiveSwitchesMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.m.OpenMode(ctx, lessons.ModeFunChat)
	require.NoError(t, err)
	v, err := f.m.OpenMode(ctx, lessons.ModeKanaMatch)
	require.NoError(t, err)

	assert.Equal(t, lessons.ModeKanaMatch, v.Mode)
	assert.Equal(t, "sess-2", v.SessionID)
	require.NotNil(t, f.m.LastSummary())
	assert.Equal(t, lessons.ModeFunChat, f.m.LastSummary().Mode)
	assert.Equal(t, 2, f.progress.Snapshot(ctx).TotalSessions)
}

func TestTrimMessage(t *testing.T) {
	long := make([]rune, MaxMessageLength+50)
	for i := range long {
		long[i] = 'あ'
	}
	assert.Len(t, []rune(trimMessage(string(long))), MaxMessageLength)
	assert.Equal(t, "hi", trimMessage("  hi \n"))
}
