package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/abhisek/sensei/internal/kana"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/spacedrep"
	"github.com/abhisek/sensei/internal/terms"
	"github.com/abhisek/sensei/internal/vocab"
	"github.com/abhisek/sensei/internal/xp"
)

// Replier produces tutor replies. *tutor.Driver implements it.
type Replier interface {
	Reply(ctx context.Context, mode lessons.Mode, history []llm.Message, message string) (string, error)
}

// Deps are the collaborators of a Machine. Progress and Tutor are
// required; the rest have defaults.
type Deps struct {
	Progress *progress.Store
	Tutor    Replier
	Enricher vocab.Enricher
	Events   xp.EventAppender
	Rand     kana.Rand
	Log      *logger.Logger
	NewID    func() string
}

// Machine is one learner's session state machine. Methods are safe for
// concurrent use; while a network call is outstanding every mutating
// method returns ErrBusy.
type Machine struct {
	progress  *progress.Store
	ledger    *xp.Ledger
	scheduler *spacedrep.Scheduler
	tutor     Replier
	enricher  vocab.Enricher
	rnd       kana.Rand
	log       *logger.Logger
	newID     func() string

	mu        sync.Mutex
	busy      bool
	phase     Phase
	mode      lessons.Mode
	pending   lessons.Mode
	sessionID string
	queue     spacedrep.Queue
	messages  []Message
	game      *kana.Game
	notice    string
	lastUsed  time.Time

	startedAt time.Time
	xpAtStart int
	turns     int
	summary   *Summary
}

// NewMachine creates a machine in the home phase.
func NewMachine(d Deps) *Machine {
	if d.Enricher == nil {
		d.Enricher = vocab.Nop{}
	}
	if d.Rand == nil {
		d.Rand = kana.DefaultRand
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.NewID == nil {
		d.NewID = func() string { return ulid.Make().String() }
	}
	ledger := xp.NewLedger(d.Progress, d.Events, d.Log)
	return &Machine{
		progress:  d.Progress,
		ledger:    ledger,
		scheduler: spacedrep.NewScheduler(d.Progress, ledger),
		tutor:     d.Tutor,
		enricher:  d.Enricher,
		rnd:       d.Rand,
		log:       d.Log.With("user_id", d.Progress.UserID()),
		newID:     d.NewID,
		phase:     PhaseHome,
		lastUsed:  d.Progress.Now(),
	}
}

// Progress returns the learner's progress store.
func (m *Machine) Progress() *progress.Store {
	return m.progress
}

// View returns the current snapshot.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// LastSummary returns the summary of the most recently finished mode.
func (m *Machine) LastSummary() *Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

// LastUsed returns when the machine last handled an action.
func (m *Machine) LastUsed() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUsed
}

// Busy reports whether a network call is outstanding.
func (m *Machine) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// begin claims the machine for an action. It fails when busy and clears
// the previous notice otherwise.
func (m *Machine) beginLocked() error {
	if m.busy {
		return ErrBusy
	}
	m.notice = ""
	m.lastUsed = m.progress.Now()
	return nil
}

// OpenMode starts mode. Words missing metadata are enriched first, then a
// review queue is selected. With words to review the machine enters the
// review phase; otherwise the session is counted and the mode begins. An
// active mode is left before the new one opens.
func (m *Machine) OpenMode(ctx context.Context, mode lessons.Mode) (View, error) {
	if _, err := lessons.ParseMode(string(mode)); err != nil {
		return m.View(), ErrInvalidMode
	}

	m.mu.Lock()
	if err := m.beginLocked(); err != nil {
		m.mu.Unlock()
		return m.View(), err
	}
	if m.phase == PhaseReviewing {
		m.mu.Unlock()
		return m.View(), ErrReviewing
	}
	if m.phase == PhaseActive {
		m.finishLocked(ctx)
	}
	m.busy = true
	m.mu.Unlock()

	m.backfill(ctx)
	queue := m.scheduler.Select(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	m.sessionID = m.newID()

	if queue.Len() > 0 {
		m.phase = PhaseReviewing
		m.pending = mode
		m.queue = queue
		m.log.Debug("review started", "mode", mode, "words", queue.Len())
		return m.viewLocked(), nil
	}

	m.startLocked(ctx, mode)
	return m.viewLocked(), nil
}

// backfill retries enrichment for words still missing metadata.
func (m *Machine) backfill(ctx context.Context) {
	missing := m.progress.MissingMetadata(ctx, vocab.MaxBatch)
	if len(missing) == 0 {
		return
	}
	items := m.enricher.Enrich(ctx, missing)
	if len(items) == 0 {
		return
	}
	if n, err := m.progress.FillMetadata(ctx, items); err != nil {
		m.log.Warn("metadata backfill save failed", "error", err)
	} else {
		m.log.Debug("metadata backfilled", "words", n)
	}
}

// AnswerReview records the learner's recall of the current review word.
// After the last card the session is counted and the pending mode begins.
func (m *Machine) AnswerReview(ctx context.Context, correct bool) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(); err != nil {
		return m.viewLocked(), err
	}
	if m.phase != PhaseReviewing {
		return m.viewLocked(), ErrNotReviewing
	}

	if card, ok := m.queue.Current(); ok {
		if _, err := m.scheduler.RecordOutcome(ctx, card.Term, correct, m.sessionID); err != nil {
			m.log.Warn("review outcome not saved", "term", card.Term, "error", err)
		}
	}

	if m.queue.Advance() {
		return m.viewLocked(), nil
	}

	mode := m.pending
	m.pending = ""
	m.queue = spacedrep.Queue{}
	m.startLocked(ctx, mode)
	return m.viewLocked(), nil
}

// startLocked counts a completed session and enters mode.
func (m *Machine) startLocked(ctx context.Context, mode lessons.Mode) {
	st, err := m.progress.RecordSessionCompletion(ctx)
	if err != nil {
		m.log.Warn("session count not saved", "error", err)
	}

	m.phase = PhaseActive
	m.mode = mode
	m.messages = nil
	m.game = nil
	m.turns = 0
	m.startedAt = m.progress.Now()
	m.xpAtStart = st.XP

	if mode == lessons.ModeKanaMatch {
		m.game = kana.NewGame(m.rnd)
	} else {
		m.messages = []Message{{Role: llm.RoleAssistant, Content: mode.Starter()}}
	}
	m.log.Info("mode started", "mode", mode, "session_id", m.sessionID)
}

// finishLocked leaves the active mode and records its summary.
func (m *Machine) finishLocked(ctx context.Context) *Summary {
	st := m.progress.Snapshot(ctx)
	s := &Summary{
		SessionID: m.sessionID,
		Mode:      m.mode,
		Duration:  m.progress.Now().Sub(m.startedAt),
		XPEarned:  max(0, st.XP-m.xpAtStart),
		Turns:     m.turns,
	}
	if m.game != nil {
		s.KanaScore = m.game.Score
	}
	m.summary = s

	m.phase = PhaseHome
	m.mode = ""
	m.game = nil
	m.messages = nil
	m.sessionID = ""
	return s
}

// AnswerKana scores a kana answer. The fifth answer ends the game and
// returns the machine home, whatever the result.
func (m *Machine) AnswerKana(ctx context.Context, option string) (KanaResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(); err != nil {
		return KanaResult{View: m.viewLocked()}, err
	}
	if m.phase != PhaseActive || m.game == nil {
		return KanaResult{View: m.viewLocked()}, ErrNoKanaRound
	}

	answer := m.game.Round.Answer
	correct, done, err := m.game.Answer(option)
	if err != nil {
		return KanaResult{View: m.viewLocked()}, ErrNoKanaRound
	}
	if _, err := m.ledger.Award(ctx, xp.ReasonKana, xp.KanaReward(correct), m.sessionID); err != nil {
		m.log.Warn("kana xp not saved", "error", err)
	}

	res := KanaResult{Correct: correct, Answer: answer, Done: done}
	if done {
		res.Summary = m.finishLocked(ctx)
		m.notice = kana.CompletionMessage(correct)
	}
	res.View = m.viewLocked()
	return res, nil
}

// SendChat runs one tutor turn. On success the reply's terms are
// extracted, enriched where new or missing metadata, merged into the word
// ledger and the turn earns XP. A failed turn leaves a notice instead and
// keeps the learner's message in the transcript.
func (m *Machine) SendChat(ctx context.Context, text string) (ChatResult, error) {
	text = trimMessage(text)
	if text == "" {
		return ChatResult{View: m.View()}, ErrEmptyMessage
	}

	m.mu.Lock()
	if err := m.beginLocked(); err != nil {
		m.mu.Unlock()
		return ChatResult{View: m.View()}, err
	}
	if m.phase != PhaseActive || !m.mode.IsChat() {
		m.mu.Unlock()
		return ChatResult{View: m.View()}, ErrNotInMode
	}
	history := toLLM(m.messages)
	m.messages = append(m.messages, Message{Role: llm.RoleUser, Content: text})
	mode, sessionID := m.mode, m.sessionID
	m.busy = true
	m.mu.Unlock()

	reply, err := m.tutor.Reply(ctx, mode, history, text)
	if err != nil {
		m.log.Warn("tutor turn failed", "mode", mode, "error", err)
		m.mu.Lock()
		defer m.mu.Unlock()
		m.busy = false
		m.notice = ChatErrorNotice
		return ChatResult{Notice: m.notice, View: m.viewLocked()}, nil
	}

	observed := terms.Extract(reply, terms.DefaultMax)
	m.recordTerms(ctx, observed)
	if _, err := m.ledger.Award(ctx, xp.ReasonChat, xp.ChatTurn, sessionID); err != nil {
		m.log.Warn("chat xp not saved", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	m.messages = append(m.messages, Message{Role: llm.RoleAssistant, Content: reply})
	m.turns++
	return ChatResult{Reply: reply, Terms: observed, View: m.viewLocked()}, nil
}

// recordTerms enriches the observed terms that are new or still missing
// metadata, then merges all of them into the ledger.
func (m *Machine) recordTerms(ctx context.Context, observed []string) {
	if len(observed) == 0 {
		return
	}
	st := m.progress.Snapshot(ctx)
	var need []string
	for _, t := range observed {
		if w, ok := st.Word(t); !ok || w.MissingMetadata() {
			need = append(need, t)
		}
	}

	var items []vocab.Item
	if len(need) > 0 {
		items = m.enricher.Enrich(ctx, need)
	}
	if _, err := m.progress.MergeObservedTerms(ctx, observed, items); err != nil {
		m.log.Warn("observed terms not saved", "error", err)
	}
}

// BackHome leaves the active mode. At home it does nothing.
func (m *Machine) BackHome(ctx context.Context) (View, *Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.beginLocked(); err != nil {
		return m.viewLocked(), nil, err
	}
	switch m.phase {
	case PhaseHome:
		return m.viewLocked(), nil, nil
	case PhaseReviewing:
		return m.viewLocked(), nil, ErrNotInMode
	}
	s := m.finishLocked(ctx)
	return m.viewLocked(), s, nil
}

func (m *Machine) viewLocked() View {
	v := View{
		Phase:       m.phase,
		Mode:        m.mode,
		PendingMode: m.pending,
		SessionID:   m.sessionID,
		Messages:    slices.Clone(m.messages),
		Notice:      m.notice,
		Busy:        m.busy,
	}
	if m.phase == PhaseReviewing {
		if card, ok := m.queue.Current(); ok {
			v.Review = &ReviewCard{
				Term:    card.Term,
				Romaji:  card.Romaji,
				English: card.English,
				Index:   m.queue.Index,
				Total:   m.queue.Len(),
			}
		}
	}
	if m.game != nil {
		v.Kana = &KanaCard{
			Kana:    m.game.Round.Kana,
			Options: slices.Clone(m.game.Round.Options),
			Index:   m.game.Index,
			Score:   m.game.Score,
			Rounds:  kana.Rounds,
		}
	}
	return v
}

func toLLM(msgs []Message) []llm.Message {
	out := make([]llm.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = llm.Message{Role: msg.Role, Content: msg.Content}
	}
	return out
}
