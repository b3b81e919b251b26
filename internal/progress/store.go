package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/terms"
	"github.com/abhisek/sensei/internal/vocab"
)

// DefaultNamespace prefixes every progress key.
const DefaultNamespace = "sensei-progress"

var (
	// ErrNoIdentity is returned when a store is requested without a user id.
	ErrNoIdentity = errors.New("progress: user identity required")

	// ErrUnknownWord is returned when updating a term that is not tracked.
	ErrUnknownWord = errors.New("progress: word not in ledger")
)

// Store is the progress service for a single user. Every read or write
// first applies the daily rollover, and every mutation is persisted. The
// in-memory state stays authoritative when a write fails.
type Store struct {
	mu      sync.Mutex
	userID  string
	ns      string
	backend kv.Store
	now     func() time.Time
	loc     *time.Location
	log     *logger.Logger

	state  State
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone that decides when a new day starts.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns != "" {
			s.ns = ns
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a progress store for userID backed by backend. The stored
// document is read lazily on first use.
func New(userID string, backend kv.Store, opts ...Option) (*Store, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNoIdentity
	}
	s := &Store{
		userID:  userID,
		ns:      DefaultNamespace,
		backend: backend,
		now:     time.Now,
		loc:     time.Local,
		log:     logger.Nop(),
		state:   Empty(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Key returns the persistence key "<namespace>:<userID>".
func (s *Store) Key() string {
	return s.ns + ":" + s.userID
}

// UserID returns the identity this store belongs to.
func (s *Store) UserID() string {
	return s.userID
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) today() string {
	return DateKey(s.now(), s.loc)
}

// Load reads the stored document. Missing or corrupt data yields an empty
// state. A backend failure is returned alongside the empty state.
func (s *Store) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.loadLocked(ctx)
	s.state = Rollover(s.state, s.today())
	return s.state.Clone(), err
}

func (s *Store) loadLocked(ctx context.Context) error {
	s.loaded = true
	data, err := s.backend.Get(ctx, s.Key())
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.state = Empty()
		return nil
	case err != nil:
		s.state = Empty()
		s.log.Warn("progress load failed", "user_id", s.userID, "error", err)
		return fmt.Errorf("load progress: %w", err)
	}
	s.state = Decode(data, s.now())
	return nil
}

func (s *Store) ensureLoadedLocked(ctx context.Context) {
	if !s.loaded {
		_ = s.loadLocked(ctx)
	}
}

// Snapshot returns a copy of the current state after rollover.
func (s *Store) Snapshot(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx)
	s.state = Rollover(s.state, s.today())
	return s.state.Clone()
}

// mutate applies fn to the rolled-over state and persists the result.
func (s *Store) mutate(ctx context.Context, fn func(st *State, now time.Time) bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoadedLocked(ctx)
	now := s.now()
	s.state = Rollover(s.state, DateKey(now, s.loc))
	if !fn(&s.state, now) {
		return s.state.Clone(), nil
	}
	return s.state.Clone(), s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.state)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.Key(), data); err != nil {
		s.log.Warn("progress save failed", "user_id", s.userID, "error", err)
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// AwardXP adds amount to both lifetime and daily XP. Non-positive amounts
// are ignored.
func (s *Store) AwardXP(ctx context.Context, amount int) (State, error) {
	return s.mutate(ctx, func(st *State, _ time.Time) bool {
		if amount <= 0 {
			return false
		}
		st.XP += amount
		st.DailyXP += amount
		return true
	})
}

// RecordSessionCompletion counts one finished session, lifetime and daily.
func (s *Store) RecordSessionCompletion(ctx context.Context) (State, error) {
	return s.mutate(ctx, func(st *State, _ time.Time) bool {
		st.TotalSessions++
		st.DailySessions++
		return true
	})
}

// MergeObservedTerms records terms seen in tutor output. Known words get
// their count bumped and lastSeen moved to now, and blank metadata is
// filled from enrichment. New words start with count 1 and are due
// immediately. The ledger is capped afterwards.
func (s *Store) MergeObservedTerms(ctx context.Context, observed []string, enrichment []vocab.Item) (State, error) {
	return s.mutate(ctx, func(st *State, now time.Time) bool {
		index := make(map[string]int, len(st.Words))
		for i, w := range st.Words {
			index[w.Term] = i
		}

		changed := false
		for _, term := range observed {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			match, _ := terms.Match(term, enrichment, itemTerm)

			if i, ok := index[term]; ok {
				w := &st.Words[i]
				w.Count++
				if now.After(w.LastSeen) {
					w.LastSeen = now
				}
				fillBlank(w, match)
				changed = true
				continue
			}

			index[term] = len(st.Words)
			st.Words = append(st.Words, WordEntry{
				Term:         term,
				Romaji:       match.Romaji,
				English:      match.English,
				Count:        1,
				LastSeen:     now,
				NextReviewAt: now,
			})
			changed = true
		}
		st.Words = capWords(st.Words)
		return changed
	})
}

// UpdateWord applies fn to the entry for term and persists it.
func (s *Store) UpdateWord(ctx context.Context, term string, fn func(w *WordEntry, now time.Time)) (State, error) {
	found := false
	st, err := s.mutate(ctx, func(st *State, now time.Time) bool {
		for i := range st.Words {
			if st.Words[i].Term == term {
				fn(&st.Words[i], now)
				found = true
				return true
			}
		}
		return false
	})
	if err != nil {
		return st, err
	}
	if !found {
		return st, fmt.Errorf("%w: %q", ErrUnknownWord, term)
	}
	return st, nil
}

// MissingMetadata lists up to limit terms whose romaji or english is
// blank, in ledger order. A limit of zero or less means no limit.
func (s *Store) MissingMetadata(ctx context.Context, limit int) []string {
	st := s.Snapshot(ctx)
	var out []string
	for _, w := range st.Words {
		if !w.MissingMetadata() {
			continue
		}
		out = append(out, w.Term)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// FillMetadata copies romaji and english from items onto words where those
// fields are blank. Existing values are never replaced. It returns the
// number of words that changed.
func (s *Store) FillMetadata(ctx context.Context, items []vocab.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	filled := 0
	_, err := s.mutate(ctx, func(st *State, _ time.Time) bool {
		for i := range st.Words {
			w := &st.Words[i]
			if !w.MissingMetadata() {
				continue
			}
			match, ok := terms.Match(w.Term, items, itemTerm)
			if !ok {
				continue
			}
			if fillBlank(w, match) {
				filled++
			}
		}
		return filled > 0
	})
	return filled, err
}

// Reset clears all progress for the user.
func (s *Store) Reset(ctx context.Context) (State, error) {
	return s.mutate(ctx, func(st *State, now time.Time) bool {
		*st = Rollover(Empty(), DateKey(now, s.loc))
		return true
	})
}

func fillBlank(w *WordEntry, item vocab.Item) bool {
	changed := false
	if w.Romaji == "" && item.Romaji != "" {
		w.Romaji = item.Romaji
		changed = true
	}
	if w.English == "" && item.English != "" {
		w.English = item.English
		changed = true
	}
	return changed
}

func itemTerm(i vocab.Item) string { return i.Term }
