// Package kana runs the kana-to-romaji matching game.
package kana

import (
	"errors"
	"math/rand/v2"
)

// Rounds is the number of cards in one game.
const Rounds = 5

// OptionCount is the number of choices shown per card.
const OptionCount = 4

// ErrGameOver is returned when answering after the last round.
var ErrGameOver = errors.New("kana: game is over")

// Item pairs a kana with its romaji reading.
type Item struct {
	Kana   string `json:"kana"`
	Romaji string `json:"romaji"`
}

// Items is the reference table cards are drawn from.
var Items = []Item{
	{"あ", "a"}, {"い", "i"}, {"う", "u"}, {"え", "e"}, {"お", "o"},
	{"か", "ka"}, {"き", "ki"}, {"く", "ku"}, {"け", "ke"}, {"こ", "ko"},
	{"さ", "sa"}, {"し", "shi"},
}

// Rand is the randomness a game draws from.
type Rand interface {
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand uses math/rand/v2's global source.
var DefaultRand Rand = defaultRand{}

// Round is one multiple-choice card.
type Round struct {
	Kana    string   `json:"kana"`
	Answer  string   `json:"-"`
	Options []string `json:"options"`
}

// NewRound draws a card and three distinct wrong readings, then shuffles
// the four options.
func NewRound(r Rand) Round {
	pick := Items[r.IntN(len(Items))]

	pool := make([]string, 0, len(Items)-1)
	for _, it := range Items {
		if it.Romaji != pick.Romaji {
			pool = append(pool, it.Romaji)
		}
	}
	shuffle(r, pool)

	options := append([]string{pick.Romaji}, pool[:OptionCount-1]...)
	shuffle(r, options)
	return Round{Kana: pick.Kana, Answer: pick.Romaji, Options: options}
}

func shuffle(r Rand, s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Game tracks a five-round kana quiz.
type Game struct {
	rnd   Rand
	Round Round `json:"round"`
	Index int   `json:"index"` // 0-based round number
	Score int   `json:"score"`
	Over  bool  `json:"over"`
}

// NewGame starts a game at round 0. A nil r uses DefaultRand.
func NewGame(r Rand) *Game {
	if r == nil {
		r = DefaultRand
	}
	return &Game{rnd: r, Round: NewRound(r)}
}

// Answer scores option against the current round. After the final round
// the game is over and done is true; otherwise a new round is drawn.
func (g *Game) Answer(option string) (correct, done bool, err error) {
	if g.Over {
		return false, true, ErrGameOver
	}
	correct = option == g.Round.Answer
	if correct {
		g.Score++
	}
	if g.Index >= Rounds-1 {
		g.Over = true
		return correct, true, nil
	}
	g.Index++
	g.Round = NewRound(g.rnd)
	return correct, false, nil
}

// CompletionMessage is the notice shown when the last round is answered.
func CompletionMessage(lastCorrect bool) string {
	if lastCorrect {
		return "Nice! Game complete."
	}
	return "Good effort! Game complete."
}
