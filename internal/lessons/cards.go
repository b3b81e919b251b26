package lessons

import "github.com/abhisek/sensei/internal/kana"

// CardKind classifies a fun card.
type CardKind string

const (
	CardTrivia  CardKind = "Trivia"
	CardFact    CardKind = "Fact"
	CardDadJoke CardKind = "Dad Joke"
)

// FunCard is a short tidbit shown on the home screen.
type FunCard struct {
	Kind CardKind `json:"kind"`
	Text string   `json:"text"`
}

// TriviaCard is a history or culture note for older learners.
type TriviaCard struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// FunCards are the home-screen tidbits.
var FunCards = []FunCard{
	{CardTrivia, "In Japanese, there are multiple words for 'I' like watashi, boku, and ore depending on context."},
	{CardFact, "The Japanese school year usually starts in April, right when cherry blossoms begin to bloom."},
	{CardDadJoke, "Why did the kanji student bring a ladder? To reach a higher level."},
	{CardTrivia, "Arigato can feel casual, while arigato gozaimasu is more polite and formal."},
	{CardFact, "Many Japanese convenience stores are famous for fresh meals, not just snacks."},
	{CardDadJoke, "I opened a sushi gym. It has great rolls."},
	{CardTrivia, "Hiragana is often used for grammar and native words, while katakana is used for many foreign loanwords."},
	{CardFact, "You can often hear train departure melodies in Japan, and stations may have their own tune."},
	{CardDadJoke, "My Japanese vocabulary is like tempura: still in batter shape, but getting crisp."},
	{CardDadJoke, "I told my friend I mastered katakana. He said, 'Sounds like a bold character arc.'"},
	{CardDadJoke, "Why did the ramen chef study grammar? Better noodle clauses."},
}

// TriviaCards are the history and culture notes.
var TriviaCards = []TriviaCard{
	{"History Spotlight", "During the Meiji era (starting in 1868), Japan rapidly modernized its schools, military, and industry in just a few decades."},
	{"Culture Today", "Japanese convenience stores are part of everyday life and often sell fresh meals, bill-pay services, and event tickets."},
	{"History Spotlight", "The Heian period shaped much of classical Japanese literature, including The Tale of Genji by Murasaki Shikibu."},
	{"Culture Today", "Many Japanese cities balance old and new: historic shrines can sit only minutes away from high-tech shopping districts."},
	{"History Spotlight", "After World War II, Japan rebuilt quickly and became a major global economy by focusing on manufacturing and technology."},
}

// PickJoke returns a random dad joke card.
func PickJoke(r kana.Rand) FunCard {
	var jokes []FunCard
	for _, c := range FunCards {
		if c.Kind == CardDadJoke {
			jokes = append(jokes, c)
		}
	}
	if len(jokes) == 0 {
		return FunCards[0]
	}
	return jokes[r.IntN(len(jokes))]
}

// PickTrivia returns a random trivia card.
func PickTrivia(r kana.Rand) TriviaCard {
	return TriviaCards[r.IntN(len(TriviaCards))]
}
