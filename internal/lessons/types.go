package lessons

// DayLesson is a generated mini-lesson for one curriculum day.
type DayLesson struct {
	Day             int       `json:"day"`
	Topic           string    `json:"topic"`
	Title           string    `json:"title"`
	Intro           string    `json:"intro"`
	Items           []DayItem `json:"items"`
	RecallQuestions []string  `json:"recallQuestions"`
}

// DayItem is one new word or phrase taught in a day lesson.
type DayItem struct {
	Kana    string `json:"kana"`
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

// DayInput holds the context for generating a day lesson.
type DayInput struct {
	Day        int
	KnownVocab []string
	KnownKanji []string
}
