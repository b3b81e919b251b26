package lessons

// MaxNewItems caps the new words a day lesson introduces.
const MaxNewItems = 5

// RecallQuestionCount is how many recall questions end a day lesson.
const RecallQuestionCount = 3

// Config holds day lesson generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for day lesson generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   500,
		Temperature: 0.4,
	}
}
