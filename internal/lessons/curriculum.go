package lessons

import "fmt"

// Days is the length of the curriculum.
const Days = 30

var curriculum = [Days]string{
	"Greetings and self-introduction",
	"Numbers 1-20",
	"Family words",
	"School classroom words",
	"Days of week",
	"Food basics",
	"Polite requests",
	"Simple present tense",
	"Time and schedules",
	"Shopping basics",
	"Directions and places",
	"Transportation",
	"Weather and seasons",
	"Hobbies and preferences",
	"Animals and nature",
	"Body and health basics",
	"Home and rooms",
	"Colors and shapes",
	"Activities and verbs",
	"Question forms",
	"Past tense basics",
	"Future intentions",
	"Comparisons",
	"Giving reasons",
	"Casual vs polite speech",
	"Storytelling basics",
	"Reading short dialogues",
	"Listening practice style prompts",
	"Review weak vocabulary",
	"Comprehensive review day",
}

// DayTopic returns the topic for a 1-based curriculum day.
func DayTopic(day int) (string, error) {
	if day < 1 || day > Days {
		return "", fmt.Errorf("day %d out of range 1-%d", day, Days)
	}
	return curriculum[day-1], nil
}

// Curriculum returns all day topics in order.
func Curriculum() []string {
	out := make([]string, Days)
	copy(out, curriculum[:])
	return out
}
