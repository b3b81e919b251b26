package lessons

import (
	"fmt"
	"strings"
)

const dayLessonSystemPrompt = `You are a Japanese tutor for an 11-year-old. Use an encouraging, child-safe tone.`

func buildDayLessonUserMessage(input DayInput, topic string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Lesson: Day %d - %s\n", input.Day, topic))
	b.WriteString(fmt.Sprintf("Known vocab (avoid re-teaching when possible): %s\n", listOrNone(input.KnownVocab)))
	b.WriteString(fmt.Sprintf("Known kanji (avoid re-teaching when possible): %s\n", listOrNone(input.KnownKanji)))

	b.WriteString(fmt.Sprintf(`
Hard constraints:
1. Introduce at most %d new learning items.
2. Every new item must include kana, romaji, and English meaning.
3. End with exactly %d short recall questions.
4. Keep everything concise and readable.`, MaxNewItems, RecallQuestionCount))

	return b.String()
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
