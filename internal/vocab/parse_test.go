package vocab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems_ProseAroundArray(t *testing.T) {
	items, err := ParseItems(`Sure! [{"term":"猫","romaji":"neko","english":"cat"}] Hope that helps!`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, Item{Term: "猫", Romaji: "neko", English: "cat"}, items[0])
}

func TestParseItems_DropsInvalidEntries(t *testing.T) {
	text := "```json\n[" +
		`{"term":"いぬ","romaji":"inu","english":"dog"},` +
		`{"term":"とり","romaji":"tori"},` +
		`{"term":"さかな","romaji":5,"english":"fish"},` +
		`{"term":"","romaji":"x","english":"y"},` +
		`{"term":"  ","romaji":"x","english":"y"},` +
		`{"term":"猫","romaji":"","english":"cat"},` +
		`{"term":"犬","romaji":"  ","english":"dog"},` +
		`{"term":"鳥","romaji":"tori","english":" "},` +
		`"just a string",` +
		`{"term":" 山 ","romaji":" yama ","english":" mountain "}` +
		"]\n```"

	items, err := ParseItems(text)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{Term: "いぬ", Romaji: "inu", English: "dog"},
		{Term: "山", Romaji: "yama", English: "mountain"},
	}, items)
}

func TestParseItems_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no brackets", "I don't know those words."},
		{"reversed brackets", "] oops ["},
		{"broken json", `[{"term": "猫",]`},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseItems(tt.text)
			assert.Error(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestParseItems_NoArraySentinel(t *testing.T) {
	_, err := ParseItems("nothing here")
	assert.True(t, errors.Is(err, ErrNoArray))
}

func TestParseItems_EmptyArray(t *testing.T) {
	items, err := ParseItems("[]")
	require.NoError(t, err)
	assert.Empty(t, items)
}
