package vocab

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrNoArray is returned when the text carries no bracketed JSON array.
var ErrNoArray = errors.New("no JSON array in response")

// itemSchema is what each array element must satisfy to be kept.
var itemSchema = map[string]any{
	"type":     "object",
	"required": []any{"term", "romaji", "english"},
	"properties": map[string]any{
		"term":    map[string]any{"type": "string", "minLength": 1},
		"romaji":  map[string]any{"type": "string", "minLength": 1},
		"english": map[string]any{"type": "string", "minLength": 1},
	},
}

var compileItemSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	const url = "schema://vocab-item.json"
	if err := c.AddResource(url, itemSchema); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// ParseItems extracts vocabulary items from provider text. Only the slice
// between the first '[' and the last ']' is parsed, so prose around the
// array is ignored. Elements whose term, romaji or english is missing,
// not a string, or blank once trimmed are dropped.
func ParseItems(text string) ([]Item, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, ErrNoArray
	}

	var raw []any
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode vocab array: %w", err)
	}

	schema, err := compileItemSchema()
	if err != nil {
		return nil, fmt.Errorf("compile vocab schema: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for _, el := range raw {
		if schema.Validate(el) != nil {
			continue
		}
		m := el.(map[string]any)
		item := Item{
			Term:    strings.TrimSpace(m["term"].(string)),
			Romaji:  strings.TrimSpace(m["romaji"].(string)),
			English: strings.TrimSpace(m["english"].(string)),
		}
		if item.Term == "" || item.Romaji == "" || item.English == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
