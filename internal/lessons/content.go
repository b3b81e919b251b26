package lessons

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// Content kinds served by the catalog.
const (
	KindLessons = "lessons"
	KindGames   = "games"
	KindVideos  = "videos"
)

// ErrUnknownContent is returned for a kind the catalog does not serve.
var ErrUnknownContent = errors.New("unknown content type")

// Lesson is a static vocabulary lesson.
type Lesson struct {
	ID        string   `yaml:"id" json:"id"`
	Title     string   `yaml:"title" json:"title"`
	Level     string   `yaml:"level" json:"level"`
	Objective string   `yaml:"objective" json:"objective"`
	Vocab     []string `yaml:"vocab" json:"vocab"`
}

// GameConfig parameterises a word-find grid.
type GameConfig struct {
	GridSize int      `yaml:"gridSize" json:"gridSize"`
	Words    []string `yaml:"words" json:"words"`
	Hints    []string `yaml:"hints" json:"hints"`
}

// Game is a static learning game.
type Game struct {
	ID     string     `yaml:"id" json:"id"`
	Type   string     `yaml:"type" json:"type"`
	Title  string     `yaml:"title" json:"title"`
	Config GameConfig `yaml:"config" json:"config"`
}

// Video is a short lesson video held in object storage.
type Video struct {
	ID              string `yaml:"id" json:"id"`
	Title           string `yaml:"title" json:"title"`
	Summary         string `yaml:"summary" json:"summary"`
	StorageKey      string `yaml:"storageKey" json:"storageKey"`
	DurationMinutes int    `yaml:"durationMinutes" json:"durationMinutes"`
}

// Catalog is the read-only content bundle.
type Catalog struct {
	Lessons []Lesson `yaml:"lessons"`
	Games   []Game   `yaml:"games"`
	Videos  []Video  `yaml:"videos"`
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return ParseCatalog(contentYAML)
})

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return loadDefault()
}

// Validate checks ids are unique and set, lesson levels are known, and
// game hints line up with words.
func (c *Catalog) Validate() error {
	seen := map[string]bool{}
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s: empty id", kind)
		}
		if seen[id] {
			return fmt.Errorf("%s: duplicate id %q", kind, id)
		}
		seen[id] = true
		return nil
	}

	for _, l := range c.Lessons {
		if err := check(KindLessons, l.ID); err != nil {
			return err
		}
		if l.Level != "beginner" && l.Level != "intermediate" {
			return fmt.Errorf("lesson %q: unknown level %q", l.ID, l.Level)
		}
	}
	for _, g := range c.Games {
		if err := check(KindGames, g.ID); err != nil {
			return err
		}
		if g.Type != "wordfind" {
			return fmt.Errorf("game %q: unknown type %q", g.ID, g.Type)
		}
		if len(g.Config.Hints) != len(g.Config.Words) {
			return fmt.Errorf("game %q: %d hints for %d words", g.ID, len(g.Config.Hints), len(g.Config.Words))
		}
	}
	for _, v := range c.Videos {
		if err := check(KindVideos, v.ID); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the items of kind.
func (c *Catalog) Lookup(kind string) (any, error) {
	switch kind {
	case KindLessons:
		return c.Lessons, nil
	case KindGames:
		return c.Games, nil
	case KindVideos:
		return c.Videos, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownContent, kind)
}
