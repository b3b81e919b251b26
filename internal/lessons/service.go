package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/sensei/internal/llm"
)

// Purpose labels day lesson requests in the LLM event log.
const Purpose = "lesson"

// Service generates day lessons, synchronously or in the background.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	pending *DayLesson
	err     error
	ready   bool
}

// NewService creates a day lesson service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// RequestLesson starts background generation. Only one lesson is in
// flight at a time; a newer request replaces the pending one.
func (s *Service) RequestLesson(ctx context.Context, input DayInput) {
	go func() {
		lesson, err := s.Generate(ctx, input)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = lesson
		s.err = err
		s.ready = true
	}()
}

// ConsumeLesson returns the finished lesson, if any, and clears the slot.
// The error of a failed generation is returned once.
func (s *Service) ConsumeLesson() (*DayLesson, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false, nil
	}
	lesson, err := s.pending, s.err
	s.pending = nil
	s.err = nil
	s.ready = false
	return lesson, lesson != nil, err
}

type dayLessonOutput struct {
	Title           string    `json:"title"`
	Intro           string    `json:"intro"`
	Items           []DayItem `json:"items"`
	RecallQuestions []string  `json:"recall_questions"`
}

// Generate builds the lesson for input.Day.
func (s *Service) Generate(ctx context.Context, input DayInput) (*DayLesson, error) {
	topic, err := DayTopic(input.Day)
	if err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System: dayLessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildDayLessonUserMessage(input, topic)},
		},
		Schema:      DayLessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("day lesson generation: %w", err)
	}

	var out dayLessonOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse day lesson response: %w", err)
	}

	return &DayLesson{
		Day:             input.Day,
		Topic:           topic,
		Title:           out.Title,
		Intro:           out.Intro,
		Items:           out.Items,
		RecallQuestions: out.RecallQuestions,
	}, nil
}
