package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/sensei/internal/identity"
	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/vocab"
)

const testOrigin = "http://localhost:3000"

// canned holds the provider responses for each collaborator.
type canned struct {
	tutor, vocab, lesson []llm.MockResponse
}

type harness struct {
	srv       *Server
	tutorLLM  *llm.MockProvider
	vocabLLM  *llm.MockProvider
	lessonLLM *llm.MockProvider
	token     string
	userID    string
}

func newHarness(t *testing.T, c canned) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		tutorLLM:  llm.NewMockProvider(c.tutor...),
		vocabLLM:  llm.NewMockProvider(c.vocab...),
		lessonLLM: llm.NewMockProvider(c.lesson...),
	}
	backend := kv.NewMemory()
	enricher := vocab.NewService(h.vocabLLM)
	driver := tutor.NewDriver(h.tutorLLM, tutor.DefaultConfig())

	registry := session.NewRegistry(func(userID string) (*session.Machine, error) {
		p, err := progress.New(userID, backend)
		if err != nil {
			return nil, err
		}
		return session.NewMachine(session.Deps{Progress: p, Tutor: driver, Enricher: enricher}), nil
	})
	issuer, err := identity.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	h.srv, err = New(Deps{
		Sessions:    registry,
		Issuer:      issuer,
		Enricher:    enricher,
		Lessons:     lessons.NewService(h.lessonLLM, lessons.DefaultConfig()),
		ParentPIN:   "2468",
		CORSOrigins: []string{testOrigin},
	})
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/api/identity", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var id identity.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	h.token, h.userID = id.Token, id.UserID
	return h
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (h *harness) call(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return h.do(t, method, path, body, h.token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type viewBody struct {
	View session.View `json:"view"`
}

func TestHealth(t *testing.T) {
	h := newHarness(t, canned{})
	rec := h.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t, canned{})

	rec := h.do(t, http.MethodGet, "/api/progress", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodGet, "/api/progress", nil, "forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
}

func TestGetProgress_Fresh(t *testing.T) {
	h := newHarness(t, canned{})
	rec := h.call(t, http.MethodGet, "/api/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[progressResponse](t, rec)
	assert.Zero(t, body.Progress.XP)
	assert.Empty(t, body.Progress.Words)
	assert.Equal(t, 1, body.Level.Number)
	assert.Zero(t, body.DueCount)
}

func TestChat_ReplyMergesTerms(t *testing.T) {
	h := newHarness(t, canned{
		tutor: []llm.MockResponse{{Content: json.RawMessage(`ねこ means cat!`)}},
		vocab: []llm.MockResponse{{Content: json.RawMessage(`[{"term":"ねこ","romaji":"neko","english":"cat"}]`)}},
	})

	rec := h.call(t, http.MethodPost, "/api/modes/fun-chat", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.call(t, http.MethodPost, "/api/chat", chatRequest{Message: "what is cat?"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[session.ChatResult](t, rec)
	assert.Equal(t, "ねこ means cat!", res.Reply)
	assert.Equal(t, []string{"ねこ"}, res.Terms)
	assert.Len(t, res.View.Messages, 3)

	rec = h.call(t, http.MethodGet, "/api/progress", nil)
	body := decode[progressResponse](t, rec)
	assert.Equal(t, 12, body.Progress.XP)
	assert.Equal(t, 1, body.Progress.TotalSessions)
	require.Len(t, body.Progress.Words, 1)
	assert.Equal(t, "neko", body.Progress.Words[0].Romaji)
}

func TestChat_ProviderFailureIsNotice(t *testing.T) {
	h := newHarness(t, canned{tutor: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{}}}})

	h.call(t, http.MethodPost, "/api/modes/training-5", nil)
	rec := h.call(t, http.MethodPost, "/api/chat", chatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[session.ChatResult](t, rec)
	assert.Equal(t, session.ChatErrorNotice, res.Notice)
	assert.Len(t, res.View.Messages, 2)
}

func TestChat_Errors(t *testing.T) {
	h := newHarness(t, canned{})

	rec := h.call(t, http.MethodPost, "/api/chat", chatRequest{Message: "hi"})
	assert.Equal(t, http.StatusConflict, rec.Code, "not in a mode")

	h.call(t, http.MethodPost, "/api/modes/fun-chat", nil)
	rec = h.call(t, http.MethodPost, "/api/chat", chatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+h.token)
	raw := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
	assert.Contains(t, raw.Body.String(), badRequestMessage)
}

func TestOpenMode_Invalid(t *testing.T) {
	h := newHarness(t, canned{})
	rec := h.call(t, http.MethodPost, "/api/modes/karaoke", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKanaAndHome(t *testing.T) {
	h := newHarness(t, canned{})

	rec := h.call(t, http.MethodPost, "/api/modes/kana-match", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[viewBody](t, rec).View
	require.NotNil(t, v.Kana)
	assert.Len(t, v.Kana.Options, 4)

	rec = h.call(t, http.MethodPost, "/api/kana", kanaRequest{Option: v.Kana.Options[0]})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[session.KanaResult](t, rec)
	assert.False(t, res.Done)

	rec = h.call(t, http.MethodPost, "/api/kana", kanaRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.call(t, http.MethodPost, "/api/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PhaseHome, decode[viewBody](t, rec).View.Phase)

	rec = h.call(t, http.MethodPost, "/api/review", map[string]bool{"correct": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = h.call(t, http.MethodPost, "/api/review", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetProgress(t *testing.T) {
	h := newHarness(t, canned{})
	h.call(t, http.MethodPost, "/api/modes/kana-match", nil)

	rec := h.call(t, http.MethodPost, "/api/progress/reset", resetRequest{PIN: "0000"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.call(t, http.MethodPost, "/api/progress/reset", resetRequest{PIN: "2468"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[progressResponse](t, rec).Progress.TotalSessions)
}

func TestVocab(t *testing.T) {
	h := newHarness(t, canned{
		vocab: []llm.MockResponse{{Content: json.RawMessage(`Sure! [{"term":"みず","romaji":"mizu","english":"water"}]`)}},
	})

	rec := h.call(t, http.MethodPost, "/api/vocab", vocabRequest{Terms: []string{" みず ", ""}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]vocab.Item](t, rec)
	assert.Equal(t, []vocab.Item{{Term: "みず", Romaji: "mizu", English: "water"}}, body["vocab"])

	rec = h.call(t, http.MethodPost, "/api/vocab", vocabRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"vocab":[]}`, rec.Body.String())
	assert.Len(t, h.vocabLLM.Calls, 1)
}

func TestContentAndCurriculum(t *testing.T) {
	h := newHarness(t, canned{})

	rec := h.do(t, http.MethodGet, "/api/content/lessons", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items"`)

	rec = h.do(t, http.MethodGet, "/api/content/podcasts", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown content type")

	rec = h.do(t, http.MethodGet, "/api/curriculum/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	topic, _ := lessons.DayTopic(1)
	assert.Contains(t, rec.Body.String(), topic)

	rec = h.do(t, http.MethodGet, "/api/curriculum/31", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(t, http.MethodGet, "/api/curriculum/x", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDayLesson(t *testing.T) {
	h := newHarness(t, canned{lesson: []llm.MockResponse{{Content: json.RawMessage(`{
		"title": "Hello!",
		"intro": "Greetings.",
		"items": [{"kana": "こんにちは", "romaji": "konnichiwa", "english": "hello"}],
		"recall_questions": ["a?", "b?", "c?"]
	}`)}}})

	rec := h.call(t, http.MethodPost, "/api/lessons/day/1", dayLessonRequest{KnownVocab: []string{"ねこ"}})
	require.Equal(t, http.StatusOK, rec.Code)
	lesson := decode[lessons.DayLesson](t, rec)
	assert.Equal(t, 1, lesson.Day)
	assert.Equal(t, "Hello!", lesson.Title)
	require.Len(t, h.lessonLLM.Calls, 1)
	assert.Contains(t, h.lessonLLM.Calls[0].Messages[0].Content, "ねこ")

	rec = h.call(t, http.MethodPost, "/api/lessons/day/40", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.call(t, http.MethodPost, "/api/lessons/day/2", dayLessonRequest{KnownVocab: []string{}})
	assert.Equal(t, http.StatusBadGateway, rec.Code, "mock queue is empty")
}

func TestExport(t *testing.T) {
	h := newHarness(t, canned{})

	rec := h.call(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "japanese-progress.json")
	assert.Contains(t, rec.Body.String(), `"knownVocab": []`)

	rec = h.call(t, http.MethodGet, "/api/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Words")

	rec = h.call(t, http.MethodGet, "/api/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, canned{})
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t, canned{})
	h.call(t, http.MethodPost, "/api/modes/kana-match", nil)

	rec := h.do(t, http.MethodPost, "/api/identity", nil, "")
	other := decode[identity.Identity](t, rec)
	rec = h.do(t, http.MethodGet, "/api/session", nil, other.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.PhaseHome, decode[viewBody](t, rec).View.Phase)

	rec = h.call(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, session.PhaseActive, decode[viewBody](t, rec).View.Phase)
}
