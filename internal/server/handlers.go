package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/sensei/internal/export"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/spacedrep"
	"github.com/abhisek/sensei/internal/vocab"
	"github.com/abhisek/sensei/internal/xp"
)

func (s *Server) issueIdentity(c *gin.Context) {
	id, err := s.deps.Issuer.Issue()
	if err != nil {
		s.log.Error("issue identity failed", "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "could not create identity")
		return
	}
	c.JSON(http.StatusCreated, id)
}

func (s *Server) content(c *gin.Context) {
	items, err := s.deps.Catalog.Lookup(c.Param("kind"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", lessons.ErrUnknownContent.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) curriculum(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": lessons.Curriculum()})
}

func (s *Server) curriculumDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		badRequest(c)
		return
	}
	topic, err := lessons.DayTopic(day)
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "topic": topic})
}

type progressResponse struct {
	Progress progress.State `json:"progress"`
	Level    xp.Level       `json:"level"`
	DueCount int            `json:"dueCount"`
}

func progressBody(st progress.State, m *session.Machine) progressResponse {
	return progressResponse{
		Progress: st,
		Level:    xp.LevelOf(st.XP),
		DueCount: spacedrep.DueCount(st.Words, m.Progress().Now()),
	}
}

func (s *Server) getProgress(c *gin.Context) {
	m, ok := s.machine(c)
	if !ok {
		return
	}
	st := m.Progress().Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, progressBody(st, m))
}

type resetRequest struct {
	PIN string `json:"pin"`
}

func (s *Server) resetProgress(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if s.deps.ParentPIN == "" || req.PIN != s.deps.ParentPIN {
		respondError(c, http.StatusForbidden, "forbidden", "incorrect PIN")
		return
	}
	m, ok := s.machine(c)
	if !ok {
		return
	}
	st, err := m.Progress().Reset(c.Request.Context())
	if err != nil {
		s.log.Error("progress reset failed", "user_id", userID(c), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", "could not reset progress")
		return
	}
	s.log.Info("progress reset", "user_id", userID(c))
	c.JSON(http.StatusOK, progressBody(st, m))
}

func (s *Server) getSession(c *gin.Context) {
	m, ok := s.machine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": m.View(), "summary": m.LastSummary()})
}

func (s *Server) openMode(c *gin.Context) {
	m, ok := s.machine(c)
	if !ok {
		return
	}
	mode, err := lessons.ParseMode(c.Param("mode"))
	if err != nil {
		respondMachineError(c, session.ErrInvalidMode)
		return
	}
	v, err := m.OpenMode(c.Request.Context(), mode)
	if err != nil {
		respondMachineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": v})
}

type reviewRequest struct {
	Correct *bool `json:"correct"`
}

func (s *Server) answerReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Correct == nil {
		badRequest(c)
		return
	}
	m, ok := s.machine(c)
	if !ok {
		return
	}
	v, err := m.AnswerReview(c.Request.Context(), *req.Correct)
	if err != nil {
		respondMachineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": v})
}

type kanaRequest struct {
	Option string `json:"option"`
}

func (s *Server) answerKana(c *gin.Context) {
	var req kanaRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Option) == "" {
		badRequest(c)
		return
	}
	m, ok := s.machine(c)
	if !ok {
		return
	}
	res, err := m.AnswerKana(c.Request.Context(), req.Option)
	if err != nil {
		respondMachineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	m, ok := s.machine(c)
	if !ok {
		return
	}
	res, err := m.SendChat(c.Request.Context(), req.Message)
	if err != nil {
		respondMachineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) home(c *gin.Context) {
	m, ok := s.machine(c)
	if !ok {
		return
	}
	v, summary, err := m.BackHome(c.Request.Context())
	if err != nil {
		respondMachineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": v, "summary": summary})
}

type vocabRequest struct {
	Terms []string `json:"terms"`
}

// enrich is direct enrichment; failures yield an empty list.
func (s *Server) enrich(c *gin.Context) {
	var req vocabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	batch := vocab.Batch(req.Terms)
	items := []vocab.Item{}
	if len(batch) > 0 {
		items = s.deps.Enricher.Enrich(c.Request.Context(), batch)
	}
	c.JSON(http.StatusOK, gin.H{"vocab": items})
}

type dayLessonRequest struct {
	KnownVocab []string `json:"knownVocab"`
	KnownKanji []string `json:"knownKanji"`
}

func (s *Server) dayLesson(c *gin.Context) {
	if s.deps.Lessons == nil {
		respondError(c, http.StatusServiceUnavailable, "unavailable", "lesson generation is not configured")
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		badRequest(c)
		return
	}
	if _, err := lessons.DayTopic(day); err != nil {
		respondError(c, http.StatusNotFound, "not_found", err.Error())
		return
	}
	var req dayLessonRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}
	// Without a body the lesson builds on the learner's own word bank.
	if req.KnownVocab == nil {
		m, ok := s.machine(c)
		if !ok {
			return
		}
		doc := export.NewDocument(m.Progress().Snapshot(c.Request.Context()), s.now())
		req.KnownVocab, req.KnownKanji = doc.KnownVocab, doc.KnownKanji
	}

	lesson, err := s.deps.Lessons.Generate(c.Request.Context(), lessons.DayInput{
		Day:        day,
		KnownVocab: req.KnownVocab,
		KnownKanji: req.KnownKanji,
	})
	if err != nil {
		s.log.Warn("day lesson failed", "day", day, "error", err)
		respondError(c, http.StatusBadGateway, "upstream", "Lesson provider request failed.")
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (s *Server) export(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatJSON)
	if format != export.FormatJSON && format != export.FormatXLSX {
		badRequest(c)
		return
	}
	m, ok := s.machine(c)
	if !ok {
		return
	}
	st := m.Progress().Snapshot(c.Request.Context())

	c.Header("Content-Type", export.ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(format)))
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, format, st, s.now()); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
	}
}
