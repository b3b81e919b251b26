package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/sensei/internal/session"
)

// badRequestMessage is shown for any malformed request body.
const badRequestMessage = "Something went wrong. Please try again."

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

func badRequest(c *gin.Context) {
	respondError(c, http.StatusBadRequest, "bad_request", badRequestMessage)
}

// respondMachineError maps state machine errors to HTTP statuses.
func respondMachineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidMode):
		respondError(c, http.StatusNotFound, "invalid_mode", err.Error())
	case errors.Is(err, session.ErrEmptyMessage):
		respondError(c, http.StatusBadRequest, "empty_message", err.Error())
	case errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrReviewing),
		errors.Is(err, session.ErrNotReviewing),
		errors.Is(err, session.ErrNotInMode),
		errors.Is(err, session.ErrNoKanaRound):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal", "unexpected error")
	}
}
