package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/fleetdesk/internal/models"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type ChatHandler struct {
	answerer Answerer
}

// NewChatHandler accepts a nil answerer; every question then fails with 500.
func NewChatHandler(a Answerer) *ChatHandler {
	return &ChatHandler{answerer: a}
}

func (h *ChatHandler) Chat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return writeError(c, err, http.StatusBadRequest)
	}

	if h.answerer == nil {
		return c.JSON(http.StatusInternalServerError, models.ChatResponse{
			Response: "Error: chat is not configured",
		})
	}

	answer, err := h.answerer.Answer(c.Request().Context(), req.Message)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.ChatResponse{
			Response: "Error: " + publicMessage(err),
		})
	}
	return c.JSON(http.StatusOK, models.ChatResponse{Response: answer})
}

// publicMessage hides wrapped causes; they only reach the log.
func publicMessage(err error) string {
	var e *models.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "failed to answer question"
}
