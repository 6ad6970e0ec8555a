package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

// PromptHandler handles HTTP requests for the prompt catalog.
type PromptHandler struct {
	service ports.PromptService
}

func NewPromptHandler(service ports.PromptService) *PromptHandler {
	return &PromptHandler{service: service}
}

type createPromptRequest struct {
	Text          string `json:"text" validate:"required"`
	Category      string `json:"category"`
	ScheduledDate string `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
}

// Create adds a prompt to the catalog. Admin only.
//
// @Summary      Create a prompt
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPromptRequest  true  "Prompt details; scheduled_date is YYYY-MM-DD"
// @Success      201   {object}  domain.Prompt
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/prompts [post]
func (h *PromptHandler) Create(c echo.Context) error {
	var req createPromptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	in := ports.CreatePromptInput{Text: req.Text, Category: req.Category}
	if req.ScheduledDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.ScheduledDate, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "scheduled_date must be YYYY-MM-DD"})
		}
		in.ScheduledDate = &d
	}

	prompt, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, prompt)
}

// Today returns the prompt of the day.
//
// @Summary      Prompt of the day
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Prompt
// @Failure      404  {object}  map[string]string
// @Router       /v1/prompts/today [get]
func (h *PromptHandler) Today(c echo.Context) error {
	prompt, err := h.service.TodayPrompt(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

// Random returns a random unused prompt.
//
// @Summary      Random unused prompt
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Prompt
// @Failure      404  {object}  map[string]string
// @Router       /v1/prompts/random [get]
func (h *PromptHandler) Random(c echo.Context) error {
	prompt, err := h.service.RandomPrompt(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

// MarkUsed flips a prompt to used. Admin only; entry creation does this
// automatically, the endpoint exists to retire prompts by hand.
//
// @Summary      Mark a prompt as used
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Prompt ID"
// @Success      200  {object}  domain.Prompt
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/prompts/{id}/used [post]
func (h *PromptHandler) MarkUsed(c echo.Context) error {
	prompt, err := h.service.MarkAsUsed(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == domain.ErrPromptNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "prompt not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

type promptHistoryResponse struct {
	Items []*domain.Prompt `json:"items"`
}

// History lists recently used prompts.
//
// @Summary      Used prompt history
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max prompts to return (default 10)"
// @Success      200    {object}  promptHistoryResponse
// @Router       /v1/prompts/history [get]
func (h *PromptHandler) History(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	prompts, err := h.service.History(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promptHistoryResponse{Items: prompts})
}
