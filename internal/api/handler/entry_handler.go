package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/ports"
)

// EntryHandler handles HTTP requests for journal entries.
type EntryHandler struct {
	service ports.EntryService
}

func NewEntryHandler(service ports.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// --- Request / Response types ---

type createEntryRequest struct {
	Content  string `json:"content" validate:"required"`
	PromptID string `json:"prompt_id" validate:"required"`
	Mood     string `json:"mood"`
}

type updateEntryRequest struct {
	Content string `json:"content" validate:"required"`
	Mood    string `json:"mood"`
}

type entryResponse struct {
	*domain.Entry
	Prompt *domain.Prompt `json:"prompt,omitempty"`
	User   *domain.User   `json:"user,omitempty"`
}

type entryListResponse struct {
	Items []entryResponse `json:"items"`
}

func toEntryResponse(d *ports.EntryDetail) entryResponse {
	return entryResponse{Entry: d.Entry, Prompt: d.Prompt, User: d.User}
}

// Create writes a new journal entry answering a prompt.
//
// @Summary      Create a journal entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEntryRequest  true  "Entry details"
// @Success      201   {object}  entryResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/entries [post]
func (h *EntryHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	detail, err := h.service.Create(c.Request().Context(), ports.CreateEntryInput{
		UserID:   userID,
		Content:  req.Content,
		PromptID: req.PromptID,
		Mood:     req.Mood,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEntryResponse(detail))
}

// List returns the authenticated user's entries, optionally restricted to
// one calendar day via ?date=YYYY-MM-DD.
//
// @Summary      List journal entries
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  false  "Calendar day filter (YYYY-MM-DD)"
// @Success      200   {object}  entryListResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/entries [get]
func (h *EntryHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	in := ports.ListEntriesInput{UserID: userID}
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		}
		in.Date = &d
	}

	details, err := h.service.ListByUser(c.Request().Context(), in)
	if err != nil {
		return err
	}

	items := make([]entryResponse, 0, len(details))
	for _, d := range details {
		items = append(items, toEntryResponse(d))
	}
	return c.JSON(http.StatusOK, entryListResponse{Items: items})
}

// Get returns one entry with its prompt and author attached.
//
// @Summary      Get a journal entry
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  entryResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/entries/{id} [get]
func (h *EntryHandler) Get(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), ports.GetEntryInput{
		ID:      c.Param("id"),
		ActorID: userID,
		Role:    role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(detail))
}

// Update replaces an entry's content (and optionally mood).
//
// @Summary      Update a journal entry
// @Tags         entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Entry ID"
// @Param        body  body      updateEntryRequest  true  "New content"
// @Success      200   {object}  entryResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/entries/{id} [put]
func (h *EntryHandler) Update(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	detail, err := h.service.Update(c.Request().Context(), ports.UpdateEntryInput{
		ID:      c.Param("id"),
		ActorID: userID,
		Role:    role,
		Content: req.Content,
		Mood:    req.Mood,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEntryResponse(detail))
}

// Delete removes an entry. The streak is not recalculated.
//
// @Summary      Delete a journal entry
// @Tags         entries
// @Security     BearerAuth
// @Param        id  path  string  true  "Entry ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/entries/{id} [delete]
func (h *EntryHandler) Delete(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ports.DeleteEntryInput{
		ID:      c.Param("id"),
		ActorID: userID,
		Role:    role,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats aggregates the authenticated user's journal.
//
// @Summary      Journal statistics
// @Tags         entries
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.EntryStats
// @Router       /v1/entries/stats [get]
func (h *EntryHandler) Stats(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
