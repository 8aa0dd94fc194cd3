package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"spruchapi/internal/service"
)

// createQuoteRequest is the POST body. "author" is accepted as an alias of "autor".
type createQuoteRequest struct {
	Text   string `json:"text"`
	Autor  string `json:"autor"`
	Author string `json:"author"`
}

func (r createQuoteRequest) author() string {
	if r.Autor != "" {
		return r.Autor
	}
	return r.Author
}

// parseID reads a positive decimal :id path parameter.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListQuotes godoc
// @Summary List all quotes
// @Tags sprueche
// @Produce json
// @Success 200 {object} handler.quoteListResponse
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche [get]
func ListQuotes(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListAll(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, items)
	}
}

// RandomQuote godoc
// @Summary Pick a random quote
// @Description data is null when no quotes are stored.
// @Tags sprueche
// @Produce json
// @Success 200 {object} handler.quoteResponse
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche/random [get]
func RandomQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := svc.PickRandom(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeRandom(c, q)
	}
}

// GetQuote godoc
// @Summary Get a quote by id
// @Tags sprueche
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} handler.quoteResponse
// @Failure 400 {object} handler.errorPayload
// @Failure 404 {object} handler.errorPayload
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche/{id} [get]
func GetQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		q, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return writeData(c, fiber.StatusOK, q)
	}
}

// CreateQuote godoc
// @Summary Create a quote
// @Tags sprueche
// @Accept json
// @Produce json
// @Param body body handler.createQuoteRequest true "Quote text and author"
// @Success 201 {object} handler.quoteResponse
// @Failure 400 {object} handler.errorPayload
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche [post]
func CreateQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createQuoteRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}

		q, err := svc.Insert(c.UserContext(), req.Text, req.author())
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Location(strings.TrimSuffix(c.Path(), "/") + "/" + strconv.FormatInt(q.ID, 10))
		return writeData(c, fiber.StatusCreated, q)
	}
}

// DeleteQuote godoc
// @Summary Delete a quote
// @Tags sprueche
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} handler.successPayload
// @Failure 400 {object} handler.errorPayload
// @Failure 404 {object} handler.errorPayload
// @Failure 500 {object} handler.errorPayload
// @Router /sprueche/{id} [delete]
func DeleteQuote(svc service.QuoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		removed, err := svc.DeleteByID(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if !removed {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "quote not found")
		}
		return writeData(c, fiber.StatusOK, nil)
	}
}
