package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"support/application/tickets/domain"
	"support/internal/upload"
)

// Handler handles the HTTP surface of the ticket feature.
type Handler struct {
	svc domain.Service
}

// NewHandler creates a new Handler.
func NewHandler(service domain.Service) *Handler {
	return &Handler{svc: service}
}

// RegisterRoutes registers the handler routes.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	tickets := api.Group("/tickets")
	{
		tickets.POST("/", h.CreateTicket)
		tickets.GET("/", h.ListTickets)
		tickets.GET("/:id", h.GetTicket)
		tickets.POST("/:id/response", h.AddResponse)
	}
}

// CreateTicket handles POST /tickets/. Fields arrive as multipart form data
// with an optional photo file part.
func (h *Handler) CreateTicket(c *gin.Context) {
	var form domain.TicketForm
	if err := c.ShouldBind(&form); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	photo, err := optionalFile(c, "photo")
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	ticket, err := h.svc.CreateTicket(c.Request.Context(), form, photo)
	if err != nil {
		sendError(c, statusFromError(err), err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets handles GET /tickets/ with skip/limit pagination.
func (h *Handler) ListTickets(c *gin.Context) {
	query := domain.ListQuery{Skip: 0, Limit: 100}
	if err := c.ShouldBindQuery(&query); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	tickets, err := h.svc.ListTickets(c.Request.Context(), query.Skip, query.Limit)
	if err != nil {
		sendError(c, statusFromError(err), err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// GetTicket handles GET /tickets/:id.
func (h *Handler) GetTicket(c *gin.Context) {
	id, err := ticketID(c)
	if err != nil {
		sendError(c, http.StatusNotFound, domain.ErrTicketNotFound)
		return
	}

	ticket, err := h.svc.GetTicket(c.Request.Context(), id)
	if err != nil {
		sendError(c, statusFromError(err), err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// AddResponse handles POST /tickets/:id/response. The ticket must exist
// before any media upload is attempted; the service enforces that order.
func (h *Handler) AddResponse(c *gin.Context) {
	id, err := ticketID(c)
	if err != nil {
		sendError(c, http.StatusNotFound, domain.ErrTicketNotFound)
		return
	}

	var form domain.ResponseForm
	if err := c.ShouldBind(&form); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	media, err := optionalFile(c, "media")
	if err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	response, err := h.svc.AddResponse(c.Request.Context(), id, form, media)
	if err != nil {
		sendError(c, statusFromError(err), err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func ticketID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// optionalFile returns the named multipart file part, or nil when the client
// did not supply one.
func optionalFile(c *gin.Context, name string) (*multipart.FileHeader, error) {
	file, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

// statusFromError maps domain errors onto HTTP status codes. Anything
// unrecognized is an internal storage error.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrResponseExists):
		return http.StatusBadRequest
	case errors.Is(err, upload.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func sendError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"detail": err.Error()})
}
