package domain

import (
	"errors"
	"time"

	"github.com/guregu/null/v5"
)

// Sentinel errors translated to HTTP status codes at the handler layer.
var (
	// ErrTicketNotFound signals a lookup for a ticket that does not exist.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrResponseExists signals an attempt to add a second response to a
	// ticket that already has one.
	ErrResponseExists = errors.New("response for this ticket already exists")
)

// TicketForm carries the required multipart fields of a ticket submission.
// The optional photo file travels separately as a multipart file part.
type TicketForm struct {
	FullName    string `form:"full_name" binding:"required"`
	Contact     string `form:"contact" binding:"required"`
	Description string `form:"description" binding:"required"`
}

// ResponseForm carries the multipart fields of a specialist response.
// Status is a free-text label; no enumeration is enforced.
type ResponseForm struct {
	ResponderName string `form:"responder_name" binding:"required"`
	Status        string `form:"status" binding:"required"`
	Text          string `form:"text"`
}

// ListQuery holds the pagination parameters of the ticket listing.
type ListQuery struct {
	Skip  int `form:"skip,default=0" binding:"min=0"`
	Limit int `form:"limit,default=100" binding:"min=0"`
}

// ResponseRead is the outward shape of a response. MediaFilename holds the
// public /uploads path, not the raw storage filename.
type ResponseRead struct {
	ID            uint        `json:"id"`
	TicketID      uint        `json:"ticket_id"`
	ResponderName string      `json:"responder_name"`
	Status        string      `json:"status"`
	Text          null.String `json:"text"`
	MediaFilename null.String `json:"media_filename"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TicketRead is the outward shape of a ticket with its nested response, if
// any. PhotoFilename holds the public /uploads path.
type TicketRead struct {
	ID            uint          `json:"id"`
	FullName      string        `json:"full_name"`
	Contact       string        `json:"contact"`
	Description   string        `json:"description"`
	PhotoFilename null.String   `json:"photo_filename"`
	CreatedAt     time.Time     `json:"created_at"`
	Response      *ResponseRead `json:"response"`
}
