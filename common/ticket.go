package common

import (
	"time"

	"github.com/guregu/null/v5"
)

// Ticket is a submitted support request. A ticket owns at most one
// specialist Response; deleting the ticket cascades to its response.
type Ticket struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	FullName      string      `gorm:"size:255;not null" json:"full_name"`
	Contact       string      `gorm:"size:255;not null" json:"contact"`
	Description   string      `gorm:"type:text;not null" json:"description"`
	PhotoFilename null.String `gorm:"size:512" json:"photo_filename"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`

	Response *Response `gorm:"constraint:OnDelete:CASCADE" json:"response,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// Response is the single specialist reply to a ticket. The unique index on
// TicketID is the authoritative one-response-per-ticket guard; the
// application treats a constraint violation as the canonical duplicate
// signal.
type Response struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TicketID      uint        `gorm:"uniqueIndex:uq_response_ticket;not null" json:"ticket_id"`
	ResponderName string      `gorm:"size:255;not null" json:"responder_name"`
	Status        string      `gorm:"size:50;not null" json:"status"`
	Text          null.String `gorm:"type:text" json:"text"`
	MediaFilename null.String `gorm:"size:512" json:"media_filename"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}

func (Response) TableName() string {
	return "responses"
}
