package domain

import (
	"context"
	"mime/multipart"

	"support/common"
)

// Repository defines the data access operations over the ticket store.
// Point lookups return (nil, nil) when the row is absent.
type Repository interface {
	// CreateTicket inserts a new ticket and fills in its identity and
	// creation timestamp.
	CreateTicket(ctx context.Context, ticket *common.Ticket) error

	// GetTicket looks up a ticket by ID.
	GetTicket(ctx context.Context, id uint) (*common.Ticket, error)

	// ListTickets returns tickets ordered by creation time descending,
	// with offset/limit pagination.
	ListTickets(ctx context.Context, skip, limit int) ([]common.Ticket, error)

	// CreateResponse inserts a response. Returns ErrResponseExists when the
	// ticket already has one, whether detected by the existence pre-check
	// or by the storage-level unique constraint.
	CreateResponse(ctx context.Context, response *common.Response) error

	// GetResponseByTicket looks up the response belonging to a ticket.
	GetResponseByTicket(ctx context.Context, ticketID uint) (*common.Response, error)

	// ResponsesByTicketIDs fetches the responses for a set of tickets in a
	// single query, for in-memory joining during listing.
	ResponsesByTicketIDs(ctx context.Context, ticketIDs []uint) ([]common.Response, error)
}

// Service defines the business operations exposed to the HTTP layer.
type Service interface {
	// CreateTicket stores the optional photo, persists the ticket and
	// returns its outward shape. A persistence failure after a successful
	// upload removes the stored file best-effort.
	CreateTicket(ctx context.Context, form TicketForm, photo *multipart.FileHeader) (*TicketRead, error)

	// GetTicket returns a ticket with its nested response, or
	// ErrTicketNotFound.
	GetTicket(ctx context.Context, id uint) (*TicketRead, error)

	// ListTickets returns tickets newest-first with nested responses.
	ListTickets(ctx context.Context, skip, limit int) ([]TicketRead, error)

	// AddResponse verifies the ticket exists before any upload is
	// attempted, stores the optional media, and persists the response. Any
	// persistence failure removes the stored media best-effort.
	AddResponse(ctx context.Context, ticketID uint, form ResponseForm, media *multipart.FileHeader) (*ResponseRead, error)
}
