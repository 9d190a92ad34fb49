package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"support/application/tickets/domain"
	"support/common"
)

// repository implements the domain.Repository interface on top of GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// CreateTicket inserts a new ticket row.
func (r *repository) CreateTicket(ctx context.Context, ticket *common.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// GetTicket looks up a ticket by ID, returning (nil, nil) when absent.
func (r *repository) GetTicket(ctx context.Context, id uint) (*common.Ticket, error) {
	var ticket common.Ticket
	err := r.db.WithContext(ctx).First(&ticket, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return &ticket, nil
}

// ListTickets returns tickets newest-first with offset/limit pagination.
// No upper bound is enforced on limit beyond what the caller supplies.
func (r *repository) ListTickets(ctx context.Context, skip, limit int) ([]common.Ticket, error) {
	var tickets []common.Ticket
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	return tickets, nil
}

// CreateResponse inserts a response row. The existence pre-check gives a
// clean error on the common path; the unique index on ticket_id remains the
// last line of defense under concurrent inserts, and its violation is mapped
// to the same ErrResponseExists.
func (r *repository) CreateResponse(ctx context.Context, response *common.Response) error {
	existing, err := r.GetResponseByTicket(ctx, response.TicketID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrResponseExists
	}

	if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrResponseExists
		}
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

// GetResponseByTicket looks up the response belonging to a ticket, returning
// (nil, nil) when absent.
func (r *repository) GetResponseByTicket(ctx context.Context, ticketID uint) (*common.Response, error) {
	var response common.Response
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&response).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query response: %w", err)
	}
	return &response, nil
}

// ResponsesByTicketIDs fetches all responses for the given tickets in one
// query. Listing joins them in memory instead of relying on ORM preloading,
// so the issued queries stay explicit.
func (r *repository) ResponsesByTicketIDs(ctx context.Context, ticketIDs []uint) ([]common.Response, error) {
	if len(ticketIDs) == 0 {
		return nil, nil
	}
	var responses []common.Response
	err := r.db.WithContext(ctx).Where("ticket_id IN ?", ticketIDs).Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	return responses, nil
}
