package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/guregu/null/v5"
	"go.uber.org/zap"

	"support/application/tickets/domain"
	"support/common"
)

// FileSaver is the slice of the upload saver the service needs: durable
// writes with generated names, and best-effort removal for compensation.
type FileSaver interface {
	Save(src io.ReadCloser, clientName string) (string, error)
	Remove(name string)
}

// service implements the domain.Service interface.
type service struct {
	repo  domain.Repository
	files FileSaver
	log   *zap.Logger
}

// NewService creates a new Service instance.
func NewService(repo domain.Repository, files FileSaver, log *zap.Logger) domain.Service {
	return &service{repo: repo, files: files, log: log}
}

// CreateTicket stores the optional photo first, then persists the ticket.
// If the insert fails after a successful upload, the stored file is removed
// so no file lingers without a backing record.
func (s *service) CreateTicket(ctx context.Context, form domain.TicketForm, photo *multipart.FileHeader) (*domain.TicketRead, error) {
	photoFilename, err := s.saveFile(photo)
	if err != nil {
		return nil, err
	}

	ticket := &common.Ticket{
		FullName:      form.FullName,
		Contact:       form.Contact,
		Description:   form.Description,
		PhotoFilename: photoFilename,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		s.removeFile(photoFilename)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	read := domain.NewTicketRead(*ticket, nil)
	return &read, nil
}

// GetTicket returns a ticket with its response fetched by an explicit
// foreign-key lookup.
func (s *service) GetTicket(ctx context.Context, id uint) (*domain.TicketRead, error) {
	ticket, err := s.repo.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}

	response, err := s.repo.GetResponseByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}

	read := domain.NewTicketRead(*ticket, response)
	return &read, nil
}

// ListTickets returns tickets newest-first. Responses are loaded with a
// single batched query and joined in memory by ticket ID.
func (s *service) ListTickets(ctx context.Context, skip, limit int) ([]domain.TicketRead, error) {
	tickets, err := s.repo.ListTickets(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	ticketIDs := make([]uint, len(tickets))
	for i, ticket := range tickets {
		ticketIDs[i] = ticket.ID
	}

	responses, err := s.repo.ResponsesByTicketIDs(ctx, ticketIDs)
	if err != nil {
		return nil, err
	}

	byTicket := make(map[uint]*common.Response, len(responses))
	for i := range responses {
		byTicket[responses[i].TicketID] = &responses[i]
	}

	reads := make([]domain.TicketRead, len(tickets))
	for i, ticket := range tickets {
		reads[i] = domain.NewTicketRead(ticket, byTicket[ticket.ID])
	}
	return reads, nil
}

// AddResponse checks that the ticket exists before any upload is attempted,
// stores the optional media, and persists the response. Any persistence
// failure removes the just-stored media best-effort; the duplicate signal
// from the repository is passed through untouched.
func (s *service) AddResponse(ctx context.Context, ticketID uint, form domain.ResponseForm, media *multipart.FileHeader) (*domain.ResponseRead, error) {
	ticket, err := s.repo.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, domain.ErrTicketNotFound
	}

	mediaFilename, err := s.saveFile(media)
	if err != nil {
		return nil, err
	}

	response := &common.Response{
		TicketID:      ticketID,
		ResponderName: form.ResponderName,
		Status:        form.Status,
		Text:          nullableText(form.Text),
		MediaFilename: mediaFilename,
	}
	if err := s.repo.CreateResponse(ctx, response); err != nil {
		s.removeFile(mediaFilename)
		return nil, err
	}

	read := domain.NewResponseRead(*response)
	return &read, nil
}

// saveFile stores an optional multipart file, returning an invalid
// null.String when no file was supplied.
func (s *service) saveFile(header *multipart.FileHeader) (null.String, error) {
	if header == nil {
		return null.String{}, nil
	}

	src, err := header.Open()
	if err != nil {
		return null.String{}, fmt.Errorf("failed to open upload: %w", err)
	}

	name, err := s.files.Save(src, header.Filename)
	if err != nil {
		return null.String{}, err
	}
	return null.StringFrom(name), nil
}

func (s *service) removeFile(name null.String) {
	if name.Valid {
		s.files.Remove(name.String)
	}
}

func nullableText(text string) null.String {
	if text == "" {
		return null.String{}
	}
	return null.StringFrom(text)
}
