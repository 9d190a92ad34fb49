package domain

import (
	"github.com/guregu/null/v5"

	"support/common"
)

// PublicUploadPrefix is the URL prefix under which stored files are served.
const PublicUploadPrefix = "/uploads/"

// publicPath rewrites a stored filename into its public path. Absent
// filenames stay absent.
func publicPath(filename null.String) null.String {
	if !filename.Valid {
		return filename
	}
	return null.StringFrom(PublicUploadPrefix + filename.String)
}

// NewTicketRead maps a ticket entity and its optional response to the
// outward shape, rewriting stored filenames into public paths.
func NewTicketRead(ticket common.Ticket, response *common.Response) TicketRead {
	read := TicketRead{
		ID:            ticket.ID,
		FullName:      ticket.FullName,
		Contact:       ticket.Contact,
		Description:   ticket.Description,
		PhotoFilename: publicPath(ticket.PhotoFilename),
		CreatedAt:     ticket.CreatedAt,
	}
	if response != nil {
		responseRead := NewResponseRead(*response)
		read.Response = &responseRead
	}
	return read
}

// NewResponseRead maps a response entity to the outward shape.
func NewResponseRead(response common.Response) ResponseRead {
	return ResponseRead{
		ID:            response.ID,
		TicketID:      response.TicketID,
		ResponderName: response.ResponderName,
		Status:        response.Status,
		Text:          response.Text,
		MediaFilename: publicPath(response.MediaFilename),
		CreatedAt:     response.CreatedAt,
	}
}
