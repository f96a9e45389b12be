package cert

import (
	"context"
	"log/slog"
)

// Templating abstracts the document collaborator: duplicate a template,
// substitute text, export, and trash the working copy.
type Templating interface {
	Duplicate(ctx context.Context, templateID, folderID, name string) (string, error)
	ReplaceAllText(ctx context.Context, documentID string, subs []Substitution) error
	ExportPDF(ctx context.Context, documentID string) ([]byte, error)
	Trash(ctx context.Context, documentID string) error
}

// Renderer produces one certificate PDF per attendee from a slide template.
type Renderer struct {
	templating Templating
	templateID string
	folderID   string
	logger     *slog.Logger
}

func NewRenderer(templating Templating, templateID, folderID string, logger *slog.Logger) *Renderer {
	return &Renderer{
		templating: templating,
		templateID: templateID,
		folderID:   folderID,
		logger:     logger,
	}
}

// Render duplicates the template, applies every substitution, and exports
// the working copy as a PDF. The working copy is always trashed once it was
// created, whatever the exit path; a trash failure leaks the document and
// is logged, never retried.
func (r *Renderer) Render(ctx context.Context, attendee *AttendeeRecord, subs []Substitution) ([]byte, error) {
	copyID, err := r.templating.Duplicate(ctx, r.templateID, r.folderID, attendee.Name+" - Certificate")
	if err != nil {
		return nil, &RenderError{Attendee: attendee.Name, Stage: "duplicate", Err: err}
	}

	defer func() {
		if trashErr := r.templating.Trash(ctx, copyID); trashErr != nil {
			r.logger.Warn("Failed to trash working copy, document leaked",
				slog.String("document_id", copyID),
				slog.String("attendee", attendee.Name),
				slog.Any("error", trashErr),
			)
		}
	}()

	if err := r.templating.ReplaceAllText(ctx, copyID, subs); err != nil {
		return nil, &RenderError{Attendee: attendee.Name, Stage: "substitute", Err: err}
	}

	pdf, err := r.templating.ExportPDF(ctx, copyID)
	if err != nil {
		return nil, &RenderError{Attendee: attendee.Name, Stage: "export", Err: err}
	}

	return pdf, nil
}
