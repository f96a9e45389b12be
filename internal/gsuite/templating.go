package gsuite

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/luneblaze/certgen/internal/cert"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/slides/v1"
)

// DriveTemplating implements cert.Templating against Drive (copy, export,
// trash) and Slides (text substitution).
type DriveTemplating struct {
	drive  *drive.Service
	slides *slides.Service
}

func NewDriveTemplating(ctx context.Context, httpClient *http.Client) (*DriveTemplating, error) {
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	slidesSvc, err := slides.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create slides service: %w", err)
	}

	return &DriveTemplating{drive: driveSvc, slides: slidesSvc}, nil
}

// Duplicate copies the template presentation into the destination folder and
// returns the new document's identifier.
func (t *DriveTemplating) Duplicate(ctx context.Context, templateID, folderID, name string) (string, error) {
	file, err := t.drive.Files.Copy(templateID, &drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to copy template %s: %w", templateID, err)
	}
	return file.Id, nil
}

// ReplaceAllText applies every substitution as a literal-text replacement
// across all occurrences in the presentation, in one batch update.
func (t *DriveTemplating) ReplaceAllText(ctx context.Context, documentID string, subs []cert.Substitution) error {
	requests := make([]*slides.Request, 0, len(subs))
	for _, sub := range subs {
		requests = append(requests, &slides.Request{
			ReplaceAllText: &slides.ReplaceAllTextRequest{
				ContainsText: &slides.SubstringMatchCriteria{Text: sub.Placeholder},
				ReplaceText:  sub.Value,
			},
		})
	}

	_, err := t.slides.Presentations.BatchUpdate(documentID, &slides.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to substitute text in %s: %w", documentID, err)
	}
	return nil
}

// ExportPDF downloads the presentation as a PDF byte stream.
func (t *DriveTemplating) ExportPDF(ctx context.Context, documentID string) ([]byte, error) {
	resp, err := t.drive.Files.Export(documentID, "application/pdf").Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export %s as pdf: %w", documentID, err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf export of %s: %w", documentID, err)
	}
	return pdf, nil
}

// Trash moves the working copy to the Drive trash rather than deleting it
// outright, matching the collaborator's soft-delete semantics.
func (t *DriveTemplating) Trash(ctx context.Context, documentID string) error {
	_, err := t.drive.Files.Update(documentID, &drive.File{Trashed: true}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to trash %s: %w", documentID, err)
	}
	return nil
}
