package cert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// callLog records collaborator calls in order so tests can assert on the
// duplicate → trash → send sequencing.
type callLog struct {
	calls []string
}

func (l *callLog) record(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeSource struct {
	rows [][]string
	err  error
}

func (f *fakeSource) FetchRows(_ context.Context, _, _ string) ([][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeTemplating struct {
	log *callLog

	duplicateErr error
	replaceErr   error
	exportErr    error
	trashErr     error

	pdf    []byte
	nextID int

	lastSubs []Substitution
}

func (f *fakeTemplating) Duplicate(_ context.Context, templateID, folderID, name string) (string, error) {
	if f.duplicateErr != nil {
		f.log.record("duplicate-failed:%s", name)
		return "", f.duplicateErr
	}
	f.nextID++
	id := fmt.Sprintf("copy-%d", f.nextID)
	f.log.record("duplicate:%s:%s:%s:%s", templateID, folderID, name, id)
	return id, nil
}

func (f *fakeTemplating) ReplaceAllText(_ context.Context, documentID string, subs []Substitution) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.lastSubs = subs
	f.log.record("replace:%s", documentID)
	return nil
}

func (f *fakeTemplating) ExportPDF(_ context.Context, documentID string) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	f.log.record("export:%s", documentID)
	if f.pdf == nil {
		return []byte("%PDF-fake"), nil
	}
	return f.pdf, nil
}

func (f *fakeTemplating) Trash(_ context.Context, documentID string) error {
	f.log.record("trash:%s", documentID)
	return f.trashErr
}

type sentMail struct {
	to         string
	subject    string
	body       string
	attachment Attachment
}

type fakeSender struct {
	log  *callLog
	err  error
	sent []sentMail
}

func (f *fakeSender) Send(_ context.Context, to, subject, htmlBody string, attachment Attachment) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody, attachment: attachment})
	f.log.record("send:%s:%s", to, attachment.Filename)
	return nil
}

type fakeSink struct {
	published []JobProgress
	storeErr  error
	hasRecord bool
}

func (f *fakeSink) Store(_ context.Context, p JobProgress) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	f.published = append(f.published, p)
	f.hasRecord = true
	return nil
}

func (f *fakeSink) Load(_ context.Context) (JobProgress, error) {
	if !f.hasRecord {
		return JobProgress{}, ErrNoProgress
	}
	return f.published[len(f.published)-1], nil
}
