package cert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	attendee := &AttendeeRecord{Name: "Asha Verma", Email: "asha@example.com", SchoolName: "DPS", CertificateNumber: "LB-1"}
	subs := []Substitution{{Placeholder: "{{Name}}", Value: "Asha Verma"}}

	t.Run("success duplicates then trashes exactly once", func(t *testing.T) {
		log := &callLog{}
		templating := &fakeTemplating{log: log}
		r := NewRenderer(templating, "tmpl-1", "folder-1", testLogger())

		pdf, err := r.Render(t.Context(), attendee, subs)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-fake"), pdf)
		assert.Equal(t, []string{
			"duplicate:tmpl-1:folder-1:Asha Verma - Certificate:copy-1",
			"replace:copy-1",
			"export:copy-1",
			"trash:copy-1",
		}, log.calls)
		assert.Equal(t, subs, templating.lastSubs)
	})

	t.Run("export failure still trashes the working copy", func(t *testing.T) {
		log := &callLog{}
		templating := &fakeTemplating{log: log, exportErr: errors.New("export boom")}
		r := NewRenderer(templating, "tmpl-1", "folder-1", testLogger())

		_, err := r.Render(t.Context(), attendee, subs)
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "Asha Verma", renderErr.Attendee)
		assert.Equal(t, "export", renderErr.Stage)
		assert.Contains(t, log.calls, "trash:copy-1")
	})

	t.Run("substitution failure still trashes the working copy", func(t *testing.T) {
		log := &callLog{}
		templating := &fakeTemplating{log: log, replaceErr: errors.New("substitute boom")}
		r := NewRenderer(templating, "tmpl-1", "folder-1", testLogger())

		_, err := r.Render(t.Context(), attendee, subs)
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "substitute", renderErr.Stage)
		assert.Equal(t, "trash:copy-1", log.calls[len(log.calls)-1])
	})

	t.Run("duplicate failure never trashes", func(t *testing.T) {
		log := &callLog{}
		templating := &fakeTemplating{log: log, duplicateErr: errors.New("copy boom")}
		r := NewRenderer(templating, "tmpl-1", "folder-1", testLogger())

		_, err := r.Render(t.Context(), attendee, subs)
		require.Error(t, err)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, "duplicate", renderErr.Stage)
		for _, call := range log.calls {
			assert.NotContains(t, call, "trash")
		}
	})

	t.Run("trash failure does not fail a successful export", func(t *testing.T) {
		log := &callLog{}
		templating := &fakeTemplating{log: log, trashErr: errors.New("trash boom")}
		r := NewRenderer(templating, "tmpl-1", "folder-1", testLogger())

		pdf, err := r.Render(t.Context(), attendee, subs)
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)
	})
}
