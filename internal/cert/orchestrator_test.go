package cert

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() JobParameters {
	return JobParameters{
		SheetID:     "sheet-1",
		SheetRange:  "Attendees!A:G",
		WebinarName: "SQAAF Readiness",
		SessionDate: time.Date(2024, time.March, 21, 0, 0, 0, 0, time.UTC),
		OrganizedBy: "Luneblaze",
	}
}

func headerRow() []string {
	return []string{"Timestamp", "Name", "Email", "Consent", "School", "Location", "Certificate"}
}

func attendeeRow(name, email, cert string) []string {
	return []string{"2024-03-21", name, email, "yes", "Sunrise Public School", "Pune", cert}
}

type orchestratorFixture struct {
	log        *callLog
	source     *fakeSource
	templating *fakeTemplating
	sender     *fakeSender
	sink       *fakeSink
}

func newOrchestrator(t *testing.T, fx *orchestratorFixture) *Orchestrator {
	t.Helper()

	logger := testLogger()
	return NewOrchestrator(&Config{
		Source:     fx.source,
		Renderer:   NewRenderer(fx.templating, "tmpl-1", "folder-1", logger),
		Dispatcher: NewDispatcher(fx.sender, logger),
		Reporter:   NewReporter(fx.sink, logger),
		Mapping:    DefaultColumnMapping(),
		Logger:     logger,
	})
}

func newFixture(rows [][]string) *orchestratorFixture {
	log := &callLog{}
	return &orchestratorFixture{
		log:        log,
		source:     &fakeSource{rows: rows},
		templating: &fakeTemplating{log: log},
		sender:     &fakeSender{log: log},
		sink:       &fakeSink{},
	}
}

func TestOrchestrator_Run_MissingParameter(t *testing.T) {
	fx := newFixture(nil)
	o := newOrchestrator(t, fx)

	params := validParams()
	params.WebinarName = ""

	summary, err := o.Run(t.Context(), params)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrMissingParameter)

	// Rejected before any side effect: no progress record, no collaborator calls.
	assert.Empty(t, fx.sink.published)
	assert.Empty(t, fx.log.calls)
}

func TestOrchestrator_Run_SourceUnreadable(t *testing.T) {
	fx := newFixture(nil)
	fx.source.err = errors.New("range unreadable")
	o := newOrchestrator(t, fx)

	summary, err := o.Run(t.Context(), validParams())
	assert.Nil(t, summary)

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Empty(t, fx.sink.published)
}

func TestOrchestrator_Run_EmptyRange(t *testing.T) {
	fx := newFixture([][]string{})
	o := newOrchestrator(t, fx)

	_, err := o.Run(t.Context(), validParams())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestOrchestrator_Run_SkipsRowWithMissingEmail(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
		attendeeRow("Ravi Kumar", "", "LB-2"),
		attendeeRow("Meera Nair", "meera@example.com", "LB-3"),
	})
	o := newOrchestrator(t, fx)

	summary, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalCandidates)
	assert.Equal(t, 2, summary.ProcessedCount)

	require.Len(t, summary.Outcomes, 3)
	assert.Equal(t, RowCompleted, summary.Outcomes[0].Status)
	assert.Equal(t, RowSkipped, summary.Outcomes[1].Status)
	assert.Equal(t, "missing email", summary.Outcomes[1].Reason)
	assert.Equal(t, 3, summary.Outcomes[1].Row)
	assert.Equal(t, RowCompleted, summary.Outcomes[2].Status)
}

func TestOrchestrator_Run_RowOrderAndCollaboratorSequence(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
	})
	o := newOrchestrator(t, fx)

	summary, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedCount)

	// One duplicate-then-trash pair, then exactly one send, in that order.
	assert.Equal(t, []string{
		"duplicate:tmpl-1:folder-1:Asha Verma - Certificate:copy-1",
		"replace:copy-1",
		"export:copy-1",
		"trash:copy-1",
		"send:asha@example.com:Asha Verma_LB-1.pdf",
	}, fx.log.calls)
}

func TestOrchestrator_Run_RenderFailureIsRowScoped(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
		attendeeRow("Ravi Kumar", "ravi@example.com", "LB-2"),
	})
	fx.templating.exportErr = errors.New("export boom")
	o := newOrchestrator(t, fx)

	summary, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCandidates)
	assert.Equal(t, 0, summary.ProcessedCount)
	for _, outcome := range summary.Outcomes {
		assert.Equal(t, RowFailed, outcome.Status)
	}

	// Every failed row still cleaned up its working copy, and nothing was mailed.
	trashes := 0
	for _, call := range fx.log.calls {
		if strings.HasPrefix(call, "trash:") {
			trashes++
		}
		assert.False(t, strings.HasPrefix(call, "send:"))
	}
	assert.Equal(t, 2, trashes)
}

func TestOrchestrator_Run_DeliveryFailureIsRowScoped(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
		attendeeRow("Ravi Kumar", "ravi@example.com", "LB-2"),
	})
	fx.sender.err = errors.New("smtp boom")
	o := newOrchestrator(t, fx)

	summary, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ProcessedCount)
	require.Len(t, summary.Outcomes, 2)
	assert.Contains(t, summary.Outcomes[0].Reason, "deliver certificate")
}

func TestOrchestrator_Run_ProgressSequence(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
		attendeeRow("Ravi Kumar", "", "LB-2"),
		attendeeRow("Meera Nair", "meera@example.com", "LB-3"),
	})
	o := newOrchestrator(t, fx)

	_, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)

	// Reset with the new total, one update per completed row (skips publish
	// nothing), then the zero state after completion.
	require.Len(t, fx.sink.published, 4)
	assert.Equal(t, NewProgress(3, 0), fx.sink.published[0])
	assert.Equal(t, NewProgress(3, 1), fx.sink.published[1])
	assert.Equal(t, NewProgress(3, 2), fx.sink.published[2])
	assert.Equal(t, JobProgress{}, fx.sink.published[3])

	// processedCount is monotonic and never exceeds totalCandidates.
	prev := 0
	for _, p := range fx.sink.published[:3] {
		assert.GreaterOrEqual(t, p.ProcessedCount, prev)
		assert.LessOrEqual(t, p.ProcessedCount, p.TotalCandidates)
		prev = p.ProcessedCount
	}
}

func TestOrchestrator_Run_ContextCanceledAborts(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
	})
	o := newOrchestrator(t, fx)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := o.Run(ctx, validParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.ProcessedCount)
}

func TestOrchestrator_Run_PacingBetweenRows(t *testing.T) {
	fx := newFixture([][]string{
		headerRow(),
		attendeeRow("Asha Verma", "asha@example.com", "LB-1"),
		attendeeRow("Ravi Kumar", "ravi@example.com", "LB-2"),
		attendeeRow("Meera Nair", "meera@example.com", "LB-3"),
	})

	logger := testLogger()
	delay := 20 * time.Millisecond
	o := NewOrchestrator(&Config{
		Source:     fx.source,
		Renderer:   NewRenderer(fx.templating, "tmpl-1", "folder-1", logger),
		Dispatcher: NewDispatcher(fx.sender, logger),
		Reporter:   NewReporter(fx.sink, logger),
		Mapping:    DefaultColumnMapping(),
		RowDelay:   delay,
		Logger:     logger,
	})

	start := time.Now()
	summary, err := o.Run(t.Context(), validParams())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ProcessedCount)

	// Three rows, first unpaced: at least two full delays elapsed.
	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}
