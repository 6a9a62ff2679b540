package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReconcileHandler struct {
	mock.Mock
}

func (m *MockReconcileHandler) Handle(
	ctx context.Context,
	cmd commands.ReconcileProgressCommand,
) (commands.ReconcileResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconcileResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewReconciliationJob_Defaults(t *testing.T) {
	job := NewReconciliationJob(new(MockReconcileHandler), "", 0, discardLogger())

	assert.Equal(t, DefaultReconcileSchedule, job.schedule)
	assert.Equal(t, DefaultReconcileTimeout, job.timeout)
}

func TestReconciliationJob_RunOnce(t *testing.T) {
	t.Run("passes clock and deadline to handler", func(t *testing.T) {
		now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
		handler := new(MockReconcileHandler)
		handler.On("Handle",
			mock.MatchedBy(func(ctx context.Context) bool {
				_, ok := ctx.Deadline()
				return ok
			}),
			mock.MatchedBy(func(cmd commands.ReconcileProgressCommand) bool {
				return cmd.Now().Equal(now)
			}),
		).Return(commands.ReconcileResult{UpdatedCount: 1, TotalCandidates: 2}, nil).Once()

		job := NewReconciliationJob(handler, "", time.Minute, discardLogger())
		job.now = func() time.Time { return now }

		job.RunOnce(t.Context())

		handler.AssertExpectations(t)
	})

	t.Run("handler error is logged, not propagated", func(t *testing.T) {
		handler := new(MockReconcileHandler)
		handler.On("Handle", mock.Anything, mock.Anything).
			Return(commands.ReconcileResult{}, errors.New("list active parcels: timeout")).Once()

		job := NewReconciliationJob(handler, "", time.Minute, discardLogger())

		assert.NotPanics(t, func() { job.RunOnce(t.Context()) })
		handler.AssertExpectations(t)
	})
}

func TestReconciliationJob_StartRejectsInvalidSchedule(t *testing.T) {
	job := NewReconciliationJob(new(MockReconcileHandler), "every now and then", time.Minute, discardLogger())

	require.Error(t, job.Start())
}

func TestReconciliationJob_RunsOnSchedule(t *testing.T) {
	ticked := make(chan struct{}, 1)
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		}).
		Return(commands.ReconcileResult{}, nil)

	job := NewReconciliationJob(handler, "* * * * * *", time.Second, discardLogger())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-ticked:
	case <-time.After(3 * time.Second):
		t.Fatal("reconciliation did not run")
	}
}

func TestJobManager_StartStop(t *testing.T) {
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconcileResult{}, nil).Maybe()

	jm := NewJobManager(handler, "0 0 3 * * *", time.Minute, discardLogger())

	require.NoError(t, jm.StartAll())
	jm.StopAll()
}

func TestJobManager_StartAllFailsOnBadSchedule(t *testing.T) {
	jm := NewJobManager(new(MockReconcileHandler), "bogus", time.Minute, discardLogger())

	err := jm.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start reconciliation job")
}
