package scheduler

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"snowpool/internal/database"
	"snowpool/internal/models"
	"snowpool/internal/pricing"
	"snowpool/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketplace(t *testing.T) *service.Marketplace {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db := database.NewDB(nil, &logger)
	return service.NewMarketplace(db, pricing.NewCalculator(pricing.DefaultConfig()), nil, true, &logger)
}

func TestRegister(t *testing.T) {
	logger := zerolog.New(io.Discard)
	s := New(&logger)

	require.NoError(t, s.Register(Job{Name: "every", Schedule: models.DemandRefreshSchedule, Run: func(context.Context) error { return nil }}))
	require.NoError(t, s.Register(Job{Name: "nightly", Schedule: "0 3 * * *", Run: func(context.Context) error { return nil }}))
	assert.Error(t, s.Register(Job{Name: "broken", Schedule: "not a schedule", Run: func(context.Context) error { return nil }}))
	assert.Equal(t, 2, s.Jobs())

	s.Start()
	s.Stop()
}

func TestRun_LogsFailure(t *testing.T) {
	s := New(nil)
	called := false
	s.run(Job{Name: "failing", Run: func(ctx context.Context) error {
		called = true
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("boom")
	}})
	assert.True(t, called)
}

func TestDemandRefreshJob(t *testing.T) {
	market := newTestMarketplace(t)
	_, err := market.SubmitServiceRequest(context.Background(), models.Caller{ID: "c"}, models.ServiceRequestInput{
		PostalCode: "00100", Address: "x", YardSizeCategory: models.YardSmall, ServiceType: models.ServiceHand,
	})
	require.NoError(t, err)

	job := DemandRefreshJob(models.DemandRefreshSchedule, market)
	assert.Equal(t, "demand_refresh", job.Name)
	assert.NoError(t, job.Run(context.Background()))
}

func TestExportSnapshotJob(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	job := ExportSnapshotJob("@daily", dir, newTestMarketplace(t), nil)

	require.NoError(t, job.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".xlsx", filepath.Ext(entries[0].Name()))
}

type countingPruner struct{ calls int }

func (p *countingPruner) Prune() int {
	p.calls++
	return 0
}

func TestPruneJob(t *testing.T) {
	p := &countingPruner{}
	require.NoError(t, PruneJob("@every 5m", p).Run(context.Background()))
	assert.Equal(t, 1, p.calls)
}
