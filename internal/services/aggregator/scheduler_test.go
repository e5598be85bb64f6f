package aggregator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/common"
	"github.com/folioscope/folioscope/internal/models"
)

func TestPoller_KeepsSnapshotAcrossFailedCycle(t *testing.T) {
	fake := newFakeClient()
	agg := New("1001", fake, nil)

	updates := 0
	poller := NewPoller(agg, common.NewSilentLogger(), func(models.Snapshot) { updates++ })

	assert.Nil(t, poller.Latest(), "no snapshot before the first cycle")

	require.NoError(t, poller.Run())
	first := poller.Latest()
	require.NotNil(t, first)
	assert.Equal(t, 1, updates)

	// a transport failure on a required endpoint fails the cycle but
	// must leave the previous snapshot readable
	fake.requiredErr["portfolios"] = errors.New("connection refused")
	err := poller.Run()
	require.Error(t, err)
	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)

	assert.Equal(t, first, poller.Latest(), "failed cycle must not touch the held snapshot")
	assert.Equal(t, 1, updates, "onUpdate fires only for successful cycles")

	// recovery replaces the snapshot again
	delete(fake.requiredErr, "portfolios")
	require.NoError(t, poller.Run())
	assert.Equal(t, 2, updates)
}

func TestRescan_ReportsGroupGrowth(t *testing.T) {
	fake := newFakeClient()
	fake.report["sub_totals"] = []any{
		map[string]any{"group_name": "AU", "value": 500.0},
	}
	agg := New("1001", fake, nil)

	var gotMarkets, gotCash []models.GroupEntry
	calls := 0
	poller := NewPoller(agg, common.NewSilentLogger(), nil)
	rescan := NewRescan(poller, common.NewSilentLogger(), func(markets, cash []models.GroupEntry) {
		gotMarkets, gotCash = markets, cash
		calls++
	})

	// nothing to enumerate before the first successful cycle
	require.NoError(t, rescan.Run())
	assert.Zero(t, calls)

	require.NoError(t, poller.Run())
	require.NoError(t, rescan.Run())
	require.Len(t, gotMarkets, 1)
	assert.Equal(t, models.GroupEntry{Index: 0, Name: "AU"}, gotMarkets[0])

	// a market appears between cycles; the next re-scan reports it
	fake.report["sub_totals"] = []any{
		map[string]any{"group_name": "AU", "value": 500.0},
		map[string]any{"group_name": "US", "value": 300.0},
	}
	require.NoError(t, poller.Run())
	require.NoError(t, rescan.Run())
	require.Len(t, gotMarkets, 2)
	assert.Equal(t, models.GroupEntry{Index: 1, Name: "US"}, gotMarkets[1])
	assert.Empty(t, gotCash)
}

type stubJob struct {
	name string
	runs int
	err  error
}

func (j *stubJob) Run() error   { j.runs++; return j.err }
func (j *stubJob) Name() string { return j.name }

func TestScheduler_AddJobAndRunNow(t *testing.T) {
	scheduler := NewScheduler(common.NewSilentLogger())

	job := &stubJob{name: "poll-test"}
	require.NoError(t, scheduler.AddJob(5*time.Minute, job))
	assert.Zero(t, job.runs, "registration alone must not run the job")

	require.NoError(t, scheduler.RunNow(job))
	assert.Equal(t, 1, job.runs)

	job.err = errors.New("cycle failed")
	assert.Error(t, scheduler.RunNow(job), "RunNow surfaces the job error")
}
