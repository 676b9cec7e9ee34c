package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapildev5262/Token-World/config"
	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (r *countingRefresher) RefreshAll(ctx context.Context) int {
	_, ok := ctx.Deadline()
	r.hadDeadline.Store(ok)
	return int(r.calls.Add(1))
}

func TestRefreshFactoryConfigurations(t *testing.T) {
	r := &countingRefresher{}
	RefreshFactoryConfigurations(r, time.Second)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.True(t, r.hadDeadline.Load())
}

func TestStartCronJobs(t *testing.T) {
	t.Run("zero interval disables the refresh", func(t *testing.T) {
		r := &countingRefresher{}
		assert.Nil(t, StartCronJobs(&config.TaskConfiguration{}, r))
		assert.Equal(t, int32(0), r.calls.Load())
	})

	t.Run("refreshes periodically", func(t *testing.T) {
		r := &countingRefresher{}
		scheduler := StartCronJobs(&config.TaskConfiguration{ConfigRefreshInterval: 20 * time.Millisecond}, r)
		assert.NotNil(t, scheduler)
		defer scheduler.Stop()

		assert.Eventually(t, func() bool {
			return r.calls.Load() >= 2
		}, 2*time.Second, 5*time.Millisecond)
	})
}
