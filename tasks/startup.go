package tasks

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/kapildev5262/Token-World/config"
	"github.com/kapildev5262/Token-World/utils/logger"
)

// StartCronJobs schedules the background jobs and starts them.
// It returns nil when every job is disabled.
func StartCronJobs(conf *config.TaskConfiguration, refresher Refresher) *gocron.Scheduler {
	if conf.ConfigRefreshInterval <= 0 {
		logger.Infof("factory configuration refresh disabled")
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	// Reload owner, fees and balance of the live factory clients
	_, err := scheduler.Every(conf.ConfigRefreshInterval).Do(RefreshFactoryConfigurations, refresher, conf.ConfigRefreshInterval)
	if err != nil {
		logger.Errorf("StartCronJobs for RefreshFactoryConfigurations: %v", err)
		return nil
	}

	scheduler.StartAsync()
	return scheduler
}
