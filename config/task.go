package config

import (
	"time"

	"github.com/spf13/viper"
)

// TaskConfiguration type defines background job settings
type TaskConfiguration struct {
	ConfigRefreshInterval time.Duration
}

// TaskConfig sets the background task configuration
func TaskConfig() *TaskConfiguration {
	viper.SetDefault("CONFIG_REFRESH_INTERVAL", time.Minute)

	return &TaskConfiguration{
		ConfigRefreshInterval: viper.GetDuration("CONFIG_REFRESH_INTERVAL"),
	}
}
