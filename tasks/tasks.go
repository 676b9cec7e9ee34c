package tasks

import (
	"context"
	"time"

	"github.com/kapildev5262/Token-World/utils/logger"
)

// Refresher reloads the configuration of the live factory clients
type Refresher interface {
	RefreshAll(ctx context.Context) int
}

// RefreshFactoryConfigurations reloads every attached factory client, bounded by timeout
func RefreshFactoryConfigurations(refresher Refresher, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	refreshed := refresher.RefreshAll(ctx)
	logger.WithFields(logger.Fields{
		"Refreshed": refreshed,
	}).Debugf("factory configurations refreshed")
}
