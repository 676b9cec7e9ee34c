package main

import (
	"fmt"

	"github.com/kapildev5262/Token-World/config"
	"github.com/kapildev5262/Token-World/controllers"
	"github.com/kapildev5262/Token-World/routers"
	"github.com/kapildev5262/Token-World/services/factory"
	"github.com/kapildev5262/Token-World/services/fees"
	"github.com/kapildev5262/Token-World/services/network"
	"github.com/kapildev5262/Token-World/services/provider"
	"github.com/kapildev5262/Token-World/services/registry"
	"github.com/kapildev5262/Token-World/services/session"
	"github.com/kapildev5262/Token-World/services/transaction"
	"github.com/kapildev5262/Token-World/tasks"
	"github.com/kapildev5262/Token-World/types"
	"github.com/kapildev5262/Token-World/utils/logger"
)

func main() {
	conf := config.ServerConfig()
	walletConf := config.WalletConfig()
	txConf := config.TransactionConfig()
	taskConf := config.TaskConfig()

	chains := registry.NewDefault(config.ChainOverrides(registry.Sepolia, registry.BaseSepolia))

	// A wallet that cannot be built leaves the session without a provider;
	// connect requests then fail with NoProviderAvailable.
	var wallet types.Provider
	wallet, err := provider.Select(walletConf.Option, provider.Deps{
		BridgeURL:     walletConf.BridgeURL,
		BridgeTimeout: walletConf.BridgeTimeout,
		PollInterval:  walletConf.PollInterval,
		DevWallet: provider.DevWalletOptions{
			Mnemonic:       walletConf.DevMnemonic,
			AccountIndex:   walletConf.DevAccountIndex,
			InitialChainID: walletConf.DevInitialChainID,
			Chains:         chains,
			Dial:           provider.DialEthClient,
			GasMultiplier:  txConf.GasLimitMultiplier,
		},
	})
	if err != nil {
		logger.WithFields(logger.Fields{
			"Error":  err.Error(),
			"Wallet": walletConf.Option,
		}).Errorf("wallet provider unavailable")
	}
	if stopper, ok := wallet.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	sess := session.New(wallet, chains, network.NewCoordinator(), session.WithRequestTimeout(walletConf.BridgeTimeout))
	defer sess.Disconnect()

	resolver := fees.NewResolver()
	orchestrator := transaction.NewOrchestrator(txConf.ReceiptPollInterval)

	manager := factory.NewManager(sess, chains, resolver, orchestrator)
	manager.Start()
	defer manager.Stop()

	// Start cron jobs
	if scheduler := tasks.StartCronJobs(taskConf, manager); scheduler != nil {
		defer scheduler.Stop()
	}

	// Run the server
	ctrl := controllers.NewController(chains, sess, manager, resolver, walletConf.Option, txConf.ConfirmationTimeout)
	router := routers.Routes(conf, ctrl)

	appServer := fmt.Sprintf("%s:%s", conf.Host, conf.Port)
	logger.Infof("Server Running at :%v", appServer)

	logger.Fatalf("%v", router.Run(appServer))
}
