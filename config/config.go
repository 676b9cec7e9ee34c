package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Configuration groups every concern the service reads at startup
type Configuration struct {
	Server      ServerConfiguration
	Wallet      WalletConfiguration
	Transaction TransactionConfiguration
	Task        TaskConfiguration
}

func init() {
	_ = SetupConfig()
}

// SetupConfig points viper at the env file and the process environment.
// A missing env file is not an error; defaults and environment variables still apply.
func SetupConfig() error {
	var configuration *Configuration

	viper.AddConfigPath("../../../..")
	viper.AddConfigPath("../../..")
	viper.AddConfigPath("../..")
	viper.AddConfigPath("..")
	viper.AddConfigPath(".")

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	viper.SetConfigName(envFilePath)
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Printf("Error reading config file, %s", err)
			return err
		}
	}

	if err := viper.Unmarshal(&configuration); err != nil {
		fmt.Printf("error to decode, %v", err)
		return err
	}

	return nil
}
