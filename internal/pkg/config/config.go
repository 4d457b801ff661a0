package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/microsievert/dosimetria/internal/pkg/constants"
)

// Load reads config.yaml (optional) and the environment into viper.
func Load() error {
	viper.SetEnvPrefix("DOSIMETRIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(constants.ViperHTTPAddr, ":8080")
	viper.SetDefault(constants.ViperLogMode, "dev")
	viper.SetDefault(constants.ViperStoreBackend, constants.StoreBackendNinox)
	viper.SetDefault(constants.ViperNinoxBaseURL, "https://api.ninox.com/v1")
	viper.SetDefault(constants.ViperNinoxPMAsText, true)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	switch viper.GetString(constants.ViperStoreBackend) {
	case constants.StoreBackendNinox, constants.StoreBackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", viper.GetString(constants.ViperStoreBackend))
	}

	return nil
}
