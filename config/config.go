// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/goflix/goflix/constant"
	"github.com/goflix/goflix/filesystem"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// ControlsDwell is how long transport controls stay visible after the last interaction.
func ControlsDwell() time.Duration {
	return time.Duration(viper.GetInt(key.PlayerControlsDwell)) * time.Millisecond
}

// CommandTimeout bounds every single engine command.
func CommandTimeout() time.Duration {
	return time.Duration(viper.GetInt(key.PlayerCommandTimeout)) * time.Millisecond
}

// SeekStep is the scrub distance of one seek key press.
func SeekStep() time.Duration {
	return time.Duration(viper.GetInt(key.PlayerSeekStep)) * time.Second
}

// InitialVolume returns the configured start volume normalized into [0, 1].
func InitialVolume() float64 {
	v := float64(viper.GetInt(key.PlayerInitialVolume)) / 100
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
