package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mungerd/rembobine/internal/dirs"
	"github.com/mungerd/rembobine/internal/job"
)

// EnvPrefix prefixes every environment override (REMBOBINE_MENCODER, ...).
const EnvPrefix = "REMBOBINE"

// Settings is the effective configuration after merging defaults, the
// config file, the environment and flags.
type Settings struct {
	Mencoder    string        `mapstructure:"mencoder" toml:"mencoder"`
	Mplayer     string        `mapstructure:"mplayer" toml:"mplayer"`
	LogLevel    string        `mapstructure:"log_level" toml:"log_level"`
	LogFormat   string        `mapstructure:"log_format" toml:"log_format"`
	Verbose     bool          `mapstructure:"verbose" toml:"verbose"`
	GracePeriod time.Duration `mapstructure:"grace_period" toml:"grace_period"`
	Charset     string        `mapstructure:"charset" toml:"charset"`
	StrictExit  bool          `mapstructure:"strict_exit" toml:"strict_exit"`
	ChunkSize   int           `mapstructure:"chunk_size" toml:"chunk_size"`
}

// flagKeys maps persistent flag names to viper keys.
var flagKeys = map[string]string{
	"mencoder":     "mencoder",
	"mplayer":      "mplayer",
	"log-level":    "log_level",
	"log-format":   "log_format",
	"verbose":      "verbose",
	"grace-period": "grace_period",
	"charset":      "charset",
	"chunk-size":   "chunk_size",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mencoder", "")
	v.SetDefault("mplayer", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("verbose", false)
	v.SetDefault("grace_period", job.DefaultGracePeriod)
	v.SetDefault("charset", "")
	v.SetDefault("strict_exit", false)
	v.SetDefault("chunk_size", job.DefaultChunkSize)
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is not an error, a malformed one is.
func Init(root *cobra.Command) error {
	return initViper(viper.GetViper(), root, true)
}

func initViper(v *viper.Viper, root *cobra.Command, searchConfigDir bool) error {
	SetDefaults(v)

	if searchConfigDir {
		_ = dirs.EnsureAll()
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			v.AddConfigPath(cfgDir)
		}
	}
	v.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	// Environment variables: REMBOBINE_*
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if root != nil {
		for flag, key := range flagKeys {
			if f := root.PersistentFlags().Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// BindFlag binds a command-local flag (e.g. --strict-exit on run) to key.
func BindFlag(cmd *cobra.Command, flag, key string) {
	if f := cmd.Flags().Lookup(flag); f != nil {
		_ = viper.BindPFlag(key, f)
	}
}

// Load decodes the global viper state into Settings.
func Load() (Settings, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = job.DefaultChunkSize
	}
	if s.GracePeriod < 0 {
		s.GracePeriod = 0
	}
	return s, nil
}

// ConfigFile returns the config file in use, or "".
func ConfigFile() string {
	return viper.ConfigFileUsed()
}
