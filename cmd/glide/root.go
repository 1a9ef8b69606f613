package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agiangrant/glide"
)

const version = "0.1.0"

// app carries state shared by subcommands once PersistentPreRunE has run.
type app struct {
	v        *viper.Viper
	cfgFile  string
	logLevel string

	cfg glide.Config
	log *zap.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "glide",
		Short:         "Replay pointer traces through the glide scroll engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate("glide version {{.Version}}\n")
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "TOML config file with a [scroll] table")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newReplayCmd(a), newPlayCmd(a), newConfigCmd(a))
	return root, a
}

// setup loads configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	log, err := newLogger(a.logLevel, cmd)
	if err != nil {
		return err
	}
	a.log = log
	glide.SetLogger(log)

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	log.Debug("configuration loaded", zap.String("file", a.cfgFile), zap.Any("scroll", cfg))
	return nil
}

// loadConfig layers defaults, the config file and GLIDE_SCROLL_* variables.
func (a *app) loadConfig() (glide.Config, error) {
	v := a.v
	d := glide.DefaultConfig()
	defaults := map[string]any{
		"touch_slop":         d.TouchSlop,
		"min_fling_velocity": d.MinFlingVelocity,
		"max_fling_velocity": d.MaxFlingVelocity,
		"velocity_window_ms": d.VelocityWindowMs,
		"friction":           d.Friction,
		"deceleration":       d.Deceleration,
		"stop_velocity":      d.StopVelocity,
		"target_fps":         d.TargetFPS,
	}
	for k, val := range defaults {
		v.SetDefault("scroll."+k, val)
	}

	v.SetEnvPrefix("GLIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return glide.Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal walks every known key, which is what lets environment
	// variables reach nested settings.
	var file struct {
		Scroll glide.Config `mapstructure:"scroll"`
	}
	file.Scroll = d
	if err := v.Unmarshal(&file); err != nil {
		return glide.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := file.Scroll.Validate(); err != nil {
		return glide.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return file.Scroll, nil
}

func newLogger(level string, cmd *cobra.Command) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())),
		lvl,
	)
	return zap.New(core), nil
}
