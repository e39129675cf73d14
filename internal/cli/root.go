package cli

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/recq/logger"
	"github.com/kbukum/recq/version"
)

// RootOptions holds global flags and the state loaded before each command.
type RootOptions struct {
	ConfigFile string
	LogLevel   string

	Config *AppConfig
	Log    *logger.Logger
}

// NewRootCommand creates the recq root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "recq",
		Short:   "recq - record query engine",
		Long:    "Run declarative query plans (filter, sort, window, rollup, map, reduce, diff) over record sets.",
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default: ./recq.yml, ./config/recq.yml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := loadAppConfig(o.ConfigFile)
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
		if err := cfg.Logging.Validate(); err != nil {
			return err
		}
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	o.Config = cfg
	// Logs go to stderr so stdout stays machine readable.
	o.Log = logger.Init(cfg.Logging, cmd.ErrOrStderr(), cfg.Name)
	return nil
}
