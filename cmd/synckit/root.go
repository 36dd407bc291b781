package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notewell/synckit/settings"
	"github.com/notewell/synckit/syncdb"
	"github.com/notewell/synckit/target"
)

const appDirName = ".synckit"

type rootFlags struct {
	configFile string
	dataDir    string
	verbose    bool
}

// app holds what a command needs once flags are parsed: the loaded
// settings and the directory sync state lives under.
type app struct {
	logger   *slog.Logger
	settings settings.Reader
	dataDir  string
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "synckit",
		Short: "Synchronize a local directory with a remote storage backend",
		Long: `synckit keeps a local directory and a remote storage backend in step.
Targets are configured in a YAML file under keys namespaced by target id,
for example:

  appType: cli
  sync:
    8:
      path: my-bucket
      username: AKIA...
      password: ...`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if flags.verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "configuration file (default $HOME/.synckit/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "sync state directory (default $HOME/.synckit)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newTargetsCmd())
	cmd.AddCommand(newCheckCmd(logger, flags))
	cmd.AddCommand(newSyncCmd(logger, flags))
	return cmd
}

// loadApp reads the configuration. An explicit --config must exist; with
// the default search path a missing file just means empty settings, so
// commands that need no configuration still run.
func loadApp(logger *slog.Logger, flags *rootFlags) (*app, error) {
	dataDir := flags.dataDir
	if dataDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("error locating home directory: %w", err)
		}
		dataDir = filepath.Join(home, appDirName)
	}

	v := viper.New()
	if flags.configFile != "" {
		v.SetConfigFile(flags.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SYNCKIT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if flags.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading configuration: %w", err)
		}
	}
	logger.Debug("Configuration loaded", "file", v.ConfigFileUsed(), "dataDir", dataDir)

	return &app{
		logger:   logger,
		settings: settings.FromViper(v),
		dataDir:  dataDir,
	}, nil
}

// openTarget builds the named target bound to its own sync database under
// the data dir, so different targets never share delta state.
func (a *app) openTarget(name string) (target.Target, target.Registration, error) {
	reg, ok := target.ByName(name)
	if !ok {
		return nil, target.Registration{}, fmt.Errorf("unknown sync target %q, expected one of: %s",
			name, strings.Join(target.Names(), ", "))
	}

	db, err := syncdb.Open(filepath.Join(a.dataDir, name+".sync.json"))
	if err != nil {
		return nil, target.Registration{}, err
	}
	return reg.New(db, a.settings), reg, nil
}
