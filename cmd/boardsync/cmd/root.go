package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/history/sqlite"
	"github.com/agentstation/boardsync/pkg/history/yamlfile"
	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/settings"
)

var (
	configFile   string
	storePath    string
	storeBackend string
	verbose      bool
	quiet        bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "boardsync",
	Short: "Working-board data synchronization",
	Long: `Boardsync ingests a raw tabular dataset, reconciles each record against
a persistent keyed history store, and emits a stable working-board view.

Team edits live in the history store and survive every import; the board
view is rewritten wholesale on each sync. A separate snapshot command
freezes point-in-time flag/tier metrics into history.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./boardsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "history.yaml", "history store path")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "backend", "yaml", "history store backend (yaml, sqlite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	// .env files are a convenience for local runs; missing files are fine.
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("boardsync")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Debug().Str("config", viper.ConfigFileUsed()).Msg("Loaded config file")
	}
}

func setupCommand(_ *cobra.Command, _ []string) error {
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}

// settingsKeys lists every recognized configuration key.
var settingsKeys = []string{
	settings.KeyMapID,
	settings.KeyMapOwner,
	settings.KeyMapSubject,
	settings.KeyMapCreatedAt,
	settings.KeyMapPriority,
	settings.KeyEditableFields,
	settings.KeyStatusOptions,
	settings.KeyProtectNonEditable,
	settings.KeyOverwriteOwner,
	settings.KeyEssentialByColor,
	settings.KeyEssentialColumns,
	settings.KeyEssentialColorHex,
	settings.KeyColorTolerance,
	settings.KeyIgnoreText,
	settings.KeyPrevPeriodFlagField,
	settings.KeyPrevPeriodTierField,
}

// settingsMap collects the recognized keys from viper (config file and
// environment) into the flat map the settings parser consumes.
func settingsMap() map[string]string {
	kv := make(map[string]string)
	for _, key := range settingsKeys {
		if viper.IsSet(key) {
			kv[key] = viper.GetString(key)
		}
	}
	return kv
}

// openStore opens the configured history store backend.
func openStore(ctx context.Context) (history.Store, func() error, error) {
	switch storeBackend {
	case "yaml":
		s, err := yamlfile.OpenOrCreate(storePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "sqlite":
		s, err := sqlite.Open(ctx, storePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (want yaml or sqlite)", storeBackend)
	}
}
