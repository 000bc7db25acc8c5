package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Chidera261/koraDB/pkg/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const Version = "0.1.0"

// newRootCmd builds the koradb command tree. Every flag can also be set
// through the environment as KORADB_<FLAG> (e.g. KORADB_DATA_DIR), including
// from .env and .env.local in the working directory.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "koradb",
		Short: "file-backed JSON document store",
		Long: fmt.Sprintf(`koraDB (v%s)

A small document store keeping each collection in a JSON file, with a
record cache, field indexes, a per-collection concurrency limit and
HTTP sync with remote endpoints.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("data-dir", storage.DefaultDataDir, "directory holding one <collection>.json per collection")
	flags.Int("cache-capacity", storage.DefaultCacheCapacity, "records cached per collection")
	flags.Int("concurrency-limit", storage.DefaultConcurrencyLimit, "operations admitted at once per collection")
	flags.Int64("max-file-size", storage.DefaultMaxFileSize, "collection file size in bytes above which writes are refused (0 disables)")
	flags.Duration("debounce", storage.DefaultDebounceWindow, "window over which writes to a collection are coalesced")
	flags.Bool("sync-writes", false, "write every mutation to disk before returning")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(v))
	root.AddCommand(newSnapshotCmd(v))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of koraDB",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "koraDB v%s\n", Version)
		},
	}
}

// loadConfig binds flags and KORADB_* environment variables to v
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v.SetEnvPrefix("koradb")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(cmd.Flags())
}

// storageOptions turns the bound configuration into database options
func storageOptions(v *viper.Viper, logger *slog.Logger) []storage.StorageOption {
	return []storage.StorageOption{
		storage.WithDataDir(v.GetString("data-dir")),
		storage.WithCacheCapacity(v.GetInt("cache-capacity")),
		storage.WithConcurrencyLimit(v.GetInt("concurrency-limit")),
		storage.WithMaxFileSize(v.GetInt64("max-file-size")),
		storage.WithDebounceWindow(v.GetDuration("debounce")),
		storage.WithSyncWrites(v.GetBool("sync-writes")),
		storage.WithLogger(logger),
	}
}

// openDatabase creates the data directory and opens every collection in it
func openDatabase(v *viper.Viper, logger *slog.Logger) (*storage.Database, error) {
	db := storage.NewDatabase(storageOptions(v, logger)...)
	if err := db.Init(); err != nil {
		return nil, err
	}
	names, err := db.OpenAll()
	if err != nil {
		return nil, err
	}
	logger.Info("Opened collections", "count", len(names), "dir", db.Config().DataDir)
	return db, nil
}
