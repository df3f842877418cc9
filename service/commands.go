package service

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"blogapi/app/config"
	"blogapi/app/repositories"

	"github.com/spf13/cobra"
)

const cliVersion = "1.0.0"

var osExit = os.Exit

// options holds flag values shared by the subcommands. Empty values leave the
// environment setting in place.
type options struct {
	envFile      string
	databaseURL  string
	logLevel     string
	addr         string
	redisURL     string
	cacheBackend string
	cachePath    string
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		osExit(1)
	}
}

// NewRootCmd builds the blogapi command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "blogapi",
		Short: "Blog API - posts and comments over HTTP",
		Long: `blogapi serves a small blog API backed by PostgreSQL with a read-through cache.

Settings come from the environment (or a .env file) and can be overridden
with flags.`,
		Version:       cliVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load settings from this file instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newInitCmd(opts),
		newPostsCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// serveCmd runs the HTTP server
func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		Long: `Connect to PostgreSQL and the cache, create the schema if needed and serve
the API until SIGINT or SIGTERM.

Examples:
  blogapi serve
  blogapi serve --addr :8080 --cache-backend badger
  blogapi serve --redis-url redis://cache:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			return RunAppServer(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides ADDR)")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL (overrides REDIS_URL)")
	cmd.Flags().StringVar(&opts.cacheBackend, "cache-backend", "", "Cache backend: redis, badger or none (overrides CACHE_BACKEND)")
	cmd.Flags().StringVar(&opts.cachePath, "cache-path", "", "Badger directory, empty for in-memory (overrides CACHE_PATH)")
	return cmd
}

// initCmd creates the schema
func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Long:  `Create the posts and comments tables if they do not exist. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			db, err := repositories.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.InitSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema initialized successfully")
			return nil
		},
	}
}

// postsCmd groups administrative post operations
func newPostsCmd(opts *options) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Administer posts",
	}

	postsCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post and its comments",
		Long: `Delete a post. Its comments are removed with it and the cached list and
post entries are invalidated.

Examples:
  blogapi posts delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := strconv.ParseInt(args[0], 10, 32)
			if errors.Is(err, strconv.ErrRange) {
				return fmt.Errorf("post %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			id := int(parsed)

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			app, err := NewApp(cmd.Context(), cfg, cfg.NewLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Posts.DeletePost(cmd.Context(), id); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return fmt.Errorf("post %d not found", id)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted\n", id)
			return nil
		},
	})
	return postsCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogapi version %s\n", cliVersion)
		},
	}
}

// loadConfig reads the environment and applies any flags set on the command
// line.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	var files []string
	if opts.envFile != "" {
		files = append(files, opts.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag  string
		value string
		dst   *string
	}{
		{"database-url", opts.databaseURL, &cfg.DatabaseURL},
		{"log-level", opts.logLevel, &cfg.LogLevel},
		{"addr", opts.addr, &cfg.Addr},
		{"redis-url", opts.redisURL, &cfg.RedisURL},
		{"cache-backend", opts.cacheBackend, &cfg.CacheBackend},
		{"cache-path", opts.cachePath, &cfg.CachePath},
	}
	for _, o := range overrides {
		if f := cmd.Flag(o.flag); f != nil && f.Changed {
			*o.dst = o.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
