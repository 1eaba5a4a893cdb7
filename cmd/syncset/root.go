package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livebuzzevents/syncset/internal/cliconfig"
	"github.com/livebuzzevents/syncset/pkg/collection"
	"github.com/livebuzzevents/syncset/pkg/logging"
	"github.com/livebuzzevents/syncset/pkg/record"
	"github.com/livebuzzevents/syncset/pkg/route"
	"github.com/livebuzzevents/syncset/pkg/transport"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	endpoint   string
	token      string
	logLevel   string
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "syncset",
	Short: "syncset synchronizes a remote record collection",
	Long: `syncset fetches, pushes and deletes records in a remote resource
collection over HTTP.

Configuration can be provided via flags, environment variables, or a
configuration file. By default, syncset looks for a configuration file
at ~/.config/syncset/config.yaml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.config/syncset/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Remote collection URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer auth token")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Minimum log level (debug, info, warn, error)")
}

// loadConfig merges the config file with flag overrides.
func loadConfig() (*cliconfig.Config, error) {
	cfg, err := cliconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if token != "" {
		cfg.Token = token
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if cfg.Endpoint == "" && len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("no endpoint configured: pass --endpoint, set %s, or add one to the config file", cliconfig.EnvEndpoint)
	}
	return cfg, nil
}

// newCollection builds a collection wired per the CLI configuration.
func newCollection(cfg *cliconfig.Config) *collection.Collection {
	logger := logging.New(logging.Config{
		Level: logging.ParseLevel(cfg.LogLevel),
	})

	routes := route.Map{
		string(collection.ActionFetch):  cfg.Endpoint,
		string(collection.ActionSave):   cfg.Endpoint,
		string(collection.ActionDelete): cfg.Endpoint,
	}
	for action, tmpl := range cfg.Routes {
		routes[action] = tmpl
	}

	opts := []transport.Option{transport.WithLogger(logger)}
	if cfg.Token != "" {
		opts = append(opts, transport.WithToken(cfg.Token))
	}
	if cfg.RecordsPath != "" {
		opts = append(opts, transport.WithRecordsPath(cfg.RecordsPath))
	}

	return collection.New(
		collection.WithFactory(record.NewFactory(record.WithIdentifierKey(cfg.IdentifierKey))),
		collection.WithRoutes(routes),
		collection.WithTransport(transport.NewHTTP(opts...)),
		collection.WithDeleteBody(cfg.UseDeleteBody),
		collection.WithLogger(logger),
	)
}
