package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zereker/vecdb/internal/server"
	"github.com/Zereker/vecdb/pkg/embed"
	"github.com/Zereker/vecdb/pkg/log"
	"github.com/Zereker/vecdb/pkg/mq"
	"github.com/Zereker/vecdb/pkg/vector"
)

const defaultConfigFile = "configs/config.toml"

// app carries global flags and the factories commands build their
// dependencies with.
type app struct {
	configFile string
	verbose    bool

	newPublisher func(cfg mq.KafkaConfig) (mq.Publisher, error)
}

func newApp() *app {
	return &app{
		newPublisher: func(cfg mq.KafkaConfig) (mq.Publisher, error) {
			return mq.NewKafkaProducer(cfg)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the vecdb command tree.
func NewRootCommand() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vecdb",
		Short: "Pinecone index client",
		Long: `vecdb - a command line client for a Pinecone index.

Configuration is read from a TOML file (default configs/config.toml).
PINECONE_API_KEY, PINECONE_INDEX, PINECONE_INDEX_HOST and OPENAI_API_KEY
override the file, and may be placed in a .env file.

Examples:
  vecdb stats
  vecdb query --vector 0.1,0.2,0.3 --top-k 5 --include-metadata
  vecdb upsert --file records.yaml --namespace movies
  vecdb delete id-1 id-2`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", defaultConfigFile, "config file (empty to use the environment only)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.statsCmd(),
		a.queryCmd(),
		a.upsertCmd(),
		a.deleteCmd(),
		a.deleteAllCmd(),
		a.enqueueCmd(),
		a.serveCmd(),
	)
	return root
}

// loadConfig loads configuration and sets up logging for a CLI run.
func (a *app) loadConfig() (server.Config, error) {
	cfg, err := server.LoadConfig(a.configFile)
	if err != nil {
		return cfg, err
	}

	// stdout 留给命令输出
	cfg.Log.Stderr = true
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := log.Init(cfg.Log); err != nil {
		return cfg, fmt.Errorf("init log: %w", err)
	}
	return cfg, nil
}

// openIndex builds an index client, resolving the host when not configured.
func (a *app) openIndex(ctx context.Context) (*vector.Client, server.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, cfg, err
	}

	client, err := vector.NewClient(ctx, cfg.Index, nil)
	if err != nil {
		return nil, cfg, err
	}
	return client, cfg, nil
}

// newEmbedder returns the configured embedder or an error when embedding is off.
func newEmbedder(cfg embed.Config) (embed.Embedder, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("embedding is disabled, enable [embedding] to query by text")
	}
	return embed.NewOpenAI(cfg, nil), nil
}
