package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zereker/vecdb/internal/domain"
)

func (a *app) enqueueCmd() *cobra.Command {
	var file, topic, namespace string

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Publish an upsert command to Kafka",
		Long: `Publish the records of a file as one upsert command. A running
"vecdb serve" consuming the topic applies it to the index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" || topic == "" {
				return fmt.Errorf("--file and --topic are required")
			}
			records, err := loadRecords(file)
			if err != nil {
				return err
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			command := domain.Command{
				ID:        newID("cmd"),
				Op:        domain.OpUpsert,
				Namespace: namespace,
				Vectors:   records,
			}
			data, err := command.Encode()
			if err != nil {
				return err
			}

			publisher, err := a.newPublisher(cfg.Kafka)
			if err != nil {
				return err
			}
			defer func() { _ = publisher.Close() }()

			if err := publisher.Publish(cmd.Context(), topic, command.Key(), data); err != nil {
				return fmt.Errorf("publish: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s (%d records) to %s\n", command.ID, len(records), topic)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "records file (JSON or YAML)")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Kafka topic")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace")
	return cmd
}
