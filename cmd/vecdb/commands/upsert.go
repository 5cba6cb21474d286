package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) upsertCmd() *cobra.Command {
	var file, namespace string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Write records from a file",
		Long: `Write records from a JSON or YAML file into the index.

Records without an id get a generated "vec_" id.

Example file (records.yaml):
  - id: movie-1
    values: [0.1, 0.2, 0.3]
    metadata:
      genre: drama
  - values: [0.4, 0.5, 0.6]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("input file is required, use --file")
			}
			records, err := loadRecords(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			index, _, err := a.openIndex(ctx)
			if err != nil {
				return err
			}

			resp, err := index.Upsert(ctx, records, namespace)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "records file (JSON or YAML)")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace")
	return cmd
}
