package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zereker/vecdb/pkg/vector"
)

func (a *app) queryCmd() *cobra.Command {
	var (
		vectorFlag string
		text       string
		params     vector.QueryParams
		filter     string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query nearest neighbours by vector or text",
		Long: `Query the index for the nearest neighbours of a vector.

Either --vector or --text is required. --text is embedded with the
configured embedding model first.

Examples:
  vecdb query --vector 0.1,0.2,0.3 --top-k 5
  vecdb query --text "space opera" --include-metadata --filter '{"genre":"scifi"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (vectorFlag == "") == (text == "") {
				return fmt.Errorf("exactly one of --vector or --text is required")
			}

			f, err := parseFilter(filter)
			if err != nil {
				return err
			}
			params.Filter = f

			ctx := cmd.Context()
			index, cfg, err := a.openIndex(ctx)
			if err != nil {
				return err
			}

			if vectorFlag != "" {
				params.Vector, err = parseVector(vectorFlag)
				if err != nil {
					return err
				}
			} else {
				embedder, err := newEmbedder(cfg.Embedding)
				if err != nil {
					return err
				}
				params.Vector, err = embedder.Embed(ctx, text)
				if err != nil {
					return fmt.Errorf("embed text: %w", err)
				}
			}

			resp, err := index.Query(ctx, params)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&vectorFlag, "vector", "", "query vector, comma separated")
	cmd.Flags().StringVar(&text, "text", "", "query text, embedded before querying")
	cmd.Flags().StringVarP(&params.Namespace, "namespace", "n", "", "namespace")
	cmd.Flags().IntVarP(&params.TopK, "top-k", "k", vector.DefaultTopK, "number of matches")
	cmd.Flags().BoolVar(&params.IncludeValues, "include-values", false, "return match values")
	cmd.Flags().BoolVar(&params.IncludeMetadata, "include-metadata", false, "return match metadata")
	cmd.Flags().StringVar(&filter, "filter", "", "metadata filter as JSON")
	return cmd
}
