package commands

import (
	"github.com/spf13/cobra"

	"github.com/Zereker/vecdb/pkg/vector"
)

func (a *app) deleteCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete records by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, _, err := a.openIndex(ctx)
			if err != nil {
				return err
			}

			var resp *vector.Response
			if len(args) == 1 {
				resp, err = index.Delete(ctx, args[0], namespace)
			} else {
				resp, err = index.DeleteBulk(ctx, args, namespace)
			}
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace")
	return cmd
}

func (a *app) deleteAllCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every record in a namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, _, err := a.openIndex(ctx)
			if err != nil {
				return err
			}

			resp, err := index.DeleteAll(ctx, namespace)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "namespace (default namespace when empty)")
	return cmd
}
