package commands

import (
	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command
func NewKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys [path...]",
		Short: "List the keys of a resource",
		Long: `Walk the resource graph from the API root along the given path and
list the keys of the resource found there. With no path, the root
document's keys are listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			node, err := resolvePath(ctx, client.Root(), splitPath(args))
			if err != nil {
				return err
			}

			keys, err := node.Keys(ctx)
			if err != nil {
				return err
			}

			return renderKeys(keys)
		},
	}
}
