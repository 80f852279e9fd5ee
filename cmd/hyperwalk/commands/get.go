package commands

import (
	"github.com/spf13/cobra"

	"github.com/hyperwalk-io/hyperwalk/pkg/hyper"
)

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	var bindFlags []string

	cmd := &cobra.Command{
		Use:   "get [path...]",
		Short: "Fetch and display a resource",
		Long: `Walk the resource graph from the API root along the given path and
display the resource found there.

Path segments are keys in each resource's schema; list fields take a
numeric index as the following segment. URI-template variables are bound
with repeated --bind flags:

  hyperwalk get users --bind user=octocat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			bindings, err := parseBindings(bindFlags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			node, err := resolvePath(ctx, client.Root(), splitPath(args))
			if err != nil {
				return err
			}

			if len(bindings) > 0 {
				node, err = node.Fetch(ctx, &hyper.RequestOptions{Bindings: bindings})
				if err != nil {
					return err
				}
			}

			return renderResource(ctx, node)
		},
	}

	cmd.Flags().StringArrayVar(&bindFlags, "bind", nil, "URI template binding (name=value, repeatable)")

	return cmd
}
