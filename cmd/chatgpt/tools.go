package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dv-team/chatgpt-go/pkg/tool"
	"github.com/dv-team/chatgpt-go/pkg/tool/builtin"
)

func newToolsCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the builtin tools enabled by chat --tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := tool.NewRegistry()
			if err != nil {
				return err
			}
			if err := builtin.RegisterAll(r); err != nil {
				return err
			}

			if !verbose {
				fmt.Fprintln(cmd.OutOrStdout(), tool.Format(r.List()))
				return nil
			}
			data, err := json.MarshalIndent(r.Definitions(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the function descriptors")
	return cmd
}
