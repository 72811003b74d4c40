package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		loc   types.UserLocation
		model string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run an OpenAI web search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oa, err := newOpenAI(a.cfg, a.logger)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			location := a.cfg.WebSearch.Location
			if loc != (types.UserLocation{}) {
				location = &loc
			}

			var m *types.Model
			switch {
			case model != "":
				mm := types.CustomModel(model, "")
				m = &mm
			case a.cfg.WebSearch.Model != "":
				mm := types.CustomModel(a.cfg.WebSearch.Model, "")
				m = &mm
			}

			resp, err := oa.WebSearch(ctx, strings.Join(args, " "), location, m)
			if err != nil {
				return err
			}

			if all {
				for _, t := range resp.Texts() {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			text, err := resp.FirstText()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&loc.City, "city", "", "Approximate city")
	f.StringVar(&loc.Region, "region", "", "Approximate region")
	f.StringVar(&loc.Country, "country", "", "Two-letter country code")
	f.StringVar(&loc.Timezone, "timezone", "", "IANA timezone")
	f.StringVar(&model, "model", "", "Search model (default from config)")
	f.BoolVar(&all, "all", false, "Print every text part of the answer")
	return cmd
}
