package main

import (
	"github.com/spf13/cobra"

	serpapi "github.com/kitbuilder587/serpapi-go"
	"github.com/kitbuilder587/serpapi-go/transport"
)

func newSearchCmd(a *app) *cobra.Command {
	var mode, path string

	cmd := &cobra.Command{
		Use:   "search [key=value]...",
		Short: "Run a search on /search",
		Long: `Run a search and print the decoded result.

--mode json prints the JSON response, --mode html the raw page and
--mode object allows picking a nested field with --path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}
			m, err := transport.ParseMode(mode)
			if err != nil {
				return err
			}

			res, err := a.searcher.Search(cmd.Context(), params, m)
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), res, path)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "json", "Decoder: json, html or object")
	cmd.Flags().StringVar(&path, "path", "", "Dot separated field to print (object mode)")
	return cmd
}

func newHTMLCmd(a *app) *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "html [key=value]...",
		Short: "Fetch the raw HTML results page",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}

			html, err := a.searcher.HTML(cmd.Context(), params)
			if err != nil {
				return err
			}
			if selector == "" {
				return printRaw(cmd.OutOrStdout(), html)
			}
			return printSelection(cmd.OutOrStdout(), html, selector)
		},
	}

	cmd.Flags().StringVar(&selector, "select", "", "CSS selector; print the text of matching elements")
	return cmd
}

func newLocationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "location [key=value]...",
		Short: "Look up locations with the Locations API",
		Long: `Look up locations, e.g.

  serpapi location q=Austin limit=3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args)
			if err != nil {
				return err
			}

			locations, err := a.searcher.Location(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.printValue(cmd.OutOrStdout(), locations)
		},
	}
}

func newArchiveCmd(a *app) *cobra.Command {
	var mode, path string

	cmd := &cobra.Command{
		Use:   "archive <search-id>",
		Short: "Retrieve a previous search from the Search Archive API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.searcher.SearchArchive(cmd.Context(), args[0], serpapi.Mode(mode))
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), res, path)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "json", "Decoder: json, html or object")
	cmd.Flags().StringVar(&path, "path", "", "Dot separated field to print (object mode)")
	return cmd
}

func newAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "account [api-key]",
		Short: "Show account information",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}

			info, err := a.searcher.Account(cmd.Context(), key)
			if err != nil {
				return err
			}
			return a.printValue(cmd.OutOrStdout(), info)
		},
	}
}
