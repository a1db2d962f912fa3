package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rejected-theories/internal/theories"
	"github.com/pdiddy/rejected-theories/internal/view"
	"github.com/pdiddy/rejected-theories/internal/wiki"
)

var errRetrieval = errors.New(view.MsgRetrieval)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Look up theories discredited before a year",
	Long: `Fetch runs one lookup for --year and prints the results as terminal cards,
JSON, or YAML. Invalid years and retrieval failures are reported with the
same messages the web page shows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Errors this command has already reported are returned silenced.
		cmd.SilenceErrors = false

		year, _ := cmd.Flags().GetString("year")
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "cards", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q: want cards, json, or yaml", format)
		}

		agg := theories.New(wiki.NewClient(appConfig.Wikipedia), logger, nil)
		ctrl := view.NewController(agg, view.WithLogger(logger))

		if err := ctrl.OnSubmit(cmd.Context(), year); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), view.MsgInvalidYear)
			cmd.SilenceErrors = true
			return err
		}
		ctrl.Wait()

		s := ctrl.Snapshot()
		out := cmd.OutOrStdout()
		if s.Phase == view.Error {
			fmt.Fprintln(cmd.ErrOrStderr(), s.ErrorMessage)
			cmd.SilenceErrors = true
			return errRetrieval
		}
		if s.Phase == view.Empty && format == "cards" {
			fmt.Fprintln(cmd.ErrOrStderr(), s.ErrorMessage)
			return nil
		}

		switch format {
		case "json":
			return theories.FormatJSON(s.Results, out)
		case "yaml":
			y, _ := view.ParseYear(year, time.Now())
			return theories.FormatYAML(y, s.Results, out)
		default:
			theories.FormatCards(s.Results, out)
			return nil
		}
	},
}

func init() {
	fetchCmd.Flags().String("year", "", "year to look before (required)")
	fetchCmd.Flags().String("format", "cards", "output format: cards, json, or yaml")
	fetchCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(fetchCmd)
}
