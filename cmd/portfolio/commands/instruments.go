package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// instrumentsCmd represents the instruments command
var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "List the selectable instruments and periods",
	Long: `Prints the catalog of the active profile: instrument symbols and names,
how many can be combined, the lookback periods and the risk constants.

Example:
  go run ./cmd/portfolio instruments
  go run ./cmd/portfolio instruments --profile config/profiles/us_equity.yaml`,
	RunE: runInstruments,
}

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}

func runInstruments(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.profile
	out := cmd.OutOrStdout()

	PrintDoubleSeparator(out)
	fmt.Fprintf(out, "  %s (v%s)\n", p.Meta.ProfileID, p.Meta.Version)
	if p.Meta.Description != "" {
		fmt.Fprintf(out, "  %s\n", p.Meta.Description)
	}
	PrintDoubleSeparator(out)

	widths := []int{12, 32}
	PrintTableHeader(out, []string{"Symbol", "Name"}, widths)
	for _, inst := range p.Instruments {
		PrintTableRow(out, []string{inst.Symbol, inst.Name}, widths)
	}
	fmt.Fprintln(out)

	PrintKeyValue(out, "Selection", fmt.Sprintf("%d to %d instruments", p.Selection.MinInstruments, p.Selection.MaxInstruments), 14)
	PrintKeyValue(out, "Periods", fmt.Sprintf("%s (default %s)", strings.Join(p.Periods.Options, ", "), p.Periods.Default), 14)
	PrintKeyValue(out, "Confidence", fmt.Sprintf("%.2f", p.Analysis.Confidence), 14)
	PrintKeyValue(out, "Risk-free", fmt.Sprintf("%.2f%% / year", p.Analysis.RiskFreeAnnual*100), 14)
	PrintKeyValue(out, "Periods/year", fmt.Sprintf("%d", p.Analysis.PeriodsPerYear), 14)
	PrintKeyValue(out, "Sources", strings.Join(a.sources.Names(), ", "), 14)
	PrintKeyValue(out, "Profile hash", a.profileHash[:12], 14)

	return nil
}
