package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nestml/internal/diag"
	"nestml/internal/sema"
	"nestml/internal/units"
	"nestml/internal/unitsyntax"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Inspect the SI unit registry",
}

func init() {
	unitsCmd.AddCommand(unitsValidateCmd)
	unitsCmd.AddCommand(unitsConvertCmd)
	unitsCmd.AddCommand(unitsCatalogCmd)
	unitsCmd.AddCommand(unitsSignatureCmd)
}

var unitsValidateCmd = &cobra.Command{
	Use:   "validate <symbol>...",
	Short: "Check whether symbols resolve as SI units",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		out := cmd.OutOrStdout()
		colored := useColor(cmd)

		okMark := "ok"
		badMark := "invalid"
		if colored {
			okMark = color.GreenString(okMark)
			badMark = color.RedString(badMark)
		}

		invalid := 0
		reg := units.Default()
		for _, symbol := range args {
			entry, ok := reg.Describe(symbol)
			if !ok {
				fmt.Fprintf(out, "%-10s %s\n", symbol, badMark)
				invalid++
				continue
			}
			fmt.Fprintf(out, "%-10s %s  %s (%s, magnitude %d)\n",
				symbol, okMark, entry.Name, entry.Unit.Dim, entry.Unit.Magnitude)
		}
		if invalid > 0 {
			return fmt.Errorf("%d symbol(s) did not resolve", invalid)
		}
		return nil
	},
}

var unitsConvertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Print the factor rescaling <from> values into <to>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		reg := units.Default()

		from, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unit %s is not a recognized SI unit", args[0])
		}
		to, ok := reg.Lookup(args[1])
		if !ok {
			return fmt.Errorf("unit %s is not a recognized SI unit", args[1])
		}

		factor, err := units.ConversionFactor(from, to)
		if err != nil {
			return fmt.Errorf("%s -> %s: %w", args[0], args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %g %s\n", args[0], factor, args[1])
		return nil
	},
}

var unitsCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every resolvable unit symbol",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, entry := range units.Default().Catalog() {
			fmt.Fprintf(out, "%-8s %-16s %s, magnitude %d\n",
				entry.Symbol, entry.Name, entry.Unit.Dim, entry.Unit.Magnitude)
		}
		return nil
	},
}

var unitsSignatureCmd = &cobra.Command{
	Use:   "signature <type-expr>",
	Short: "Print the canonical signature of a unit type expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		te, err := unitsyntax.Parse(args[0])
		if err != nil {
			return err
		}

		bag := diag.NewBag(16)
		typ := sema.ResolveType(te, sema.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			return fmt.Errorf("%s", bag.Items()[0].Message)
		}
		if !typ.IsUnit() {
			return fmt.Errorf("%s is not a unit type", args[0])
		}

		u := typ.Unit
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", u.Signature())
		fmt.Fprintf(cmd.OutOrStdout(), "  dimension: %s\n", u.Dim)
		fmt.Fprintf(cmd.OutOrStdout(), "  magnitude: 10^%d\n", u.Magnitude)
		fmt.Fprintf(cmd.OutOrStdout(), "  canonical: %s\n", units.Default().NameFor(units.Default().CanonicalTarget(u.Dim)))
		return nil
	},
}
