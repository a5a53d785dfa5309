package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/regional-climate-csv/internal/converter"
	"github.com/ginjaninja78/regional-climate-csv/internal/summary"
	"github.com/ginjaninja78/regional-climate-csv/pkg/utils"
)

// statsCmd prints per-region statistics of the converted tables without
// writing any files.
var statsCmd = &cobra.Command{
	Use:   "stats [stems...]",
	Short: "Print per-region min/max/mean of the converted data",
	Long: `The stats command converts each stem in memory and prints, for every region
column, the number of years and the minimum, maximum, mean and standard
deviation. Nothing is written to disk.`,

	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, closeLogger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	files := utils.NewFileManager(appFs, cfg.InputDir, cfg.OutputDirectory())
	conv := converter.New(cfg, files, logger, converter.WithDryRun(true))

	out := cmd.OutOrStdout()
	for i, stem := range cfg.Stems {
		table, _, err := conv.Load(stem)
		if err != nil {
			return err
		}

		described, err := summary.Describe(table)
		if err != nil {
			return fmt.Errorf("%s: %w", stem, err)
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := printSummary(out, stem, described); err != nil {
			return err
		}
	}

	return nil
}

// printSummary writes one aligned table per stem.
func printSummary(w io.Writer, stem string, s *summary.TableSummary) error {
	fmt.Fprintf(w, "%s (%d-%d)\n", stem, s.FirstYear, s.LastYear)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Region\tYears\tMin\tMax\tMean\tStdDev")
	for _, col := range s.Columns {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n", col.Name, col.Count, col.Min, col.Max, col.Mean, col.StdDev)
	}
	return tw.Flush()
}
