package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"znormal-explorer/internal/chart"
	"znormal-explorer/internal/exercises"
	"znormal-explorer/internal/probability"
)

var (
	errNoQuery   = errors.New("either --exercise or --kind with --z1 is required")
	errMissingZ1 = errors.New("--z1 is required")
	errMissingZ2 = errors.New("--z2 is required for between queries")
)

// queryFlags are shared by every command that accepts an ad-hoc query.
type queryFlags struct {
	kind string
	z1   float64
	z2   float64
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", "", "query kind: greater, less or between")
	cmd.Flags().Float64Var(&f.z1, "z1", 0, "z-value a (lower value for between)")
	cmd.Flags().Float64Var(&f.z2, "z2", 0, "upper z-value b, between only")
}

func (f *queryFlags) query(cmd *cobra.Command) (probability.Query, error) {
	kind, err := probability.ParseKind(f.kind)
	if err != nil {
		return probability.Query{}, err
	}
	if !cmd.Flags().Changed("z1") {
		return probability.Query{}, errMissingZ1
	}
	if kind == probability.Between && !cmd.Flags().Changed("z2") {
		return probability.Query{}, errMissingZ2
	}
	q := probability.Query{Kind: kind, Z1: f.z1, Z2: f.z2}
	if err := probability.Validate(q); err != nil {
		return probability.Query{}, err
	}
	return q, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zprob",
		Short:         "Standard normal Z ~ N(0,1) probability calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newComputeCmd(), newExercisesCmd(), newChartCmd())
	return root
}

func newComputeCmd() *cobra.Command {
	var (
		flags    queryFlags
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute P(Z > a), P(Z < a) or P(a < Z < b)",
		Example: `  zprob compute --kind greater --z1 -1.25
  zprob compute --kind between --z1 -1.5 --z2 2.53`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query(cmd)
			if err != nil {
				return err
			}
			r := probability.Compute(q)

			if jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"query":       q,
					"description": probability.Describe(q),
					"probability": r.Probability,
					"percent":     r.Percent(),
					"complement":  r.Complement(),
					"steps":       probability.Explain(q),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %.4f\n", probability.Describe(q), r.Probability)
			fmt.Fprintf(out, "Percentage: %.2f%%\n", r.Percent())
			fmt.Fprintf(out, "Complement: %.4f\n\n", r.Complement())
			for _, step := range probability.Explain(q) {
				fmt.Fprintf(out, "  - %s\n", step)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

func newExercisesCmd() *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "Solve every exercise of the built-in table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			solutions, err := exercises.SolveAll()
			if err != nil {
				return err
			}

			if jsonMode {
				rows := make([]map[string]any, 0, len(solutions))
				for _, s := range solutions {
					rows = append(rows, map[string]any{
						"id":          s.ID,
						"description": s.Description,
						"probability": s.Result.Probability,
						"percent":     s.Result.Percent(),
					})
				}
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Item", "Probability", "Result", "Percentage")
			for _, s := range solutions {
				t.Row(
					strconv.Itoa(s.ID),
					s.Description,
					fmt.Sprintf("%.4f", s.Result.Probability),
					fmt.Sprintf("%.2f%%", s.Result.Percent()),
				)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

func newChartCmd() *cobra.Command {
	var (
		flags    queryFlags
		exercise int
		format   string
		out      string
		samples  int
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the shaded density chart of a query or exercise",
		Example: `  zprob chart --exercise 2 --format svg --out item2.svg
  zprob chart --kind less --z1 1.72 --format png --out less.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				q     probability.Query
				title string
			)

			switch {
			case exercise != 0:
				ex, err := exercises.Lookup(exercise)
				if err != nil {
					return err
				}
				q, title = ex.Query, ex.Title()
			case flags.kind != "":
				var err error
				if q, err = flags.query(cmd); err != nil {
					return err
				}
				title = probability.Describe(q)
			default:
				return errNoQuery
			}

			if _, err := chart.ContentType(format); err != nil {
				return err
			}

			r, err := probability.Solve(q)
			if err != nil {
				return err
			}
			fig := chart.FromResult(r, title, samples)

			if out == "" || out == "-" {
				return chart.Write(cmd.OutOrStdout(), fig, format)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := chart.Write(f, fig, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&exercise, "exercise", "e", 0, "exercise id (1-13)")
	cmd.Flags().StringVarP(&format, "format", "f", chart.FormatSVG, "output format: html, png or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&samples, "samples", chart.DefaultSamples, "density samples across the x-axis")
	cmd.MarkFlagsMutuallyExclusive("exercise", "kind")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
