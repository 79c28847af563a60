package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"clipreel/internal/workflow"
)

type generateOptions struct {
	clips   []string
	audio   string
	count   int
	output  string
	exclude []string
	dryRun  bool
}

func (o *generateOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&o.clips, "clips", nil, "Explicit ordered clip list (comma separated file names)")
	flags.StringVar(&o.audio, "audio", "", "Background track file name (random when omitted)")
	flags.IntVarP(&o.count, "num-clips", "n", 0, "Number of clips to select (defaults to selection.default_count)")
	flags.StringVarP(&o.output, "output", "o", "", "Output file path (defaults to a timestamped name in output_dir)")
	flags.StringSliceVar(&o.exclude, "exclude", nil, "Clips to leave out of automatic selection")
	flags.BoolVar(&o.dryRun, "dry-run", false, "Show the selection without rendering or recording usage")
}

func (o *generateOptions) request() workflow.Request {
	return workflow.Request{
		Clips:   trimAll(o.clips),
		Count:   o.count,
		Exclude: trimAll(o.exclude),
		Audio:   strings.TrimSpace(o.audio),
		Output:  strings.TrimSpace(o.output),
		DryRun:  o.dryRun,
	}
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Select clips and render a compilation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts *generateOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	if opts.count < 0 {
		return fmt.Errorf("--num-clips must be positive, got %d", opts.count)
	}

	runner := workflow.NewRunner(cfg, nil, logger)
	report, err := runner.Run(cmd.Context(), opts.request())
	printSelection(cmd.OutOrStdout(), report)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.DryRun {
		fmt.Fprintf(out, "Would write: %s\n", report.OutputPath)
		return nil
	}
	fmt.Fprintf(out, "Output: %s (%.1fs)\n", report.OutputPath, report.Duration)
	return nil
}

func printSelection(out io.Writer, report workflow.Report) {
	sel := report.Selection
	if len(sel.Clips) == 0 {
		return
	}
	label := "Selected clips"
	if sel.Clamped() {
		label = fmt.Sprintf("Selected clips (%d of %d requested)", len(sel.Clips), sel.Requested)
	}
	fmt.Fprintf(out, "%s: %s\n", label, strings.Join(sel.Clips, ", "))
	fmt.Fprintf(out, "Audio: %s\n", sel.Audio)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
