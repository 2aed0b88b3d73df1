package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hmvalidate/batch"
	"github.com/pithecene-io/hmvalidate/cli/render"
	"github.com/pithecene-io/hmvalidate/cli/tui"
)

// SummaryCommand returns the summary command, which renders a batch
// report written by validate --report.
func SummaryCommand() *cli.Command {
	return &cli.Command{
		Name:      "summary",
		Usage:     "Show a stored batch report",
		ArgsUsage: "<report.json>",
		Flags:     TUIReadOnlyFlags(),
		Action:    summaryAction,
	}
}

func summaryAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("report file required", 1)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	report, err := batch.ReadBatchReport(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewSummaryReport, report)
	}
	return r.Render(report)
}
