package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hmvalidate/cli/reader"
	"github.com/pithecene-io/hmvalidate/cli/render"
	"github.com/pithecene-io/hmvalidate/cli/tui"
)

// InspectCommand returns the inspect command.
// Inspect classifies one log with the same last-line rule as validate and
// lists its warnings and errors.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Inspect a validation log",
		ArgsUsage: "<log-file>",
		Flags:     TUIReadOnlyFlags(),
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("log file required", 1)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	resp, err := reader.InspectLog(c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectLog, resp)
	}
	return r.Render(resp)
}
