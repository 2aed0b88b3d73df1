package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hmvalidate/cli/config"
	"github.com/pithecene-io/hmvalidate/cli/reader"
	"github.com/pithecene-io/hmvalidate/cli/render"
	"github.com/pithecene-io/hmvalidate/cli/tui"
)

// openReader opens the stored dataset named by the storage flags.
// Replaced in tests.
var openReader = func(ctx context.Context, s storageChoice) (reader.Reader, error) {
	ds, err := openReadDataset(ctx, s)
	if err != nil {
		return nil, err
	}
	return reader.NewLodeReader(ds), nil
}

// HistoryCommand returns the history command with subcommands.
// History reads verdicts persisted by validate --storage-path.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Query stored verdicts (verdicts, findings, batch)",
		Subcommands: []*cli.Command{
			historyVerdictsCommand(),
			historyFindingsCommand(),
			historyBatchCommand(),
		},
	}
}

func historyFlags(extra ...cli.Flag) []cli.Flag {
	flags := append(ReadOnlyFlags(), StorageFlags()...)
	return append(flags, extra...)
}

func historyVerdictsCommand() *cli.Command {
	return &cli.Command{
		Name:  "verdicts",
		Usage: "List stored file verdicts, newest first",
		Flags: historyFlags(
			&cli.StringFlag{Name: "run-id", Usage: "Only this batch run"},
			&cli.StringFlag{Name: "type", Usage: "Only this harmonization type (hm_pos, hm_final)"},
			&cli.StringFlag{Name: "pgs-id", Usage: "Only this PGS ID"},
			&cli.StringFlag{Name: "classification", Usage: "Only valid, invalid or other"},
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of verdicts (0 = all)"},
		),
		Action: historyVerdictsAction,
	}
}

func historyVerdictsAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for history verdicts", 1)
	}
	switch class := c.String("classification"); class {
	case "", "valid", "invalid", "other":
	default:
		return cli.Exit(fmt.Sprintf("invalid classification: %s (must be valid, invalid or other)", class), 1)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	rd, err := openReader(c.Context, storageChoiceFrom(c, config.StorageConfig{}))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	items, err := rd.History(c.Context, reader.HistoryOptions{
		RunID:          c.String("run-id"),
		Format:         c.String("type"),
		PgsID:          c.String("pgs-id"),
		Classification: c.String("classification"),
		Limit:          c.Int("limit"),
	})
	if errors.Is(err, reader.ErrNotFound) {
		items = []reader.HistoryItem{}
	} else if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return r.Render(items)
}

func historyFindingsCommand() *cli.Command {
	return &cli.Command{
		Name:      "findings",
		Usage:     "List the stored findings of a run, optionally of one file",
		ArgsUsage: "<run-id> [file]",
		Flags:     historyFlags(),
		Action:    historyFindingsAction,
	}
}

func historyFindingsAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for history findings", 1)
	}
	if c.NArg() < 1 {
		return cli.Exit("run-id required", 1)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	rd, err := openReader(c.Context, storageChoiceFrom(c, config.StorageConfig{}))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	items, err := rd.Findings(c.Context, c.Args().Get(0), c.Args().Get(1))
	if errors.Is(err, reader.ErrNotFound) {
		items = []reader.FindingItem{}
	} else if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return r.Render(items)
}

func historyBatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Show the stored record of a batch (latest when no run-id)",
		ArgsUsage: "[run-id]",
		Flags:     historyFlags(),
		Action:    historyBatchAction,
	}
}

func historyBatchAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	rd, err := openReader(c.Context, storageChoiceFrom(c, config.StorageConfig{}))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	item, err := rd.LatestBatch(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewSummaryBatch, item)
	}
	return r.Render(item)
}
