package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/adburn/internal/cli"
	"github.com/theirongolddev/adburn/internal/pipeline"
)

// signalContext is canceled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// reportDone prints the outcome of a single extraction report. It returns
// false when nothing was written and there is nothing to summarize.
func reportDone(name, path string, err error) (bool, error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyDataset):
		fmt.Printf("\n  No data for %s (preset %s). Nothing written.\n", name, appCfg.General.DatePreset)
		return false, nil
	case err != nil:
		return false, explain(err)
	}
	if !flagQuiet {
		fmt.Println()
	}
	fmt.Printf("  Wrote %s\n", path)
	return !flagQuiet, nil
}

func printTitle(title string) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
}

func share(part, total float64) string {
	if total <= 0 {
		return "-"
	}
	return cli.FormatRate(part/total*100, 1)
}
