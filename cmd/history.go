package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stockhop/cli/pkg/util"
)

// WatchFunc blocks, calling onChange whenever stored history changes.
type WatchFunc func(ctx context.Context, onChange func()) error

// HistoryCmd handles history operations.
type HistoryCmd struct {
	svc    LookupService
	prompt Prompter
	watch  WatchFunc
}

// HistoryListInput holds input for listing history.
type HistoryListInput struct {
	Output string
	Watch  bool
}

// List prints the history, optionally re-rendering on every change.
func (h HistoryCmd) List(ctx context.Context, in HistoryListInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	if in.Watch && in.Output == "json" {
		return fmt.Errorf("--watch cannot be combined with --output json")
	}

	if err := h.print(ctx, in.Output); err != nil {
		return err
	}
	if !in.Watch {
		return nil
	}
	if h.watch == nil {
		return fmt.Errorf("watching is not supported by this storage backend")
	}

	pterm.Info.Println("Watching history for changes (Ctrl+C to stop)...")
	return h.watch(ctx, func() {
		_ = h.print(ctx, "")
	})
}

func (h HistoryCmd) print(ctx context.Context, output string) error {
	list, err := h.svc.History(ctx)
	if output == "json" {
		if err != nil {
			return err
		}
		return util.PrintPrettyJSONSlice(list)
	}
	if err != nil {
		pterm.Warning.Printf("History unavailable: %v\n", err)
	}
	renderHistory(list)
	return nil
}

// HistoryRemoveInput holds input for removing a code.
type HistoryRemoveInput struct {
	Code string
}

// Remove drops a code from history.
func (h HistoryCmd) Remove(ctx context.Context, in HistoryRemoveInput) error {
	list, err := h.svc.Remove(ctx, in.Code)
	if err != nil {
		return err
	}
	pterm.Success.Printf("Removed %s from history\n", stockcode.Normalize(in.Code))
	renderHistory(list)
	return nil
}

// HistoryClearInput holds input for clearing history.
type HistoryClearInput struct {
	Yes bool
}

// Clear empties history after confirmation.
func (h HistoryCmd) Clear(ctx context.Context, in HistoryClearInput) error {
	if !in.Yes {
		ok, err := h.prompt.Confirm("確定要清除所有查詢記錄嗎？")
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Cancelled")
			return nil
		}
	}

	list, err := h.svc.Clear(ctx)
	if err != nil {
		return err
	}
	pterm.Success.Println(lookup.MsgCleared)
	renderHistory(list)
	return nil
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show or edit the recently looked-up codes",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show history, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <code>",
	Aliases: []string{"rm"},
	Short:   "Remove a code from history",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRemove,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every code from history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().StringP("output", "o", "", "Output format (json)")
		c.Flags().BoolP("watch", "w", false, "Re-render whenever history changes")
	}
	historyClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func newHistoryCmd(cmd *cobra.Command) HistoryCmd {
	app := getApp(cmd)
	h := HistoryCmd{svc: app.Lookup, prompt: ptermPrompter{}}
	if path := storage.Path(app.Config.Storage, app.Config.DataDir); path != "" {
		h.watch = func(ctx context.Context, onChange func()) error {
			return storage.Watch(ctx, path, onChange)
		}
	}
	return h
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")
	return newHistoryCmd(cmd).List(cmd.Context(), HistoryListInput{Output: output, Watch: watch})
}

func runHistoryRemove(cmd *cobra.Command, args []string) error {
	return newHistoryCmd(cmd).Remove(cmd.Context(), HistoryRemoveInput{Code: args[0]})
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	return newHistoryCmd(cmd).Clear(cmd.Context(), HistoryClearInput{Yes: yes})
}
