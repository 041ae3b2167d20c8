package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stockhop/cli/pkg/table"
	"github.com/stockhop/cli/pkg/util"
)

// LookupService defines the subset of lookup.Service the commands use.
type LookupService interface {
	Submit(ctx context.Context, raw string) lookup.Result
	Preview(raw string) lookup.Result
	History(ctx context.Context) ([]stockcode.Code, error)
	Remove(ctx context.Context, raw string) ([]stockcode.Code, error)
	Clear(ctx context.Context) ([]stockcode.Code, error)
}

// LookupCmd handles code submission and preview.
type LookupCmd struct {
	svc LookupService
}

// OpenInput holds input for opening a code.
type OpenInput struct {
	Code   string
	Output string
}

// Open validates the code, opens every research tab and records it.
// Invalid input is reported inline and is not a command failure.
func (l LookupCmd) Open(ctx context.Context, in OpenInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	if in.Output != "json" {
		if preview := l.svc.Preview(in.Code); preview.Valid {
			pterm.Info.Println(lookup.MsgOpening)
		}
	}

	res := l.svc.Submit(ctx, in.Code)
	if in.Output == "json" {
		return util.PrintPrettyJSON(res)
	}

	printResult(res)
	if res.Valid {
		renderHistory(res.History)
	}
	return nil
}

// URLsInput holds input for listing URLs.
type URLsInput struct {
	Code   string
	Output string
}

// URLs prints the URLs a code would open, without opening them.
func (l LookupCmd) URLs(ctx context.Context, in URLsInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	res := l.svc.Preview(in.Code)
	if in.Output == "json" {
		return util.PrintPrettyJSON(res)
	}
	if !res.Valid {
		pterm.Error.Println(res.Reason)
		printSuggestion(res)
		return nil
	}

	rows := pterm.TableData{{"#", "URL"}}
	for i, u := range res.URLs {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), u})
	}
	pterm.Info.Printf("%s (%s %s)\n", res.Code, res.Exchange.String(), res.Exchange.Label())
	table.PrintTableNoPad(rows, true)
	return nil
}

func printResult(res lookup.Result) {
	if !res.Valid {
		pterm.Error.Println(res.Reason)
		printSuggestion(res)
		return
	}

	opened := len(res.URLs) - len(res.OpenErrors)
	pterm.Success.Printf("Opened %s for %s (%s %s)\n",
		util.Plural(opened, "tab", "tabs"), res.Code, res.Exchange.String(), res.Exchange.Label())
	for _, oe := range res.OpenErrors {
		pterm.Warning.Printf("Could not open %s: %s\n", oe.URL, oe.Err)
	}
	if res.StorageErr != "" {
		pterm.Warning.Printf("History not saved: %s\n", res.StorageErr)
	}
}

func printSuggestion(res lookup.Result) {
	if res.Suggestion != "" {
		pterm.Info.Printf("請改用半形數字，例如 %s\n", res.Suggestion)
	}
}

var openCmd = &cobra.Command{
	Use:     "open <code>",
	Aliases: []string{"o"},
	Short:   "Open research tabs for a stock code and record it in history",
	Args:    cobra.ExactArgs(1),
	RunE:    runOpen,
}

var urlsCmd = &cobra.Command{
	Use:   "urls <code>",
	Short: "Print the URLs a stock code would open",
	Args:  cobra.ExactArgs(1),
	RunE:  runURLs,
}

func init() {
	openCmd.Flags().Bool("dry-run", false, "Print the URLs instead of opening tabs")
	openCmd.Flags().StringP("output", "o", "", "Output format (json)")
	urlsCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runOpen(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	l := LookupCmd{svc: getApp(cmd).Lookup}
	return l.Open(cmd.Context(), OpenInput{Code: args[0], Output: output})
}

func runURLs(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	l := LookupCmd{svc: getApp(cmd).Lookup}
	return l.URLs(cmd.Context(), URLsInput{Code: args[0], Output: output})
}
