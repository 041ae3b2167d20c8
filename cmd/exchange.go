package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/stockhop/cli/internal/dispatch"
	"github.com/stockhop/cli/internal/exchange"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stockhop/cli/pkg/table"
	"github.com/stockhop/cli/pkg/util"
)

// ClassifierService defines the subset of exchange.Classifier we use.
type ClassifierService interface {
	Classify(code stockcode.Code) exchange.Exchange
	Members() []stockcode.Code
}

// ExchangeCmd reports which exchange a code is listed on.
type ExchangeCmd struct {
	classifier ClassifierService
}

// ExchangeInput holds input for the exchange command.
type ExchangeInput struct {
	Code   string
	List   bool
	Output string
}

type exchangeView struct {
	Code        stockcode.Code    `json:"code"`
	Exchange    exchange.Exchange `json:"exchange"`
	Market      string            `json:"market"`
	TradingView string            `json:"tradingview_url"`
}

// Show prints the classification of a code, or the TPEx membership table.
func (e ExchangeCmd) Show(in ExchangeInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}

	if in.List {
		members := e.classifier.Members()
		if in.Output == "json" {
			return util.PrintPrettyJSONSlice(members)
		}
		rows := pterm.TableData{{"Code", "Exchange"}}
		for _, m := range members {
			rows = append(rows, []string{string(m), exchange.Secondary.String()})
		}
		table.PrintTableNoPad(rows, true)
		pterm.Info.Printf("%s listed on TPEx; every other code is treated as TWSE\n", util.Plural(len(members), "code", "codes"))
		return nil
	}

	code, err := stockcode.Parse(in.Code)
	if err != nil {
		return err
	}
	ex := e.classifier.Classify(code)
	view := exchangeView{
		Code:        code,
		Exchange:    ex,
		Market:      ex.Label(),
		TradingView: dispatch.TradingViewURL(code, e.classifier),
	}
	if in.Output == "json" {
		return util.PrintPrettyJSON(view)
	}

	rows := pterm.TableData{{"Property", "Value"}}
	rows = append(rows, []string{"Code", string(view.Code)})
	rows = append(rows, []string{"Exchange", view.Exchange.String()})
	rows = append(rows, []string{"Market", view.Market})
	rows = append(rows, []string{"TradingView", view.TradingView})
	table.PrintTableNoPad(rows, true)
	return nil
}

var exchangeCmd = &cobra.Command{
	Use:   "exchange [code]",
	Short: "Show whether a code is TWSE or TPEx listed",
	Args: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")
		if list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		c, err := exchange.Default()
		if err != nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return lo.Map(c.Members(), func(m stockcode.Code, _ int) string { return string(m) }), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runExchange,
}

func init() {
	exchangeCmd.Flags().Bool("list", false, "List every TPEx-listed code")
	exchangeCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runExchange(cmd *cobra.Command, args []string) error {
	list, _ := cmd.Flags().GetBool("list")
	output, _ := cmd.Flags().GetString("output")
	in := ExchangeInput{List: list, Output: output}
	if len(args) > 0 {
		in.Code = args[0]
	}
	e := ExchangeCmd{classifier: getApp(cmd).Classifier}
	return e.Show(in)
}
