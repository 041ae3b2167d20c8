package cmd

import (
	"context"
	"strings"

	"github.com/pterm/pterm"
	"github.com/stockhop/cli/internal/lookup"
	"github.com/stockhop/cli/pkg/stockcode"
)

const (
	popupPrompt      = "股票代號（Enter 開啟歷史記錄，q 離開）"
	popupHistoryText = "歷史記錄"
	optionDelete     = "刪除 "
	optionClearAll   = "清除全部記錄"
	optionBack       = "返回"
)

// PopupCmd is the interactive loop: enter a code to open it, or pick one
// from history to open or delete it.
type PopupCmd struct {
	svc    LookupService
	prompt Prompter
}

// Run loops until the user quits or ctx is cancelled.
func (p PopupCmd) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		list, err := p.svc.History(ctx)
		if err != nil {
			pterm.Warning.Printf("History unavailable: %v\n", err)
		}
		renderHistory(list)

		input, err := p.prompt.Input(popupPrompt)
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)

		switch {
		case input == "q" || input == "quit":
			return nil
		case input == "":
			if len(list) == 0 {
				continue
			}
			quit, err := p.pickFromHistory(ctx, list)
			if err != nil || quit {
				return err
			}
		default:
			p.submit(ctx, input)
		}
	}
	return nil
}

func (p PopupCmd) pickFromHistory(ctx context.Context, list []stockcode.Code) (bool, error) {
	options := make([]string, 0, 2*len(list)+2)
	for _, c := range list {
		options = append(options, string(c))
	}
	for _, c := range list {
		options = append(options, optionDelete+string(c))
	}
	options = append(options, optionClearAll, optionBack)

	choice, err := p.prompt.Select(popupHistoryText, options)
	if err != nil {
		return false, err
	}

	switch {
	case choice == optionBack:
	case choice == optionClearAll:
		h := HistoryCmd{svc: p.svc, prompt: p.prompt}
		if err := h.Clear(ctx, HistoryClearInput{}); err != nil {
			pterm.Error.Println(err)
		}
	case strings.HasPrefix(choice, optionDelete):
		if _, err := p.svc.Remove(ctx, strings.TrimPrefix(choice, optionDelete)); err != nil {
			pterm.Error.Println(err)
		}
	default:
		p.submit(ctx, choice)
	}
	return false, nil
}

func (p PopupCmd) submit(ctx context.Context, input string) {
	if preview := p.svc.Preview(input); preview.Valid {
		pterm.Info.Println(lookup.MsgOpening)
	}
	printResult(p.svc.Submit(ctx, input))
}
