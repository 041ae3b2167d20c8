package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stockhop/cli/internal/config"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/internal/tabs"
	"github.com/stockhop/cli/pkg/util"
)

type statusComponent struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type statusResponse struct {
	Status     string            `json:"status"`
	Components []statusComponent `json:"components"`
}

const (
	statusOK          = "ok"
	statusDegraded    = "degraded"
	statusUnavailable = "unavailable"
)

var statusDisplay = map[string]struct {
	label string
	rgb   pterm.RGB
}{
	statusOK:          {label: "OK", rgb: pterm.NewRGB(31, 163, 130)},
	statusDegraded:    {label: "Degraded", rgb: pterm.NewRGB(245, 158, 11)},
	statusUnavailable: {label: "Unavailable", rgb: pterm.NewRGB(239, 68, 68)},
}

// StatusCmd reports whether history storage and tab opening work.
type StatusCmd struct {
	cfg        *config.Config
	svc        LookupService
	classifier ClassifierService
	opener     tabs.Opener
}

// StatusInput holds input for the status command.
type StatusInput struct {
	Output string
}

// Check gathers the status of every component.
func (s StatusCmd) Check(ctx context.Context) statusResponse {
	resp := statusResponse{Status: statusOK}
	add := func(c statusComponent) {
		resp.Components = append(resp.Components, c)
		if c.Status != statusOK && resp.Status == statusOK {
			resp.Status = statusDegraded
		}
	}

	storageDetail := string(s.cfg.Storage)
	if path := storage.Path(s.cfg.Storage, s.cfg.DataDir); path != "" {
		storageDetail += " " + path
	}
	if list, err := s.svc.History(ctx); err != nil {
		add(statusComponent{Name: "History", Status: statusUnavailable, Detail: err.Error()})
	} else {
		add(statusComponent{Name: "History", Status: statusOK, Detail: fmt.Sprintf("%s, %s", storageDetail, util.Plural(len(list), "entry", "entries"))})
	}

	openerDetail := string(s.cfg.Opener)
	if s.cfg.Opener == tabs.KindCDP {
		openerDetail += " " + s.cfg.CDPURL
	}
	if c, ok := s.opener.(tabs.Checker); ok {
		if err := c.Check(ctx); err != nil {
			add(statusComponent{Name: "Tabs", Status: statusUnavailable, Detail: fmt.Sprintf("%s: %v", openerDetail, err)})
		} else {
			add(statusComponent{Name: "Tabs", Status: statusOK, Detail: openerDetail})
		}
	} else {
		add(statusComponent{Name: "Tabs", Status: statusOK, Detail: openerDetail})
	}

	add(statusComponent{
		Name:   "Exchange table",
		Status: statusOK,
		Detail: util.Plural(len(s.classifier.Members()), "TPEx code", "TPEx codes"),
	})
	return resp
}

// Show prints the status report.
func (s StatusCmd) Show(ctx context.Context, in StatusInput) error {
	if in.Output != "" && in.Output != "json" {
		return fmt.Errorf("unsupported --output value: use 'json'")
	}
	resp := s.Check(ctx)
	if in.Output == "json" {
		return util.PrintPrettyJSON(resp)
	}
	printStatus(resp)
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that history storage and tab opening work",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	app := getApp(cmd)
	s := StatusCmd{cfg: app.Config, svc: app.Lookup, classifier: app.Classifier, opener: app.Opener}
	return s.Show(cmd.Context(), StatusInput{Output: output})
}

func getStatusDisplay(status string) (string, pterm.RGB) {
	if d, ok := statusDisplay[status]; ok {
		return d.label, d.rgb
	}
	return "Unknown", pterm.NewRGB(128, 128, 128)
}

func coloredDot(rgb pterm.RGB) string {
	return rgb.Sprint("●")
}

func printStatus(resp statusResponse) {
	label, rgb := getStatusDisplay(resp.Status)
	pterm.Println()
	pterm.Println("  " + fmt.Sprintf("stockhop status: %s", rgb.Sprint(label)))
	pterm.Println()
	for _, comp := range resp.Components {
		compLabel, compColor := getStatusDisplay(comp.Status)
		pterm.Printf("    %s %-16s %-12s %s\n", coloredDot(compColor), comp.Name, compLabel, util.OrDash(comp.Detail))
	}
	pterm.Println()
}
