package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ndewijer/finance-dashboard/internal/api/handlers"
	"github.com/ndewijer/finance-dashboard/internal/config"
	"github.com/ndewijer/finance-dashboard/internal/logging"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/report"
	"github.com/ndewijer/finance-dashboard/internal/service"
)

type snapshotOptions struct {
	json  bool
	plain bool
	width int
}

func newSnapshotCmd() *cobra.Command {
	var opts snapshotOptions

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Refresh prices once and print the dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Logging)

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			snap, err := a.dashboard.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out, err := renderSnapshot(snap, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(os.Stdout, out)
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the snapshot as JSON")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print raw markdown instead of styled terminal output")
	cmd.Flags().IntVar(&opts.width, "width", 120, "terminal word wrap width")

	return cmd
}

func renderSnapshot(snap model.PortfolioSnapshot, opts snapshotOptions) (string, error) {
	if opts.json {
		data, err := json.MarshalIndent(handlers.NewDashboardResponse(snap), "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return string(data) + "\n", nil
	}

	md := report.Markdown(snap, report.Options{Timezone: service.DomesticMarketTZ})
	if opts.plain {
		return md, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(opts.width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return renderer.Render(md)
}
