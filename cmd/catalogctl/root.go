package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"productdash/internal/client"
	"productdash/internal/engine/notify"
	"productdash/internal/pkg/logger"
	"productdash/internal/platform/config"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var errNeedsYes = errors.New("refusing to delete without --yes")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	baseURL    string
	query      string
	verbose    bool

	cfg    *config.Config
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operate the product catalog service from the terminal",
		Long: `catalogctl talks to the catalog service the dashboard manages:
products, webhooks and CSV imports.

Examples:
  catalogctl products list --search "blue widget"
  catalogctl products list --query "[].sku"
  catalogctl webhooks test 3
  catalogctl import products.csv --wait`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&a.baseURL, "api", "", "catalog API base URL (overrides api.base_url)")
	root.PersistentFlags().StringVarP(&a.query, "query", "q", "", "JMESPath expression applied to JSON output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log every API request")

	root.AddCommand(newProductsCmd(a), newWebhooksCmd(a), newImportCmd(a), newProgressCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
	}

	cfg.Logging.Output = "stderr"
	cfg.Logging.Format = "text"
	if !a.verbose {
		cfg.Logging.Level = "warn"
	} else {
		cfg.Logging.Level = "debug"
	}
	logger.Init(cfg.Logging)

	a.cfg = cfg
	a.client = client.New(cfg.API)
	return nil
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (a *app) done(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render(msg))
}

// describe gives client errors the same wording the dashboard shows.
func describe(err error) string {
	if msg := notify.FromError(err); msg != "" {
		return msg
	}
	return err.Error()
}
