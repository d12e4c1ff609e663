package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"productdash/internal/platform/models"
)

func newWebhooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "w"},
		Short:   "Manage webhooks and send test deliveries",
	}
	cmd.AddCommand(webhooksListCmd(a), webhooksSaveCmd(a, false), webhooksSaveCmd(a, true), webhooksDeleteCmd(a), webhooksTestCmd(a))
	return cmd
}

func webhooksListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hooks, err := a.client.ListWebhooks(a.ctx(cmd))
			if err != nil {
				return err
			}
			if hooks == nil {
				hooks = []models.Webhook{}
			}
			return printJSON(cmd.OutOrStdout(), hooks, a.query)
		},
	}
}

// webhooksSaveCmd builds "create" or, when update is set, "update <id>".
func webhooksSaveCmd(a *app, update bool) *cobra.Command {
	var in models.WebhookInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.ctx(cmd)
			var (
				hook *models.Webhook
				err  error
			)
			if update {
				id, perr := parseID(args[0])
				if perr != nil {
					return perr
				}
				current, gerr := a.client.GetWebhook(ctx, id)
				if gerr != nil {
					return gerr
				}
				merged := models.WebhookInput{URL: current.URL, Event: current.Event, Enabled: current.Enabled}
				if cmd.Flags().Changed("url") {
					merged.URL = in.URL
				}
				if cmd.Flags().Changed("event") {
					merged.Event = in.Event
				}
				if cmd.Flags().Changed("enabled") {
					merged.Enabled = in.Enabled
				}
				hook, err = a.client.UpdateWebhook(ctx, id, merged)
			} else {
				hook, err = a.client.CreateWebhook(ctx, in)
			}
			if err != nil {
				return err
			}
			a.done(cmd, fmt.Sprintf("Saved webhook %d", hook.ID))
			return printJSON(cmd.OutOrStdout(), hook, a.query)
		},
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Update a webhook"
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.Flags().StringVar(&in.URL, "url", "", "delivery URL (http or https)")
	cmd.Flags().StringVar(&in.Event, "event", models.DefaultWebhookEvent, "event name")
	cmd.Flags().BoolVar(&in.Enabled, "enabled", true, "whether deliveries are enabled")
	return cmd
}

func webhooksDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errNeedsYes
			}
			if err := a.client.DeleteWebhook(a.ctx(cmd), id); err != nil {
				return err
			}
			a.done(cmd, fmt.Sprintf("Deleted webhook %d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the delete")
	return cmd
}

func webhooksTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test <id>",
		Short: "Send a test delivery and print the remote status (or ERR)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res, err := a.client.TestWebhook(a.ctx(cmd), id)
			if err != nil {
				return err
			}
			if a.query != "" {
				return printJSON(cmd.OutOrStdout(), res, a.query)
			}

			line := res.Display()
			if res.Error != "" {
				line += " " + mutedStyle.Render(res.Error)
			} else if res.ResponseMS > 0 {
				line += " " + mutedStyle.Render(fmt.Sprintf("%.1fms", res.ResponseMS))
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
}
