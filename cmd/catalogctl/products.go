package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"productdash/internal/client"
	"productdash/internal/platform/models"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "List and change catalog products",
	}
	cmd.AddCommand(
		productsListCmd(a),
		productsGetCmd(a),
		productsCreateCmd(a),
		productsUpdateCmd(a),
		productsDeleteCmd(a),
		productsDeleteAllCmd(a),
	)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func productsListCmd(a *app) *cobra.Command {
	var (
		page   int
		search string
		filter string
		active string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.ProductQuery{
				Term:   search,
				Filter: client.ParseFilter(filter),
				Page:   page,
				Limit:  a.cfg.Dashboard.PageSize,
			}
			if active != "" {
				v, err := strconv.ParseBool(active)
				if err != nil {
					return fmt.Errorf("--active must be true or false")
				}
				q.Active = &v
			}

			items, err := a.client.ListProducts(a.ctx(cmd), q)
			if err != nil {
				return err
			}
			if items == nil {
				items = []models.Product{}
			}
			return printJSON(cmd.OutOrStdout(), items, a.query)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().StringVarP(&search, "search", "s", "", "SKU or name to search for")
	cmd.Flags().StringVar(&filter, "filter", "auto", "search field: auto, sku or name")
	cmd.Flags().StringVar(&active, "active", "", "only active (true) or inactive (false) products")
	return cmd
}

func productsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.client.GetProduct(a.ctx(cmd), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p, a.query)
		},
	}
}

func productsCreateCmd(a *app) *cobra.Command {
	var in models.ProductInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.CreateProduct(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			a.done(cmd, fmt.Sprintf("Created product %d", p.ID))
			return printJSON(cmd.OutOrStdout(), p, a.query)
		},
	}
	cmd.Flags().StringVar(&in.SKU, "sku", "", "product SKU (required, cannot be changed later)")
	cmd.Flags().StringVar(&in.Name, "name", "", "product name")
	cmd.Flags().StringVar(&in.Description, "description", "", "product description")
	cmd.Flags().BoolVar(&in.Active, "active", true, "whether the product is active")
	return cmd
}

func productsUpdateCmd(a *app) *cobra.Command {
	var (
		name, description string
		active            bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product's name, description or active flag",
		Long:  "Fields not given keep their current value. The SKU cannot be changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := a.ctx(cmd)
			current, err := a.client.GetProduct(ctx, id)
			if err != nil {
				return err
			}

			upd := models.ProductUpdate{Name: current.Name, Description: current.Description, Active: current.Active}
			if cmd.Flags().Changed("name") {
				upd.Name = name
			}
			if cmd.Flags().Changed("description") {
				upd.Description = description
			}
			if cmd.Flags().Changed("active") {
				upd.Active = active
			}

			p, err := a.client.UpdateProduct(ctx, id, upd)
			if err != nil {
				return err
			}
			a.done(cmd, fmt.Sprintf("Updated product %d", p.ID))
			return printJSON(cmd.OutOrStdout(), p, a.query)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&active, "active", true, "new active flag")
	return cmd
}

func productsDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errNeedsYes
			}
			if err := a.client.DeleteProduct(a.ctx(cmd), id); err != nil {
				return err
			}
			a.done(cmd, fmt.Sprintf("Deleted product %d", id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the delete")
	return cmd
}

func productsDeleteAllCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every product in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNeedsYes
			}
			if err := a.client.DeleteAllProducts(a.ctx(cmd)); err != nil {
				return err
			}
			a.done(cmd, "Deleted all products")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deleting every product")
	return cmd
}
