package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"up2you.app/storefront/internal/bootstrap"
)

func statsCmd(opts *options) *cobra.Command {
	var lowStock bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print inventory statistics as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := bootstrap.New(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close(context.Background()) }()

			var out any
			if lowStock {
				out, err = services.Inventory.LowStock(ctx, opts.cfg.LowStockThreshold)
			} else {
				out, err = services.Inventory.GetStats(ctx)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&lowStock, "low-stock", false, "List items at or below LOW_STOCK_THRESHOLD instead")
	return cmd
}
