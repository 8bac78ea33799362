package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"up2you.app/storefront/internal/bootstrap"
	"up2you.app/storefront/pkg/export"
)

func exportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the inventory as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			services, err := bootstrap.New(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() { _ = services.Close(context.Background()) }()

			records, err := services.Inventory.ExportFlat(ctx)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := export.WriteCSV(w, records); err != nil {
				return err
			}
			opts.logger.Info("inventory exported", "rows", len(records), "output", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}
