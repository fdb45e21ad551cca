package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/tienda/database/seeders"
	"github.com/shashiranjanraj/tienda/internal/server"
)

// tienda seed — load the demo catalog through the configured store.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := server.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(cmd.Context(), svc.Catalog)
	},
}
