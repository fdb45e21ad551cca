package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tienda",
	Short: "Tienda — catalog and cart service CLI",
	Long:  "Tienda serves a product catalog with carts, live websocket updates and a GraphQL query surface.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(seedCmd)
}
