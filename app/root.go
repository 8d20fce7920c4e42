// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cargolink-admin",
	Short: "CargoLink-Admin is the back-office service for the CargoLink web site",
	Long: `CargoLink-Admin is the back-office service for the CargoLink web site
that provides the content API for the public pages and an administrative
API for managing users, roles, posts, job offers and notifications.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
