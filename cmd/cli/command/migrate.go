package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		// OpenGorm migrates on connect
		_, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
