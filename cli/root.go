// Package cli contains the opsadmin administrative commands.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	noColor bool
	verbose bool
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opsadmin",
	Short: "Ops dashboard administration CLI",
	Long: `opsadmin manages the ops dashboard's identity backend.

Example usage:
  opsadmin bootstrap admin@example.com s3cret        # Create the first account (role defaults to it)
  opsadmin bootstrap ops@example.com s3cret manager  # Create an account with an explicit role
  opsadmin version                                   # Print version information`,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("kratos-url", "http://kratos:4433", "Kratos Frontend API URL")
	rootCmd.PersistentFlags().String("kratos-admin-url", "http://kratos:4434", "Kratos Admin API URL")
	rootCmd.PersistentFlags().String("database-dsn", "", "PostgreSQL DSN for the profile store")

	_ = viper.BindPFlag("kratos_url", rootCmd.PersistentFlags().Lookup("kratos-url"))
	_ = viper.BindPFlag("kratos_admin_url", rootCmd.PersistentFlags().Lookup("kratos-admin-url"))
	_ = viper.BindPFlag("database_dsn", rootCmd.PersistentFlags().Lookup("database-dsn"))

	viper.SetEnvPrefix("OPSADMIN")
	viper.AutomaticEnv()
}
