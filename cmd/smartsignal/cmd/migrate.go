package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/smartsignal-api/internal/infrastructure/postgres"
	"github.com/jhoicas/smartsignal-api/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplicar las migraciones de PostgreSQL",
	Long: `Aplica las migraciones embebidas contra la base configurada
con DATABASE_URL o DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME y DB_SSLMODE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, config.LoadDB())
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migraciones aplicadas")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
