package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/smartsignal-api/pkg/client"
)

var statusFilter string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrar usuarios (requiere rol admin)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Listar usuarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := adminClient(cmd)
		if err != nil {
			return err
		}
		out, err := c.ListUsers(cmd.Context(), statusFilter)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSUARIO\tESTADO\tREGISTRO")
		for _, u := range out.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Status, u.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

// statusCmd construye approve/reject/revoke.
func statusCmd(use, status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := adminClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.UpdateUserStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", out.Message, out.User.Username)
			return nil
		},
	}
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Conteo de usuarios por estado",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := adminClient(cmd)
		if err != nil {
			return err
		}
		st, err := c.Stats(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Total\t%d\n", st.TotalUsers)
		fmt.Fprintf(w, "Pendientes\t%d\n", st.PendingUsers)
		fmt.Fprintf(w, "Aprobados\t%d\n", st.ApprovedUsers)
		fmt.Fprintf(w, "Rechazados\t%d\n", st.RejectedUsers)
		fmt.Fprintf(w, "Revocados\t%d\n", st.RevokedUsers)
		fmt.Fprintf(w, "%% aprobación\t%s\n", st.ApprovalRate.StringFixed(2))
		return w.Flush()
	},
}

func adminClient(cmd *cobra.Command) (*client.Client, error) {
	c, sess, err := authenticated(cmd)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() {
		return nil, fmt.Errorf("la sesión de %s no tiene rol admin", sess.Username)
	}
	return c, nil
}

func init() {
	adminUsersCmd.Flags().StringVar(&statusFilter, "status", "", "filtrar por estado: pending | approved | rejected | revoked")
	adminCmd.AddCommand(
		adminUsersCmd,
		statusCmd("approve", "approved", "Aprobar un usuario"),
		statusCmd("reject", "rejected", "Rechazar un usuario"),
		statusCmd("revoke", "revoked", "Revocar el acceso de un usuario"),
		adminStatsCmd,
	)
	rootCmd.AddCommand(adminCmd)
}
