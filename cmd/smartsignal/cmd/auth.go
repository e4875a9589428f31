package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/smartsignal-api/pkg/client"
)

var passwordFlag string

// readPassword usa --password o, si está vacío, la primera línea de la entrada estándar.
func readPassword(cmd *cobra.Command) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Contraseña: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Registrar una cuenta nueva",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := readPassword(cmd)
		if err != nil {
			return err
		}
		out, err := newClient().Register(cmd.Context(), args[0], pass)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Iniciar sesión y guardar el token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pass, err := readPassword(cmd)
		if err != nil {
			return err
		}
		store, err := sessionStore()
		if err != nil {
			return err
		}
		out, err := newClient().Login(cmd.Context(), args[0], pass)
		if err != nil {
			return err
		}
		sess := &client.Session{Token: out.Token, Role: out.Role, Status: out.Status, Username: out.User.Username}
		if err := store.Save(sess); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", out.Message, sess.Username, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Borrar la sesión local",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := sessionStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sesión cerrada")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostrar la cuenta de la sesión actual",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, sess, err := authenticated(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\trol=%s\testado=%s\n", sess.Username, sess.Role, sess.Status)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVarP(&passwordFlag, "password", "p", "", "contraseña (si se omite se lee de stdin)")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
}
