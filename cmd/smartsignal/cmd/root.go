// Package cmd contiene los comandos de la CLI smartsignal.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/smartsignal-api/pkg/client"
)

var (
	serverURL   string
	sessionPath string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "smartsignal",
	Short: "SmartSignal - cliente de la API de cuentas",
	Long: `smartsignal es el cliente de línea de comandos de la API de SmartSignal.

La sesión (token, rol y estado) se guarda en ~/.smartsignal/session.json
y se revalida contra el servidor en cada comando que la usa.

Commands:
  register    Registrar una cuenta (queda pendiente de aprobación)
  login       Iniciar sesión y guardar el token
  logout      Borrar la sesión local
  whoami      Mostrar la cuenta de la sesión actual
  admin       Administrar usuarios (requiere rol admin)
  migrate     Aplicar las migraciones de PostgreSQL`,
	SilenceUsage: true,
}

// Execute ejecuta el comando raíz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("SMARTSIGNAL_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "URL base de la API (env SMARTSIGNAL_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "archivo de sesión (default: ~/.smartsignal/session.json)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "timeout por petición")
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithTimeout(timeout))
}

func sessionStore() (*client.SessionStore, error) {
	path := sessionPath
	if path == "" {
		p, err := client.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return client.NewSessionStore(path), nil
}

// authenticated revalida la sesión guardada y devuelve un cliente con su token.
func authenticated(cmd *cobra.Command) (*client.Client, *client.Session, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, nil, err
	}
	c := newClient()
	sess, err := c.Resync(cmd.Context(), store)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, fmt.Errorf("no hay sesión activa: ejecute 'smartsignal login'")
	}
	return c, sess, nil
}
