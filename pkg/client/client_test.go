package client_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/smartsignal-api/internal/application/auth"
	"github.com/jhoicas/smartsignal-api/internal/application/lifecycle"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/smartsignal-api/internal/interfaces/http"
	"github.com/jhoicas/smartsignal-api/pkg/client"
	pkgjwt "github.com/jhoicas/smartsignal-api/pkg/jwt"
	"github.com/jhoicas/smartsignal-api/pkg/password"
)

// newAPI levanta la API completa sobre el almacén en memoria detrás de un httptest.Server.
func newAPI(t *testing.T) string {
	t.Helper()
	log := zerolog.Nop()
	repo := memory.NewAccountRepository()
	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := pkgjwt.NewService(pkgjwt.Config{Secret: "client-test", TTL: time.Hour, Issuer: "test", KeyVersion: "v1"})
	require.NoError(t, err)

	authUC := auth.NewAuthUseCase(repo, hasher, tokens, nil, log)
	adminUC := usecase.NewAdminUseCase(repo, lifecycle.NewEngine(repo, nil, log), nil)
	_, err = authUC.BootstrapAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: authUC, AdminUC: adminUC, Tokens: tokens, Accounts: repo, Logger: log})

	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestClient_FlujoCompleto(t *testing.T) {
	base := newAPI(t)
	ctx := context.Background()

	user := client.New(base)
	reg, err := user.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "pending", reg.User.Status)

	_, err = user.Login(ctx, "alice", "secret1")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "NOT_APPROVED", apiErr.Code)
	assert.Equal(t, "pending", apiErr.AccountStatus)

	admin := client.New(base)
	_, err = admin.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	list, err := admin.ListUsers(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, list.Users, 1)

	upd, err := admin.UpdateUserStatus(ctx, list.Users[0].ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, "approved", upd.User.Status)

	out, err := user.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)

	me, err := user.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	st, err := admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalUsers)
	assert.Equal(t, 1, st.ApprovedUsers)
	assert.Equal(t, "100", st.ApprovalRate.String())
}

func TestClient_ErroresDeLaAPI(t *testing.T) {
	base := newAPI(t)
	ctx := context.Background()

	c := client.New(base)
	_, err := c.Me(ctx)
	assert.True(t, client.IsUnauthorized(err))

	_, err = c.Register(ctx, "alice", "secret1")
	require.NoError(t, err)
	_, err = c.Register(ctx, "alice", "secret1")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", apiErr.Code)
}

func TestResync(t *testing.T) {
	base := newAPI(t)
	ctx := context.Background()
	store := client.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))

	admin := client.New(base)
	login, err := admin.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NoError(t, store.Save(&client.Session{Token: login.Token, Role: "user", Status: "pending", Username: "viejo"}))

	sess, err := client.New(base).Resync(ctx, store)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "admin", sess.Role, "el rol se refresca desde el servidor")
	assert.Equal(t, "approved", sess.Status)
	assert.Equal(t, "admin", sess.Username)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, *sess, *saved)
}

func TestResync_TokenInvalidoBorraSesion(t *testing.T) {
	base := newAPI(t)
	store := client.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&client.Session{Token: "token.invalido.aqui", Role: "admin"}))

	sess, err := client.New(base).Resync(context.Background(), store)
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "la sesión debe borrarse")
}

func TestResync_SinSesion(t *testing.T) {
	store := client.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	sess, err := client.New("http://127.0.0.1:1").Resync(context.Background(), store)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}
