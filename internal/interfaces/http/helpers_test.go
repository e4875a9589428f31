package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/smartsignal-api/internal/application/auth"
	"github.com/jhoicas/smartsignal-api/internal/application/lifecycle"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/memory"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/smartsignal-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/smartsignal-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/smartsignal-api/pkg/jwt"
	"github.com/jhoicas/smartsignal-api/pkg/password"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "smartsignal-test"
	adminUser     = "admin"
	adminPass     = "admin123"
)

// clock reloj manipulable compartido por el servicio de tokens.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

// server aplicación completa sobre el almacén en memoria.
type server struct {
	app     *fiber.App
	repo    *memory.AccountRepo
	tokens  *pkgjwt.Service
	metrics *metrics.Metrics
	clock   *clock
}

func newServer(t *testing.T) *server {
	t.Helper()
	log := zerolog.Nop()
	repo := memory.NewAccountRepository()

	hasher, err := password.New(password.Bcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	clk := &clock{t: time.Now()}
	tokens, err := pkgjwt.NewService(pkgjwt.Config{
		Secret: testJWTSecret, TTL: 24 * time.Hour, Issuer: testIssuer, KeyVersion: "v1",
	}, pkgjwt.WithClock(clk.now))
	require.NoError(t, err)

	m := metrics.New()
	engine := lifecycle.NewEngine(repo, m, log)
	authUC := auth.NewAuthUseCase(repo, hasher, tokens, m, log)
	adminUC := usecase.NewAdminUseCase(repo, engine, infrapdf.NewMarotoPDFGenerator("SmartSignal"))

	created, err := authUC.BootstrapAdmin(context.Background(), adminUser, adminPass)
	require.NoError(t, err)
	require.True(t, created)

	// Mismo orden que cmd/api: logger de peticiones, /health y después la API.
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log, m))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:   authUC,
		AdminUC:  adminUC,
		Tokens:   tokens,
		Accounts: repo,
		Metrics:  m,
		Logger:   log,
	})
	return &server{app: app, repo: repo, tokens: tokens, metrics: m, clock: clk}
}

// do lanza una petición contra la app. body se serializa a JSON si no es nil.
func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login devuelve el token o falla el test.
func (s *server) login(t *testing.T, username, pass string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": pass})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

// register crea una cuenta y devuelve su id.
func (s *server) register(t *testing.T, username, pass string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": username, "password": pass})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.User.ID
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
