package http_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
)

type accountBody struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type statsBody struct {
	TotalUsers    int    `json:"totalUsers"`
	PendingUsers  int    `json:"pendingUsers"`
	ApprovedUsers int    `json:"approvedUsers"`
	RejectedUsers int    `json:"rejectedUsers"`
	RevokedUsers  int    `json:"revokedUsers"`
	ApprovalRate  string `json:"approvalRate"`
}

func (s *server) setStatus(t *testing.T, adminTok, id, status string) *http.Response {
	t.Helper()
	return s.do(t, http.MethodPatch, "/api/admin/users/"+id, adminTok, dto.UpdateStatusRequest{Status: status})
}

// register → login falla → admin aprueba → login → /auth/me.
func TestScenario_RegistroAprobacionLogin(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.RegisterResponse](t, resp)
	assert.Equal(t, "Registro exitoso. Pendiente de aprobación del administrador.", reg.Message)
	assert.Equal(t, "pending", reg.User.Status)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	eb := decode[errorBody](t, resp)
	assert.Equal(t, "NOT_APPROVED", eb.Code)
	assert.Equal(t, "pending", eb.Status)

	resp = s.setStatus(t, adminTok, reg.User.ID, "approved")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	upd := decode[dto.UpdateStatusResponse](t, resp)
	assert.Equal(t, "approved", upd.User.Status)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "user", login.Role)
	assert.Equal(t, "approved", login.Status)

	resp = s.do(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[accountBody](t, resp)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "approved", me.Status)
	assert.Equal(t, reg.User.ID, me.ID)
}

// Revocar impide nuevos logins pero el token ya emitido sigue autenticando hasta expirar.
func TestScenario_RevocarNoInvalidaTokenEmitido(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	id := s.register(t, "alice", "secret1")
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, id, "approved").StatusCode)
	aliceTok := s.login(t, "alice", "secret1")

	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, id, "revoked").StatusCode)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	eb := decode[errorBody](t, resp)
	assert.Equal(t, "NOT_APPROVED", eb.Code)
	assert.Equal(t, "revoked", eb.Status)

	resp = s.do(t, http.MethodGet, "/api/auth/me", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "el token previo sigue siendo válido hasta su expiración")
	me := decode[accountBody](t, resp)
	assert.Equal(t, "revoked", me.Status)
}

func TestRegister_Duplicado409(t *testing.T) {
	s := newServer(t)
	s.register(t, "alice", "secret1")

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "alice", Password: "otra123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USERNAME_EXISTS", decode[errorBody](t, resp).Code)

	adminTok := s.login(t, adminUser, adminPass)
	list := decode[dto.UserListResponse](t, s.do(t, http.MethodGet, "/api/admin/users", adminTok, nil))
	assert.Len(t, list.Users, 1, "no se duplica la cuenta")
}

func TestRegister_Validacion400(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Username: "al", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[errorBody](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", "no-es-un-objeto")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_PasswordMultibyteExcedeBcrypt400(t *testing.T) {
	s := newServer(t)

	// 40 runas "ñ" = 80 bytes: más de lo que bcrypt admite.
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "carmen",
		Password: strings.Repeat("ñ", 40),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "72 bytes")

	acc, err := s.repo.GetByUsername(context.Background(), "carmen")
	require.NoError(t, err)
	assert.Nil(t, acc, "no se crea la cuenta")
}

func TestLogin_CredencialesInvalidas401(t *testing.T) {
	s := newServer(t)
	s.register(t, "alice", "secret1")

	for _, in := range []dto.LoginRequest{
		{Username: "alice", Password: "incorrecta"},
		{Username: "nadie", Password: "secret1"},
		{Username: adminUser, Password: "incorrecta"},
	} {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", in)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, resp).Code)
	}
}

func TestAdmin_UserNoAdminRecibe403(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	id := s.register(t, "alice", "secret1")
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, id, "approved").StatusCode)
	aliceTok := s.login(t, "alice", "secret1")

	for _, path := range []string{"/api/admin/users", "/api/admin/stats", "/api/admin/reports/users.pdf"} {
		resp := s.do(t, http.MethodGet, path, aliceTok, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}
	resp := s.setStatus(t, aliceTok, id, "approved")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "un user no puede cambiar su propio estado")

	resp = s.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_UpdateStatusErrores(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	id := s.register(t, "alice", "secret1")
	admin, err := s.repo.GetByUsername(t.Context(), adminUser)
	require.NoError(t, err)

	cases := []struct {
		name   string
		id     string
		status string
		want   int
		code   string
	}{
		{"pending no asignable", id, "pending", http.StatusBadRequest, "INVALID_STATUS"},
		{"estado desconocido", id, "deleted", http.StatusBadRequest, "INVALID_STATUS"},
		{"id desconocido", "00000000-0000-0000-0000-00000000dead", "approved", http.StatusNotFound, "NOT_FOUND"},
		{"admin inmutable", admin.ID, "revoked", http.StatusForbidden, "ADMIN_IMMUTABLE"},
		{"admin inmutable aprobado", admin.ID, "approved", http.StatusForbidden, "ADMIN_IMMUTABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.setStatus(t, adminTok, tc.id, tc.status)
			assert.Equal(t, tc.want, resp.StatusCode)
			assert.Equal(t, tc.code, decode[errorBody](t, resp).Code)
		})
	}
}

func TestAdmin_ListUsersSinHashYFiltrado(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	aliceID := s.register(t, "alice", "secret1")
	s.register(t, "bob", "secret2")
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, aliceID, "approved").StatusCode)

	resp := s.do(t, http.MethodGet, "/api/admin/users", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotContains(t, strings.ToLower(string(raw)), "password")
	assert.NotContains(t, string(raw), `"admin"`, "las cuentas admin no se listan")

	list := decode[dto.UserListResponse](t, s.do(t, http.MethodGet, "/api/admin/users?status=approved", adminTok, nil))
	require.Len(t, list.Users, 1)
	assert.Equal(t, "alice", list.Users[0].Username)

	resp = s.do(t, http.MethodGet, "/api/admin/users?status=banned", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/admin/users?limit=500", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdmin_StatsTotalEsSuma(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)

	ids := []string{
		s.register(t, "user1", "secret1"),
		s.register(t, "user2", "secret1"),
		s.register(t, "user3", "secret1"),
		s.register(t, "user4", "secret1"),
	}
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, ids[0], "approved").StatusCode)
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, ids[1], "rejected").StatusCode)
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, ids[2], "revoked").StatusCode)

	resp := s.do(t, http.MethodGet, "/api/admin/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[statsBody](t, resp)
	assert.Equal(t, 4, st.TotalUsers, "el admin no cuenta")
	assert.Equal(t, 1, st.PendingUsers)
	assert.Equal(t, 1, st.ApprovedUsers)
	assert.Equal(t, 1, st.RejectedUsers)
	assert.Equal(t, 1, st.RevokedUsers)
	assert.Equal(t, st.TotalUsers, st.PendingUsers+st.ApprovedUsers+st.RejectedUsers+st.RevokedUsers)
	assert.Equal(t, "25", st.ApprovalRate)
}

func TestAdmin_RosterPDF(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	s.register(t, "alice", "secret1")

	resp := s.do(t, http.MethodGet, "/api/admin/reports/users.pdf", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestMetrics_RegistranLoginsYTransiciones(t *testing.T) {
	s := newServer(t)
	adminTok := s.login(t, adminUser, adminPass)
	id := s.register(t, "alice", "secret1")
	require.Equal(t, http.StatusOK, s.setStatus(t, adminTok, id, "approved").StatusCode)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.Registrations))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.StatusTransitions.WithLabelValues("pending", "approved")))

	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "smartsignal_login_attempts_total")
}

func TestRequestLogger_CubreRutasFueraDelRouter(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nadie", "password": "secret1"})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.RequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.RequestsTotal.WithLabelValues("POST", "/api/auth/login", "401")))
}
