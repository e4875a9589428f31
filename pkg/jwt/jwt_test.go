package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/smartsignal-api/pkg/jwt"
)

const (
	testSecret  = "test-secret-key-for-unit-tests"
	testIssuer  = "smartsignal-test"
	testAccount = "00000000-0000-0000-0000-000000000001"
)

// clock reloj manipulable para los tests de expiración.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newService(t *testing.T, c *clock, kid string) *pkgjwt.Service {
	t.Helper()
	svc, err := pkgjwt.NewService(pkgjwt.Config{
		Secret:     testSecret,
		TTL:        24 * time.Hour,
		Issuer:     testIssuer,
		KeyVersion: kid,
	}, pkgjwt.WithClock(c.now))
	require.NoError(t, err)
	return svc
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	c := &clock{t: time.Now()}
	svc := newService(t, c, "v1")

	tok, err := svc.Issue(testAccount)
	require.NoError(t, err)

	id, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testAccount, id, "verify(issue(A)) debe devolver A")
}

func TestIssueVerify_CuentasDistintas(t *testing.T) {
	c := &clock{t: time.Now()}
	svc := newService(t, c, "v1")

	tokA, err := svc.Issue("account-a")
	require.NoError(t, err)
	tokB, err := svc.Issue("account-b")
	require.NoError(t, err)

	idA, err := svc.Verify(tokA)
	require.NoError(t, err)
	idB, err := svc.Verify(tokB)
	require.NoError(t, err)

	assert.Equal(t, "account-a", idA)
	assert.Equal(t, "account-b", idB)
}

func TestVerify_Expirado(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	svc := newService(t, c, "v1")

	tok, err := svc.Issue(testAccount)
	require.NoError(t, err)

	c.t = c.t.Add(23 * time.Hour)
	_, err = svc.Verify(tok)
	require.NoError(t, err, "antes del TTL el token sigue siendo válido")

	c.t = c.t.Add(2 * time.Hour)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenExpired)
}

func TestVerify_SecretIncorrecto(t *testing.T) {
	c := &clock{t: time.Now()}
	tok, err := newService(t, c, "v1").Issue(testAccount)
	require.NoError(t, err)

	other, err := pkgjwt.NewService(pkgjwt.Config{
		Secret: "otro-secret-completamente-distinto", TTL: time.Hour, Issuer: testIssuer, KeyVersion: "v1",
	})
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestVerify_VersionDeClaveDistinta(t *testing.T) {
	c := &clock{t: time.Now()}
	tok, err := newService(t, c, "v1").Issue(testAccount)
	require.NoError(t, err)

	_, err = newService(t, c, "v2").Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid, "un token de v1 no debe aceptarse con la clave v2")
}

func TestVerify_Malformado(t *testing.T) {
	svc := newService(t, &clock{t: time.Now()}, "v1")

	for _, tok := range []string{"", "token.invalido.aqui", "abc"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid, tok)
	}
}

func TestVerify_AlgoritmoNone(t *testing.T) {
	svc := newService(t, &clock{t: time.Now()}, "")

	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   testAccount,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: testAccount,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestVerify_EmisorDistinto(t *testing.T) {
	c := &clock{t: time.Now()}
	foreign, err := pkgjwt.NewService(pkgjwt.Config{Secret: testSecret, TTL: time.Hour, Issuer: "otro", KeyVersion: "v1"})
	require.NoError(t, err)
	tok, err := foreign.Issue(testAccount)
	require.NoError(t, err)

	_, err = newService(t, c, "v1").Verify(tok)
	assert.ErrorIs(t, err, pkgjwt.ErrTokenInvalid)
}

func TestNewService_SecretVacio(t *testing.T) {
	_, err := pkgjwt.NewService(pkgjwt.Config{TTL: time.Hour})
	assert.Error(t, err)
}
