package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores del servicio de tokens. El gateway los traduce a 401.
var (
	ErrTokenInvalid = errors.New("token inválido")
	ErrTokenExpired = errors.New("token expirado")
)

// Claims incluye los claims estándar JWT más el id de la cuenta.
// El rol y el estado NO viajan en el token: el gateway recarga la cuenta en cada petición.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Config parámetros del servicio de tokens.
type Config struct {
	Secret     string
	TTL        time.Duration
	Issuer     string
	KeyVersion string // header kid; un token firmado con otra versión no se acepta
}

// Service emite y verifica tokens HS256 de duración fija.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	kid    string
	now    func() time.Time
}

// Option personaliza el Service.
type Option func(*Service)

// WithClock inyecta el reloj usado al emitir y verificar (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService construye el servicio. El secret no puede estar vacío.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("jwt: duración del token debe ser positiva")
	}
	s := &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		kid:    cfg.KeyVersion,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue genera un token firmado para accountID que expira tras el TTL configurado.
func (s *Service) Issue(accountID string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("jwt: accountID vacío")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: accountID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		token.Header["kid"] = s.kid
	}
	return token.SignedString(s.secret)
}

// Verify valida firma, algoritmo, emisor, versión de clave y expiración, y devuelve el id de la cuenta.
// Retorna ErrTokenExpired si ya venció y ErrTokenInvalid en cualquier otro fallo.
func (s *Service) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		if s.kid != "" {
			if kid, _ := t.Header["kid"].(string); kid != s.kid {
				return nil, fmt.Errorf("versión de clave desconocida: %v", t.Header["kid"])
			}
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.UserID == "" || claims.Subject != claims.UserID {
		return "", fmt.Errorf("%w: sujeto inconsistente", ErrTokenInvalid)
	}
	return claims.UserID, nil
}
