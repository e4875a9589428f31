// Package password implementa el hash unidireccional con sal de las contraseñas.
//
// Se soportan dos algoritmos: bcrypt (por defecto) y argon2id. Verify detecta el
// algoritmo por el prefijo del hash almacenado, de modo que cambiar el algoritmo
// configurado no deja fuera a las cuentas creadas antes del cambio.
package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm algoritmo usado al generar hashes nuevos.
type Algorithm string

const (
	Bcrypt   Algorithm = "bcrypt"
	Argon2id Algorithm = "argon2id"
)

// ErrMalformedHash el hash almacenado no corresponde a ningún formato conocido o está corrupto.
var ErrMalformedHash = errors.New("password: hash mal formado")

// argon2idParams parámetros mínimos OWASP para Argon2id.
var argon2idParams = &argon2id.Params{
	Memory:      47 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher genera y verifica hashes de contraseña.
type Hasher struct {
	algo       Algorithm
	bcryptCost int
	params     *argon2id.Params
}

// Option personaliza el Hasher.
type Option func(*Hasher)

// WithArgon2Params sobrescribe los parámetros de argon2id.
func WithArgon2Params(p *argon2id.Params) Option {
	return func(h *Hasher) {
		if p != nil {
			h.params = p
		}
	}
}

// New construye un Hasher. bcryptCost fuera de rango usa bcrypt.DefaultCost.
func New(algo Algorithm, bcryptCost int, opts ...Option) (*Hasher, error) {
	switch algo {
	case Bcrypt, Argon2id:
	default:
		return nil, fmt.Errorf("password: algoritmo desconocido %q", algo)
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	h := &Hasher{algo: algo, bcryptCost: bcryptCost, params: argon2idParams}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Hash devuelve un hash con sal única; dos llamadas con la misma entrada producen salidas distintas.
func (h *Hasher) Hash(plain string) (string, error) {
	if h.algo == Argon2id {
		hash, err := argon2id.CreateHash(plain, h.params)
		if err != nil {
			return "", fmt.Errorf("password: argon2id: %w", err)
		}
		return hash, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("password: bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compara la contraseña con el hash. Una contraseña incorrecta devuelve (false, nil);
// solo un hash ilegible devuelve error.
func (h *Hasher) Verify(plain, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return safeArgon2idCompare(plain, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	default:
		return false, ErrMalformedHash
	}
}

// safeArgon2idCompare convierte en error los panics de argon2 ante parámetros inválidos (t=0, p=0).
func safeArgon2idCompare(plain, hash string) (match bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = false
			err = fmt.Errorf("%w: parámetros argon2id inválidos: %v", ErrMalformedHash, r)
		}
	}()
	match, err = argon2id.ComparePasswordAndHash(plain, hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return match, nil
}
