package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session datos de la sesión del cliente: token más el rol/estado vistos en el último login o resync.
type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Username string `json:"username"`
}

// IsAdmin indica si la sesión pertenece a un administrador.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == "admin" }

// SessionStore persiste la sesión en un archivo JSON legible solo por el usuario.
type SessionStore struct {
	path string
}

// NewSessionStore crea un store sobre path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath devuelve ~/.smartsignal/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("session: directorio home: %w", err)
	}
	return filepath.Join(home, ".smartsignal", "session.json"), nil
}

// Path ruta del archivo de sesión.
func (s *SessionStore) Path() string { return s.path }

// Load lee la sesión guardada. Devuelve (nil, nil) si no hay ninguna.
func (s *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: leer %s: %w", s.path, err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session: archivo corrupto %s: %w", s.path, err)
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save reemplaza la sesión guardada de forma atómica (archivo temporal + rename).
func (s *SessionStore) Save(sess *Session) error {
	if sess == nil {
		return s.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: crear directorio: %w", err)
	}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session: archivo temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: escribir: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("session: permisos: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("session: guardar: %w", err)
	}
	return nil
}

// Clear borra la sesión guardada. No falla si no existe.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: borrar: %w", err)
	}
	return nil
}
