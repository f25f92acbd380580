package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tubos/internal/auth"
	"tubos/internal/models"
)

// ErrCorruptStore is returned when the store file exists but does not hold a
// valid JSON document.
var ErrCorruptStore = errors.New("store file is not valid JSON")

// Document is the whole persisted state. Every mutation round-trips the full
// document through disk.
type Document struct {
	Users     []models.User       `json:"users"`
	Tubos     []models.Tubo       `json:"tubos"`
	Historial []models.AuditEntry `json:"historial"`
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Users:     append([]models.User(nil), d.Users...),
		Tubos:     append([]models.Tubo(nil), d.Tubos...),
		Historial: append([]models.AuditEntry(nil), d.Historial...),
	}
	for i, e := range c.Historial {
		if e.Datos != nil {
			c.Historial[i].Datos = append(json.RawMessage(nil), e.Datos...)
		}
	}
	return c
}

// NextTuboID returns max(existing ids)+1, never reusing an id.
func (d *Document) NextTuboID() int {
	max := 0
	for _, t := range d.Tubos {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// NextUserID returns max(existing ids)+1.
func (d *Document) NextUserID() int {
	max := 0
	for _, u := range d.Users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// FindTubo returns the index of the tubo with the given id, or -1.
func (d *Document) FindTubo(id int) int {
	for i, t := range d.Tubos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FindTuboByNombre returns the index of the tubo with that name, or -1.
func (d *Document) FindTuboByNombre(nombre string) int {
	for i, t := range d.Tubos {
		if t.Nombre == nombre {
			return i
		}
	}
	return -1
}

// FindUser returns the index of the user with that username, or -1.
func (d *Document) FindUser(username string) int {
	for i, u := range d.Users {
		if u.Username == username {
			return i
		}
	}
	return -1
}

// FileStore persists a Document as one JSON file. A mutex serializes every
// load-mutate-save sequence so concurrent writers cannot lose updates.
type FileStore struct {
	mu   sync.Mutex
	path string
	doc  *Document
}

// Open loads the store file, bootstrapping a seeded document when the file
// does not exist yet.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		doc, seedErr := seedDocument()
		if seedErr != nil {
			return nil, seedErr
		}
		s.doc = doc
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	s.doc = &doc
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current document for read-only use.
func (s *FileStore) Snapshot() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Mutate applies fn to a copy of the document and persists the result. The
// in-memory document is only swapped after the file write succeeds, so a
// failed save leaves memory and disk consistent. An error from fn aborts the
// mutation without touching anything.
func (s *FileStore) Mutate(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// save writes the document to a temp file in the same directory and renames
// it over the store file, so readers never see a partial write.
func (s *FileStore) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tubos-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// seedDocument builds the bootstrap state: the two demo accounts and the
// starter catalog, with an empty historial.
func seedDocument() (*Document, error) {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return nil, err
	}
	clienteHash, err := auth.HashPassword("cliente123")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	return &Document{
		Users: []models.User{
			{ID: 1, Username: "admin", Password: adminHash, Rol: models.RolAdmin, FechaCreacion: now},
			{ID: 2, Username: "cliente", Password: clienteHash, Rol: models.RolCliente, FechaCreacion: now},
		},
		Tubos: []models.Tubo{
			{ID: 1, Nombre: `Tubo PVC 4"`, Almacen: 150, Enviados: 50, Fallas: 5},
			{ID: 2, Nombre: `Tubo PVC 6"`, Almacen: 100, Enviados: 30, Fallas: 2},
			{ID: 3, Nombre: `Tubo PVC 8"`, Almacen: 80, Enviados: 20, Fallas: 1},
			{ID: 4, Nombre: `Tubo Concreto 12"`, Almacen: 60, Enviados: 15, Fallas: 0},
			{ID: 5, Nombre: `Tubo Concreto 18"`, Almacen: 40, Enviados: 10, Fallas: 1},
			{ID: 6, Nombre: `Tubo Acero 3"`, Almacen: 200, Enviados: 80, Fallas: 3},
			{ID: 7, Nombre: `Tubo Acero 4"`, Almacen: 180, Enviados: 70, Fallas: 2},
			{ID: 8, Nombre: `Tubo Aluminio 2"`, Almacen: 120, Enviados: 40, Fallas: 1},
			{ID: 9, Nombre: `Tubo Aluminio 3"`, Almacen: 90, Enviados: 25, Fallas: 0},
			{ID: 10, Nombre: `Tubo Fibra 5"`, Almacen: 70, Enviados: 18, Fallas: 2},
		},
		Historial: []models.AuditEntry{},
	}, nil
}
