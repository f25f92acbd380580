package models

import "encoding/json"

// Roles. The wire format keeps the original Spanish role names.
const (
	RolAdmin   = "admin"
	RolCliente = "cliente"
)

// ValidRol reports whether rol is one of the two known roles.
func ValidRol(rol string) bool {
	return rol == RolAdmin || rol == RolCliente
}

// User is an account record. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Rol           string `json:"rol"`
	FechaCreacion string `json:"fechaCreacion"`
}

// UserSummary is a User with the password hash stripped, safe to return from
// the API.
type UserSummary struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Rol           string `json:"rol"`
	FechaCreacion string `json:"fechaCreacion"`
}

// Summary returns the API-safe view of the user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Rol: u.Rol, FechaCreacion: u.FechaCreacion}
}

// Tubo is one pipe stock record.
type Tubo struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Almacen  int    `json:"almacen"`
	Enviados int    `json:"enviados"`
	Fallas   int    `json:"fallas"`
}

// Disponible is the derived available quantity. It is computed on demand and
// never persisted.
func (t Tubo) Disponible() int {
	return t.Almacen - t.Fallas
}

// AuditEntry is one record in the historial. Datos carries the raw request
// payload for mutations that have one.
type AuditEntry struct {
	Fecha       string          `json:"fecha"`
	Usuario     string          `json:"usuario"`
	Accion      string          `json:"accion"`
	Descripcion string          `json:"descripcion"`
	Datos       json.RawMessage `json:"datos,omitempty"`
}

// Estadisticas aggregates the whole catalog.
type Estadisticas struct {
	TotalAlmacen    int `json:"totalAlmacen"`
	TotalEnviados   int `json:"totalEnviados"`
	TotalFallas     int `json:"totalFallas"`
	TotalTipos      int `json:"totalTipos"`
	TotalDisponible int `json:"totalDisponible"`
}
