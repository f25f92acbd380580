package audit

import (
	"encoding/json"
	"time"

	"tubos/internal/models"
	"tubos/internal/store"
)

// Action names, matching the historial records the dashboards filter on.
const (
	AccionLogin           = "login"
	AccionActualizarTubo  = "actualizar_tubo"
	AccionCambiarPassword = "cambiar_password"
	AccionCrearUsuario    = "crear_usuario"
	AccionExportarExcel   = "exportar_excel"
	AccionImportarExcel   = "importar_excel"
)

// RecentLimit caps how many entries Recent returns.
const RecentLimit = 100

// Append records one action on the document. Every mutating operation calls
// this exactly once, inside the same Mutate that applies the change.
func Append(doc *store.Document, usuario, accion, descripcion string, datos json.RawMessage) {
	doc.Historial = append(doc.Historial, models.AuditEntry{
		Fecha:       time.Now().UTC().Format(time.RFC3339),
		Usuario:     usuario,
		Accion:      accion,
		Descripcion: descripcion,
		Datos:       datos,
	})
}

// Recent returns up to the last RecentLimit entries, newest first. The stored
// order is left untouched.
func Recent(doc *store.Document) []models.AuditEntry {
	h := doc.Historial
	if len(h) > RecentLimit {
		h = h[len(h)-RecentLimit:]
	}
	out := make([]models.AuditEntry, len(h))
	for i, e := range h {
		out[len(h)-1-i] = e
	}
	return out
}
