package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"tubos/internal/audit"
	"tubos/internal/auth"
	"tubos/internal/models"
	"tubos/internal/store"
)

func handleListTubos(w http.ResponseWriter, r *http.Request) {
	doc := appStore.Snapshot()
	tubos := doc.Tubos
	if tubos == nil {
		tubos = []models.Tubo{}
	}
	jsonResp(w, tubos)
}

// updateTuboRequest uses pointer fields so absent JSON keys are retained on
// merge. The id is never mergeable.
type updateTuboRequest struct {
	Nombre   *string `json:"nombre"`
	Almacen  *int    `json:"almacen"`
	Enviados *int    `json:"enviados"`
	Fallas   *int    `json:"fallas"`
}

func handleUpdateTubo(w http.ResponseWriter, r *http.Request, idStr string) {
	identity, ok := requireAdmin(w, r, "editar")
	if !ok {
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		jsonErr(w, "Tubo no encontrado", 404)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonErr(w, "Cuerpo de la petición inválido", 400)
		return
	}
	var req updateTuboRequest
	if err := json.Unmarshal(body, &req); err != nil {
		jsonErr(w, "Cuerpo de la petición inválido", 400)
		return
	}

	var updated models.Tubo
	err = appStore.Mutate(func(d *store.Document) error {
		i := d.FindTubo(id)
		if i == -1 {
			return auth.ErrNotFound
		}

		t := &d.Tubos[i]
		if req.Nombre != nil {
			t.Nombre = *req.Nombre
		}
		if req.Almacen != nil {
			t.Almacen = *req.Almacen
		}
		if req.Enviados != nil {
			t.Enviados = *req.Enviados
		}
		if req.Fallas != nil {
			t.Fallas = *req.Fallas
		}
		updated = *t

		audit.Append(d, identity.Username, audit.AccionActualizarTubo,
			fmt.Sprintf("Actualizado: %s", t.Nombre), json.RawMessage(body))
		return nil
	})
	if errors.Is(err, auth.ErrNotFound) {
		jsonErr(w, "Tubo no encontrado", 404)
		return
	}
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	broadcast("tubo", "update", updated.ID)
	jsonResp(w, map[string]interface{}{"success": true, "tubo": updated})
}

func handleEstadisticas(w http.ResponseWriter, r *http.Request) {
	doc := appStore.Snapshot()

	var stats models.Estadisticas
	for _, t := range doc.Tubos {
		stats.TotalAlmacen += t.Almacen
		stats.TotalEnviados += t.Enviados
		stats.TotalFallas += t.Fallas
	}
	stats.TotalTipos = len(doc.Tubos)
	stats.TotalDisponible = stats.TotalAlmacen - stats.TotalFallas

	jsonResp(w, stats)
}
