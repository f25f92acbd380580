package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tubos/internal/audit"
	"tubos/internal/excel"
	"tubos/internal/models"
	"tubos/internal/store"
)

const maxImportSize = 10 << 20 // 10 MB

func handleExportarExcel(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireAdmin(w, r, "exportar")
	if !ok {
		return
	}

	doc := appStore.Snapshot()
	f, err := excel.BuildInventario(doc.Tubos)
	if err != nil {
		jsonErr(w, "Error al exportar Excel: "+err.Error(), 500)
		return
	}
	defer f.Close()

	// Render fully before touching the response so a build failure can still
	// report a clean 500.
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		jsonErr(w, "Error al exportar Excel: "+err.Error(), 500)
		return
	}

	err = appStore.Mutate(func(d *store.Document) error {
		audit.Append(d, identity.Username, audit.AccionExportarExcel,
			"Exportación completa de datos a Excel", nil)
		return nil
	})
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s", excel.FileName(time.Now())))
	w.Write(buf.Bytes())
}

func handleImportarExcel(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireAdmin(w, r, "importar")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		jsonErr(w, "No se envió archivo", 400)
		return
	}
	// Discard the uploaded temp artifact whatever happens below.
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("archivo")
	if err != nil {
		jsonErr(w, "No se envió archivo", 400)
		return
	}
	defer file.Close()

	rows, err := excel.ParseInventario(file)
	if errors.Is(err, excel.ErrNoInventarioSheet) {
		jsonErr(w, err.Error(), 400)
		return
	}
	if err != nil {
		jsonErr(w, "Error al importar Excel", 500)
		return
	}

	procesados := 0
	err = appStore.Mutate(func(d *store.Document) error {
		for _, row := range rows {
			if i := d.FindTuboByNombre(row.Nombre); i != -1 {
				d.Tubos[i].Almacen = row.Almacen
				d.Tubos[i].Enviados = row.Enviados
				d.Tubos[i].Fallas = row.Fallas
			} else {
				d.Tubos = append(d.Tubos, models.Tubo{
					ID:       d.NextTuboID(),
					Nombre:   row.Nombre,
					Almacen:  row.Almacen,
					Enviados: row.Enviados,
					Fallas:   row.Fallas,
				})
			}
			procesados++
		}
		audit.Append(d, identity.Username, audit.AccionImportarExcel,
			fmt.Sprintf("Importación desde Excel: %d registros procesados", procesados), nil)
		return nil
	})
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	broadcast("tubo", "import", procesados)
	jsonResp(w, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Importación completada: %d registros procesados", procesados),
	})
}
