package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tubos/internal/audit"
	"tubos/internal/excel"
	"tubos/internal/testutil"
)

// buildWorkbook makes an in-memory xlsx with the given sheet and rows, each
// row laid out as the import expects (A=id, B=nombre, C=almacen, ...).
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("Failed to rename sheet: %v", err)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, v)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExportarExcel_BuildsInventarioSheet(t *testing.T) {
	setupTest(t)

	w := doRequest(t, "GET", "/api/exportar-excel", testutil.AdminToken(t), nil)
	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "inventario_tubos_") {
		t.Errorf("Unexpected content disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Exported bytes are not a workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(excel.SheetInventario)
	if err != nil {
		t.Fatalf("Missing Inventario sheet: %v", err)
	}
	if len(rows) != 11 {
		t.Fatalf("Expected header + 10 rows, got %d", len(rows))
	}
	if rows[0][1] != "Nombre del Tubo" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
	if rows[1][1] != `Tubo PVC 4"` {
		t.Errorf("Unexpected first data row: %v", rows[1])
	}
	// Disponible = almacen - fallas, computed.
	if rows[1][5] != "145" {
		t.Errorf("Expected disponible 145, got %v", rows[1][5])
	}

	doc := appStore.Snapshot()
	last := doc.Historial[len(doc.Historial)-1]
	if last.Accion != audit.AccionExportarExcel {
		t.Errorf("Expected accion exportar_excel, got %s", last.Accion)
	}
}

func TestExportarExcel_ClienteForbidden(t *testing.T) {
	setupTest(t)

	w := doRequest(t, "GET", "/api/exportar-excel", testutil.ClienteToken(t), nil)
	if w.Code != 403 {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}

func TestImportarExcel_RoundTrip(t *testing.T) {
	setupTest(t)
	token := testutil.AdminToken(t)

	export := doRequest(t, "GET", "/api/exportar-excel", token, nil)
	if export.Code != 200 {
		t.Fatalf("Export failed: %d", export.Code)
	}

	before := appStore.Snapshot()

	body, ct := multipartFile(t, "archivo", "inventario.xlsx", export.Body.Bytes())
	w := doRequestCT(t, "POST", "/api/importar-excel", token, ct, body)
	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Message, "10 registros procesados") {
		t.Errorf("Expected 10 processed records, got message %q", resp.Message)
	}

	after := appStore.Snapshot()
	if len(after.Tubos) != len(before.Tubos) {
		t.Fatalf("Round trip changed item count: %d -> %d", len(before.Tubos), len(after.Tubos))
	}
	for _, orig := range before.Tubos {
		i := after.FindTuboByNombre(orig.Nombre)
		if i == -1 {
			t.Errorf("Item %q lost in round trip", orig.Nombre)
			continue
		}
		got := after.Tubos[i]
		if got.Almacen != orig.Almacen || got.Enviados != orig.Enviados || got.Fallas != orig.Fallas {
			t.Errorf("Item %q changed in round trip: %+v -> %+v", orig.Nombre, orig, got)
		}
	}

	last := after.Historial[len(after.Historial)-1]
	if last.Accion != audit.AccionImportarExcel {
		t.Errorf("Expected accion importar_excel, got %s", last.Accion)
	}
}

func TestImportarExcel_CreatesNewItemWithNextID(t *testing.T) {
	setupTest(t)

	content := buildWorkbook(t, excel.SheetInventario, [][]interface{}{
		{"ID", "Nombre del Tubo", "En Almacén", "Enviados", "Fallas", "Disponible"},
		{"", "New Pipe", 10},
	})
	body, ct := multipartFile(t, "archivo", "nuevo.xlsx", content)

	w := doRequestCT(t, "POST", "/api/importar-excel", testutil.AdminToken(t), ct, body)
	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	doc := appStore.Snapshot()
	i := doc.FindTuboByNombre("New Pipe")
	if i == -1 {
		t.Fatal("Imported item not in store")
	}
	tubo := doc.Tubos[i]
	if tubo.ID != 11 {
		t.Errorf("Expected id 11 (max existing + 1), got %d", tubo.ID)
	}
	if tubo.Almacen != 10 || tubo.Enviados != 0 || tubo.Fallas != 0 {
		t.Errorf("Expected {10,0,0}, got %+v", tubo)
	}
}

func TestImportarExcel_OverwritesMatchedName(t *testing.T) {
	setupTest(t)

	content := buildWorkbook(t, excel.SheetInventario, [][]interface{}{
		{"ID", "Nombre del Tubo", "En Almacén", "Enviados", "Fallas", "Disponible"},
		{1, `Tubo PVC 4"`, 300, 75, 8},
	})
	body, ct := multipartFile(t, "archivo", "update.xlsx", content)

	w := doRequestCT(t, "POST", "/api/importar-excel", testutil.AdminToken(t), ct, body)
	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	doc := appStore.Snapshot()
	tubo := doc.Tubos[doc.FindTubo(1)]
	if tubo.Almacen != 300 || tubo.Enviados != 75 || tubo.Fallas != 8 {
		t.Errorf("Expected overwrite {300,75,8}, got %+v", tubo)
	}
	if len(doc.Tubos) != 10 {
		t.Errorf("Matched import must not add items, got %d", len(doc.Tubos))
	}
}

func TestImportarExcel_SkipsRowsMissingNameOrStock(t *testing.T) {
	setupTest(t)

	content := buildWorkbook(t, excel.SheetInventario, [][]interface{}{
		{"ID", "Nombre del Tubo", "En Almacén", "Enviados", "Fallas", "Disponible"},
		{"", "", 10},
		{"", "Sin Stock"},
		{"", "Valido", 5},
	})
	body, ct := multipartFile(t, "archivo", "mixto.xlsx", content)

	w := doRequestCT(t, "POST", "/api/importar-excel", testutil.AdminToken(t), ct, body)
	if w.Code != 200 {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp.Message, "1 registros procesados") {
		t.Errorf("Expected 1 processed record, got message %q", resp.Message)
	}
}

func TestImportarExcel_NoFile(t *testing.T) {
	setupTest(t)

	w := doRequest(t, "POST", "/api/importar-excel", testutil.AdminToken(t),
		strings.NewReader("{}"))
	if w.Code != 400 {
		t.Errorf("Expected status 400 without file, got %d", w.Code)
	}
}

func TestImportarExcel_MissingInventarioSheet(t *testing.T) {
	setupTest(t)

	content := buildWorkbook(t, "Hoja1", [][]interface{}{
		{"ID", "Nombre del Tubo", "En Almacén"},
		{"", "New Pipe", 10},
	})
	body, ct := multipartFile(t, "archivo", "otra.xlsx", content)

	w := doRequestCT(t, "POST", "/api/importar-excel", testutil.AdminToken(t), ct, body)
	if w.Code != 400 {
		t.Errorf("Expected status 400 for missing sheet, got %d", w.Code)
	}
}

func TestImportarExcel_ClienteForbidden(t *testing.T) {
	setupTest(t)

	content := buildWorkbook(t, excel.SheetInventario, [][]interface{}{
		{"ID", "Nombre del Tubo", "En Almacén"},
	})
	body, ct := multipartFile(t, "archivo", "x.xlsx", content)

	w := doRequestCT(t, "POST", "/api/importar-excel", testutil.ClienteToken(t), ct, body)
	if w.Code != 403 {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}
