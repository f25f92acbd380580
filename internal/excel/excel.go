package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tubos/internal/models"
)

// SheetInventario is the one sheet both export and import work with.
const SheetInventario = "Inventario"

// ErrNoInventarioSheet is returned when an uploaded workbook has no
// Inventario sheet.
var ErrNoInventarioSheet = errors.New("el archivo no contiene la hoja Inventario")

var headers = []string{"ID", "Nombre del Tubo", "En Almacén", "Enviados", "Fallas", "Disponible"}

// FileName suggests the download name for an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("inventario_tubos_%s.xlsx", t.Format("2006-01-02"))
}

// BuildInventario renders the catalog into a styled Inventario workbook.
// The Disponible column is computed, never read from the records.
func BuildInventario(tubos []models.Tubo) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetInventario); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(SheetInventario, cell, h)
		f.SetCellStyle(SheetInventario, cell, cell, headerStyle)
	}

	for rowIdx, t := range tubos {
		row := rowIdx + 2
		f.SetCellValue(SheetInventario, fmt.Sprintf("A%d", row), t.ID)
		f.SetCellValue(SheetInventario, fmt.Sprintf("B%d", row), t.Nombre)
		f.SetCellValue(SheetInventario, fmt.Sprintf("C%d", row), t.Almacen)
		f.SetCellValue(SheetInventario, fmt.Sprintf("D%d", row), t.Enviados)
		f.SetCellValue(SheetInventario, fmt.Sprintf("E%d", row), t.Fallas)
		f.SetCellValue(SheetInventario, fmt.Sprintf("F%d", row), t.Disponible())
	}

	f.SetColWidth(SheetInventario, "A", "A", 10)
	f.SetColWidth(SheetInventario, "B", "B", 30)
	f.SetColWidth(SheetInventario, "C", "F", 15)

	return f, nil
}

// Row is one usable data row from an imported workbook.
type Row struct {
	Nombre   string
	Almacen  int
	Enviados int
	Fallas   int
}

// ParseInventario reads the Inventario sheet from an uploaded workbook,
// starting at row 2. A row needs a non-empty nombre and a numeric almacen;
// rows missing either are skipped. Missing enviados or fallas default to 0.
func ParseInventario(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(SheetInventario)
	if err != nil || idx < 0 {
		return nil, ErrNoInventarioSheet
	}

	rows, err := f.GetRows(SheetInventario)
	if err != nil {
		return nil, err
	}

	var out []Row
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		nombre := strings.TrimSpace(cell(cells, 1))
		almacen, ok := parseCount(cell(cells, 2))
		if nombre == "" || !ok {
			continue
		}
		enviados, _ := parseCount(cell(cells, 3))
		fallas, _ := parseCount(cell(cells, 4))
		out = append(out, Row{Nombre: nombre, Almacen: almacen, Enviados: enviados, Fallas: fallas})
	}
	return out, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v), true
	}
	return 0, false
}
