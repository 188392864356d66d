// Package excel implementa el export a planilla de los listados: una función
// pura que transforma los registros en memoria en un workbook descargable.
// Sin estado y sin red; exporta lo que la tabla muestra, no la colección
// remota completa.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/invorya/erp-admin-gateway/internal/erp"
)

// Export escribe un workbook con una hoja: encabezados en la fila 1 y un
// registro por fila en el orden de columns. Valores ausentes quedan en blanco.
func Export(w io.Writer, sheet string, columns []string, rows []erp.Record) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if len(columns) == 0 {
		return fmt.Errorf("excel: sin columnas para exportar")
	}

	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("excel: renombrar hoja: %w", err)
		}
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: escribir encabezado: %w", err)
	}

	for i, rec := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: celda de la fila %d: %w", i+2, err)
		}
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = cellValue(rec[c])
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("excel: escribir fila %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir workbook: %w", err)
	}
	return nil
}

// cellValue normaliza el valor JSON para la celda: números y booleanos pasan
// nativos, estructuras anidadas se aplanan a texto.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string, bool, float64, int, int64:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
