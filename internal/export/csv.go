// Package export writes records in spreadsheet-friendly formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"gestaofinanceira/internal/models"
	"gestaofinanceira/internal/money"
)

// utf8BOM makes spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// Filename is the suggested download name.
const Filename = "registros_financeiros.csv"

// Header is the first row of every records CSV.
var Header = []string{"Data", "Descrição", "Categoria", "Tipo", "Valor"}

// WriteRecordsCSV writes records as semicolon separated rows. Records must
// have their Category loaded.
func WriteRecordsCSV(w io.Writer, records []models.Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range records {
		if err := cw.Write(recordRow(&records[i])); err != nil {
			return fmt.Errorf("write record %s: %w", records[i].ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func recordRow(r *models.Record) []string {
	var categoryName string
	if r.Category != nil {
		categoryName = r.Category.Name
	}
	return []string{
		r.Date.Format("02/01/2006"),
		r.DescriptionText(),
		categoryName,
		r.Kind().Label(),
		money.FormatComma(r.Amount),
	}
}
