package incident

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const registrySheet = "Incidents"

var registryHeaders = []string{
	"ID", "Date", "Heure", "Gravité", "Statut", "Patient", "Médecin",
	"Implant", "Processeur", "Description", "Créé le",
}

var registryWidths = []float64{8, 12, 10, 12, 12, 28, 28, 10, 12, 60, 20}

// WriteRegistry writes incidents as an xlsx workbook with one row per
// incident under a frozen header row.
func WriteRegistry(w io.Writer, incidents []*Incident) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registrySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range registryHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(registrySheet, cell, header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(registrySheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(registrySheet, col, col, registryWidths[i]); err != nil {
			return fmt.Errorf("set width %s: %w", col, err)
		}
	}

	for i, inc := range incidents {
		row := i + 2
		values := []interface{}{
			inc.ID,
			inc.DateIncident.String(),
			inc.HeureIncident,
			inc.Gravite,
			inc.Statut,
			fullName(inc.PatientPrenom, inc.PatientNom),
			fullName(inc.MedecinPrenom, inc.MedecinNom),
			optionalID(inc.IDImplant),
			optionalID(inc.IDProcesseur),
			inc.Description,
			formatCreated(inc),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(registrySheet, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(registrySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fullName(prenom, nom *string) string {
	var parts []string
	if prenom != nil && *prenom != "" {
		parts = append(parts, *prenom)
	}
	if nom != nil && *nom != "" {
		parts = append(parts, *nom)
	}
	return strings.Join(parts, " ")
}

func optionalID(id *int64) interface{} {
	if id == nil {
		return ""
	}
	return *id
}

func formatCreated(inc *Incident) string {
	if inc.DateCreation.IsZero() {
		return ""
	}
	return inc.DateCreation.Format("2006-01-02 15:04")
}
