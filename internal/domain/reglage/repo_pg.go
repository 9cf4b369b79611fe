package reglage

import (
	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Reglage]{
	Name: "suivi_reglage",
	Columns: []string{"date_reglage", "type_reglage", "description_reglage", "resultat_reglage",
		"id_patient", "id_implant", "id_processeur", "id_medecin"},
	OrderBy: "date_reglage DESC, id DESC",
	Scan: func(row pgx.Row) (*Reglage, error) {
		var r Reglage
		err := row.Scan(&r.ID, &r.DateReglage, &r.TypeReglage, &r.DescriptionReglage, &r.ResultatReglage,
			&r.IDPatient, &r.IDImplant, &r.IDProcesseur, &r.IDMedecin)
		return &r, err
	},
	Values: func(r *Reglage) []interface{} {
		return []interface{}{r.DateReglage, r.TypeReglage, r.DescriptionReglage, r.ResultatReglage,
			r.IDPatient, r.IDImplant, r.IDProcesseur, r.IDMedecin}
	},
	SetID: func(r *Reglage, id int64) { r.ID = id },
}

// NewReglageRepoPG also serves the réglages of one implant or processor
// through FindWhere.
func NewReglageRepoPG(q db.Querier) *crud.PG[Reglage] {
	return crud.NewPG(q, table)
}
