package rendezvous

import (
	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[RendezVous]{
	Name:    "rendez_vous",
	Columns: []string{"date_rendez_vous", "motif", "id_patient", "id_medecin"},
	OrderBy: "date_rendez_vous DESC",
	Scan: func(row pgx.Row) (*RendezVous, error) {
		var r RendezVous
		err := row.Scan(&r.ID, &r.DateRendezVous, &r.Motif, &r.IDPatient, &r.IDMedecin)
		return &r, err
	},
	Values: func(r *RendezVous) []interface{} {
		return []interface{}{r.DateRendezVous, r.Motif, r.IDPatient, r.IDMedecin}
	},
	SetID: func(r *RendezVous, id int64) { r.ID = id },
}

func NewRendezVousRepoPG(q db.Querier) *crud.PG[RendezVous] {
	return crud.NewPG(q, table)
}
