package suivi

import (
	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Suivi]{
	Name:    "suivi_post_implantation",
	Columns: []string{"date_debut_suivi", "date_fin_suivi", "resultat_suivi", "id_patient", "id_medecin"},
	OrderBy: "date_debut_suivi DESC",
	Scan: func(row pgx.Row) (*Suivi, error) {
		var s Suivi
		err := row.Scan(&s.ID, &s.DateDebutSuivi, &s.DateFinSuivi, &s.ResultatSuivi, &s.IDPatient, &s.IDMedecin)
		return &s, err
	},
	Values: func(s *Suivi) []interface{} {
		return []interface{}{s.DateDebutSuivi, s.DateFinSuivi, s.ResultatSuivi, s.IDPatient, s.IDMedecin}
	},
	SetID: func(s *Suivi, id int64) { s.ID = id },
}

var etapeTable = crud.Table[Etape]{
	Name:    "etape_suivi",
	Columns: []string{"date_etape", "type_etape", "resultat_etape", "id_suivi_post", "id_medecin"},
	OrderBy: "date_etape DESC",
	Scan: func(row pgx.Row) (*Etape, error) {
		var e Etape
		err := row.Scan(&e.ID, &e.DateEtape, &e.TypeEtape, &e.ResultatEtape, &e.IDSuiviPost, &e.IDMedecin)
		return &e, err
	},
	Values: func(e *Etape) []interface{} {
		return []interface{}{e.DateEtape, e.TypeEtape, e.ResultatEtape, e.IDSuiviPost, e.IDMedecin}
	},
	SetID: func(e *Etape, id int64) { e.ID = id },
}

func NewSuiviRepoPG(q db.Querier) *crud.PG[Suivi] {
	return crud.NewPG(q, table)
}

func NewEtapeRepoPG(q db.Querier) *crud.PG[Etape] {
	return crud.NewPG(q, etapeTable)
}
