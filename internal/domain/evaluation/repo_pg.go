package evaluation

import (
	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var phaseTable = crud.Table[Phase]{
	Name: "phase_evaluation",
	Columns: []string{"date_debut_evaluation", "date_fin_evaluation", "resultat_evaluation",
		"id_patient", "id_medecin"},
	OrderBy: "date_debut_evaluation DESC",
	Scan: func(row pgx.Row) (*Phase, error) {
		var p Phase
		err := row.Scan(&p.ID, &p.DateDebutEvaluation, &p.DateFinEvaluation, &p.ResultatEvaluation,
			&p.IDPatient, &p.IDMedecin)
		return &p, err
	},
	Values: func(p *Phase) []interface{} {
		return []interface{}{p.DateDebutEvaluation, p.DateFinEvaluation, p.ResultatEvaluation,
			p.IDPatient, p.IDMedecin}
	},
	SetID: func(p *Phase, id int64) { p.ID = id },
}

var etapeTable = crud.Table[Etape]{
	Name:    "etape_evaluation",
	Columns: []string{"date_etape", "type_etape", "resultat_etape", "id_evaluation", "id_medecin"},
	OrderBy: "date_etape DESC",
	Scan: func(row pgx.Row) (*Etape, error) {
		var e Etape
		err := row.Scan(&e.ID, &e.DateEtape, &e.TypeEtape, &e.ResultatEtape, &e.IDEvaluation, &e.IDMedecin)
		return &e, err
	},
	Values: func(e *Etape) []interface{} {
		return []interface{}{e.DateEtape, e.TypeEtape, e.ResultatEtape, e.IDEvaluation, e.IDMedecin}
	},
	SetID: func(e *Etape, id int64) { e.ID = id },
}

func NewPhaseRepoPG(q db.Querier) *crud.PG[Phase] {
	return crud.NewPG(q, phaseTable)
}

func NewEtapeRepoPG(q db.Querier) *crud.PG[Etape] {
	return crud.NewPG(q, etapeTable)
}
