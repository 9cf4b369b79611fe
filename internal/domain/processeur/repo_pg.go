package processeur

import (
	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Processeur]{
	Name:    "processeur",
	Columns: []string{"type_processeur", "date_installation", "batterie"},
	OrderBy: "date_installation DESC",
	Scan: func(row pgx.Row) (*Processeur, error) {
		var p Processeur
		err := row.Scan(&p.ID, &p.TypeProcesseur, &p.DateInstallation, &p.Batterie)
		return &p, err
	},
	Values: func(p *Processeur) []interface{} {
		return []interface{}{p.TypeProcesseur, p.DateInstallation, p.Batterie}
	},
	SetID: func(p *Processeur, id int64) { p.ID = id },
}

func NewProcesseurRepoPG(q db.Querier) *crud.PG[Processeur] {
	return crud.NewPG(q, table)
}
