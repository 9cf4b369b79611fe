package implant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Implant]{
	Name:    "implant",
	Columns: []string{"type_implant", "date_pose", "nombre_electrodes", "id_processeur"},
	OrderBy: "date_pose DESC",
	Scan: func(row pgx.Row) (*Implant, error) {
		var i Implant
		err := row.Scan(i.fields()...)
		return &i, err
	},
	Values: func(i *Implant) []interface{} {
		return []interface{}{i.TypeImplant, i.DatePose, i.NombreElectrodes, i.IDProcesseur}
	},
	SetID: func(i *Implant, id int64) { i.ID = id },
}

func (i *Implant) fields() []interface{} {
	return []interface{}{&i.ID, &i.TypeImplant, &i.DatePose, &i.NombreElectrodes, &i.IDProcesseur}
}

// An implant is normally carried by one patient; the lateral join keeps one
// row per implant if the data says otherwise.
const implantSelect = `
	SELECT i.id, i.type_implant, i.date_pose, i.nombre_electrodes, i.id_processeur, p.nom, p.prenom
	FROM implant i
	LEFT JOIN LATERAL (
		SELECT nom, prenom FROM patient WHERE id_implant = i.id ORDER BY id LIMIT 1
	) p ON TRUE`

type implantRepoPG struct {
	*crud.PG[Implant]
	q db.Querier
}

func NewImplantRepoPG(q db.Querier) Repository {
	return &implantRepoPG{PG: crud.NewPG(q, table), q: q}
}

func (r *implantRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

func scanWithPatient(row pgx.Row) (*Implant, error) {
	var i Implant
	if err := row.Scan(append(i.fields(), &i.PatientNom, &i.PatientPrenom)...); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *implantRepoPG) FindAll(ctx context.Context) ([]*Implant, error) {
	rows, err := r.conn(ctx).Query(ctx, implantSelect+` ORDER BY i.date_pose DESC`)
	if err != nil {
		return nil, fmt.Errorf("list implants: %w", err)
	}
	return crud.Collect(rows, scanWithPatient)
}

func (r *implantRepoPG) FindByID(ctx context.Context, id int64) (*Implant, error) {
	i, err := scanWithPatient(r.conn(ctx).QueryRow(ctx, implantSelect+` WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &crud.NotFoundError{Entity: "Implant", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get implant %d: %w", id, err)
	}
	return i, nil
}

func (r *implantRepoPG) Counts(ctx context.Context, id int64) (int, int, error) {
	var reglages, incidents int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM suivi_reglage WHERE id_implant = $1),
			(SELECT COUNT(*) FROM incident WHERE id_implant = $1)`, id,
	).Scan(&reglages, &incidents)
	if err != nil {
		return 0, 0, fmt.Errorf("count history of implant %d: %w", id, err)
	}
	return reglages, incidents, nil
}
