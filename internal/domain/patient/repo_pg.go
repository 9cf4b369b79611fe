package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Patient]{
	Name: "patient",
	Columns: []string{"nom", "prenom", "date_naissance", "sexe", "adresse", "telephone",
		"email", "date_implantation", "id_implant"},
	OrderBy: "nom, prenom",
	Scan: func(row pgx.Row) (*Patient, error) {
		var p Patient
		err := row.Scan(p.fields()...)
		return &p, err
	},
	Values: func(p *Patient) []interface{} {
		return []interface{}{p.Nom, p.Prenom, p.DateNaissance, p.Sexe, p.Adresse, p.Telephone,
			p.Email, p.DateImplantation, p.IDImplant}
	},
	SetID: func(p *Patient, id int64) { p.ID = id },
}

func (p *Patient) fields() []interface{} {
	return []interface{}{&p.ID, &p.Nom, &p.Prenom, &p.DateNaissance, &p.Sexe, &p.Adresse,
		&p.Telephone, &p.Email, &p.DateImplantation, &p.IDImplant}
}

const patientCols = `p.id, p.nom, p.prenom, p.date_naissance, p.sexe, p.adresse, p.telephone,
	p.email, p.date_implantation, p.id_implant`

// patientRepoPG uses the generic writes and replaces the reads with joins.
type patientRepoPG struct {
	*crud.PG[Patient]
	q db.Querier
}

func NewPatientRepoPG(q db.Querier) Repository {
	return &patientRepoPG{PG: crud.NewPG(q, table), q: q}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

func scanWithImplant(row pgx.Row) (*Patient, error) {
	var p Patient
	if err := row.Scan(append(p.fields(), &p.TypeImplant, &p.DatePose)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) FindAll(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+`, i.type_implant, i.date_pose
		FROM patient p
		LEFT JOIN implant i ON p.id_implant = i.id
		ORDER BY p.nom, p.prenom`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return crud.Collect(rows, scanWithImplant)
}

func (r *patientRepoPG) Search(ctx context.Context, term string) ([]*Patient, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+`, i.type_implant, i.date_pose
		FROM patient p
		LEFT JOIN implant i ON p.id_implant = i.id
		WHERE p.nom ILIKE $1 OR p.prenom ILIKE $1 OR p.email ILIKE $1
		ORDER BY p.nom, p.prenom`, pattern)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return crud.Collect(rows, scanWithImplant)
}

func (r *patientRepoPG) FindByID(ctx context.Context, id int64) (*Patient, error) {
	var p Patient
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+patientCols+`, i.type_implant, i.date_pose, i.nombre_electrodes,
			pr.type_processeur, pr.batterie
		FROM patient p
		LEFT JOIN implant i ON p.id_implant = i.id
		LEFT JOIN processeur pr ON i.id_processeur = pr.id
		WHERE p.id = $1`, id,
	).Scan(append(p.fields(), &p.TypeImplant, &p.DatePose, &p.NombreElectrodes,
		&p.TypeProcesseur, &p.Batterie)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &crud.NotFoundError{Entity: "Patient", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
