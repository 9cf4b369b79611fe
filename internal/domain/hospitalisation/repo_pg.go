package hospitalisation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Hospitalisation]{
	Name: "hospitalisation",
	Columns: []string{"date_debut_hospitalisation", "date_fin_hospitalisation", "motif_hospitalisation",
		"id_patient", "id_medecin"},
	OrderBy: "date_debut_hospitalisation DESC",
	Scan: func(row pgx.Row) (*Hospitalisation, error) {
		var h Hospitalisation
		err := row.Scan(&h.ID, &h.DateDebutHospitalisation, &h.DateFinHospitalisation,
			&h.MotifHospitalisation, &h.IDPatient, &h.IDMedecin)
		return &h, err
	},
	Values: func(h *Hospitalisation) []interface{} {
		return []interface{}{h.DateDebutHospitalisation, h.DateFinHospitalisation, h.MotifHospitalisation,
			h.IDPatient, h.IDMedecin}
	},
	SetID: func(h *Hospitalisation, id int64) { h.ID = id },
}

func NewHospitalisationRepoPG(q db.Querier) *crud.PG[Hospitalisation] {
	return crud.NewPG(q, table)
}

var poseTable = crud.Table[PoseImplant]{
	Name: "pose_implant",
	Columns: []string{"date_operation", "duree_operation", "details_pose", "id_hospitalisation",
		"id_implant", "id_medecin"},
	OrderBy: "date_operation DESC",
	Scan: func(row pgx.Row) (*PoseImplant, error) {
		var p PoseImplant
		err := row.Scan(p.fields()...)
		return &p, err
	},
	Values: func(p *PoseImplant) []interface{} {
		return []interface{}{p.DateOperation, p.DureeOperation, p.DetailsPose, p.IDHospitalisation,
			p.IDImplant, p.IDMedecin}
	},
	SetID: func(p *PoseImplant, id int64) { p.ID = id },
}

func (p *PoseImplant) fields() []interface{} {
	return []interface{}{&p.ID, &p.DateOperation, &p.DureeOperation, &p.DetailsPose,
		&p.IDHospitalisation, &p.IDImplant, &p.IDMedecin}
}

const poseSelect = `
	SELECT p.id, p.date_operation, p.duree_operation, p.details_pose, p.id_hospitalisation,
		p.id_implant, p.id_medecin, m.nom, m.prenom
	FROM pose_implant p
	LEFT JOIN medecin m ON p.id_medecin = m.id`

// poseRepoPG reads surgeries with the operating doctor's name.
type poseRepoPG struct {
	*crud.PG[PoseImplant]
	q db.Querier
}

func NewPoseRepoPG(q db.Querier) crud.Repository[PoseImplant] {
	return &poseRepoPG{PG: crud.NewPG(q, poseTable), q: q}
}

func scanPose(row pgx.Row) (*PoseImplant, error) {
	var p PoseImplant
	if err := row.Scan(append(p.fields(), &p.MedecinNom, &p.MedecinPrenom)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *poseRepoPG) FindAll(ctx context.Context) ([]*PoseImplant, error) {
	rows, err := db.Conn(ctx, r.q).Query(ctx, poseSelect+` ORDER BY p.date_operation DESC`)
	if err != nil {
		return nil, fmt.Errorf("list poses implant: %w", err)
	}
	return crud.Collect(rows, scanPose)
}

func (r *poseRepoPG) FindByID(ctx context.Context, id int64) (*PoseImplant, error) {
	p, err := scanPose(db.Conn(ctx, r.q).QueryRow(ctx, poseSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, crud.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pose implant %d: %w", id, err)
	}
	return p, nil
}
