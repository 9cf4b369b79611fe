package medecin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

var table = crud.Table[Medecin]{
	Name:    "medecin",
	Columns: []string{"nom", "prenom", "specialite", "telephone", "email"},
	OrderBy: "nom, prenom",
	Scan: func(row pgx.Row) (*Medecin, error) {
		var m Medecin
		err := row.Scan(&m.ID, &m.Nom, &m.Prenom, &m.Specialite, &m.Telephone, &m.Email)
		return &m, err
	},
	Values: func(m *Medecin) []interface{} {
		return []interface{}{m.Nom, m.Prenom, m.Specialite, m.Telephone, m.Email}
	},
	SetID: func(m *Medecin, id int64) { m.ID = id },
}

type medecinRepoPG struct {
	*crud.PG[Medecin]
	q db.Querier
}

func NewMedecinRepoPG(q db.Querier) Repository {
	return &medecinRepoPG{PG: crud.NewPG(q, table), q: q}
}

func (r *medecinRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

func (r *medecinRepoPG) FindBySpecialite(ctx context.Context, specialite string) ([]*Medecin, error) {
	return r.FindWhere(ctx, "specialite", specialite)
}

func (r *medecinRepoPG) Patients(ctx context.Context, id int64) ([]*PatientSuivi, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT p.id, p.nom, p.prenom, p.date_naissance, p.sexe, p.telephone, p.email
		FROM patient p
		INNER JOIN phase_evaluation pe ON pe.id_patient = p.id
		WHERE pe.id_medecin = $1
		ORDER BY p.nom, p.prenom`, id)
	if err != nil {
		return nil, fmt.Errorf("list patients of medecin %d: %w", id, err)
	}
	return crud.Collect(rows, func(row pgx.Row) (*PatientSuivi, error) {
		var p PatientSuivi
		err := row.Scan(&p.ID, &p.Nom, &p.Prenom, &p.DateNaissance, &p.Sexe, &p.Telephone, &p.Email)
		return &p, err
	})
}

func (r *medecinRepoPG) Agenda(ctx context.Context, id int64, from, to time.Time) ([]*Rendezvous, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT rdv.id, rdv.date_rendez_vous, rdv.motif, rdv.id_patient, p.nom, p.prenom
		FROM rendez_vous rdv
		INNER JOIN patient p ON rdv.id_patient = p.id
		WHERE rdv.id_medecin = $1 AND rdv.date_rendez_vous >= $2 AND rdv.date_rendez_vous < $3
		ORDER BY rdv.date_rendez_vous`, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("agenda of medecin %d: %w", id, err)
	}
	return crud.Collect(rows, func(row pgx.Row) (*Rendezvous, error) {
		var rv Rendezvous
		err := row.Scan(&rv.ID, &rv.DateRendezVous, &rv.Motif, &rv.IDPatient, &rv.PatientNom, &rv.PatientPrenom)
		return &rv, err
	})
}

func (r *medecinRepoPG) Statistiques(ctx context.Context, id int64) (*Statistiques, error) {
	var s Statistiques
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT id_patient) FROM phase_evaluation WHERE id_medecin = $1),
			(SELECT COUNT(*) FROM incident WHERE id_medecin = $1),
			(SELECT COUNT(*) FROM suivi_reglage WHERE id_medecin = $1)`, id,
	).Scan(&s.Patients, &s.Incidents, &s.Reglages)
	if err != nil {
		return nil, fmt.Errorf("statistics of medecin %d: %w", id, err)
	}
	return &s, nil
}
