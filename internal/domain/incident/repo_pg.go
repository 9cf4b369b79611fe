package incident

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/db"
)

type incidentRepoPG struct{ q db.Querier }

func NewIncidentRepoPG(q db.Querier) Repository {
	return &incidentRepoPG{q: q}
}

func (r *incidentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

const incidentCols = `i.id, i.date_incident, i.heure_incident::text, i.gravite, i.description,
	i.statut, i.id_patient, i.id_implant, i.id_processeur, i.id_medecin, i.date_creation`

func scanIncident(row pgx.Row, extra ...interface{}) (*Incident, error) {
	var inc Incident
	dest := []interface{}{&inc.ID, &inc.DateIncident, &inc.HeureIncident, &inc.Gravite,
		&inc.Description, &inc.Statut, &inc.IDPatient, &inc.IDImplant, &inc.IDProcesseur,
		&inc.IDMedecin, &inc.DateCreation}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &inc, nil
}

func scanPlain(row pgx.Row) (*Incident, error) {
	return scanIncident(row)
}

func scanWithNames(row pgx.Row) (*Incident, error) {
	var pNom, pPrenom, mNom, mPrenom *string
	inc, err := scanIncident(row, &pNom, &pPrenom, &mNom, &mPrenom)
	if err != nil {
		return nil, err
	}
	inc.PatientNom, inc.PatientPrenom = pNom, pPrenom
	inc.MedecinNom, inc.MedecinPrenom = mNom, mPrenom
	return inc, nil
}

const withNames = `SELECT ` + incidentCols + `, p.nom, p.prenom, m.nom, m.prenom
	FROM incident i
	LEFT JOIN patient p ON i.id_patient = p.id
	LEFT JOIN medecin m ON i.id_medecin = m.id`

func (r *incidentRepoPG) Create(ctx context.Context, inc *Incident) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO incident (date_incident, heure_incident, gravite, description, statut,
			id_patient, id_implant, id_processeur, id_medecin)
		VALUES ($1, $2::text::time, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, date_creation`,
		inc.DateIncident, inc.HeureIncident, inc.Gravite, inc.Description, inc.Statut,
		inc.IDPatient, inc.IDImplant, inc.IDProcesseur, inc.IDMedecin,
	).Scan(&inc.ID, &inc.DateCreation)
	if err != nil {
		return fmt.Errorf("insert incident: %w", crud.MapError(err))
	}
	return nil
}

func (r *incidentRepoPG) GetByID(ctx context.Context, id int64) (*Incident, error) {
	inc, err := scanWithNames(r.conn(ctx).QueryRow(ctx, withNames+` WHERE i.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &crud.NotFoundError{Entity: "Incident", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get incident %d: %w", id, err)
	}
	return inc, nil
}

func (r *incidentRepoPG) List(ctx context.Context, limit, offset int) ([]*Incident, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM incident`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count incidents: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		withNames+` ORDER BY i.date_incident DESC, i.heure_incident DESC, i.id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list incidents: %w", err)
	}
	items, err := crud.Collect(rows, scanWithNames)
	if err != nil {
		return nil, 0, fmt.Errorf("scan incidents: %w", err)
	}
	return items, total, nil
}

func (r *incidentRepoPG) ListAll(ctx context.Context) ([]*Incident, error) {
	rows, err := r.conn(ctx).Query(ctx, withNames+` ORDER BY i.date_incident DESC, i.heure_incident DESC, i.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return crud.Collect(rows, scanWithNames)
}

func (r *incidentRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Incident, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+incidentCols+`, m.nom, m.prenom, COUNT(si.id)
		FROM incident i
		LEFT JOIN medecin m ON i.id_medecin = m.id
		LEFT JOIN suivi_incident si ON si.id_incident = i.id
		WHERE i.id_patient = $1
		GROUP BY i.id, m.nom, m.prenom
		ORDER BY i.date_incident DESC, i.heure_incident DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list incidents of patient %d: %w", patientID, err)
	}
	return crud.Collect(rows, func(row pgx.Row) (*Incident, error) {
		var (
			mNom, mPrenom *string
			n             int
		)
		inc, err := scanIncident(row, &mNom, &mPrenom, &n)
		if err != nil {
			return nil, err
		}
		inc.MedecinNom, inc.MedecinPrenom, inc.NbSuivis = mNom, mPrenom, &n
		return inc, nil
	})
}

func (r *incidentRepoPG) ListByImplant(ctx context.Context, implantID int64) ([]*Incident, error) {
	return r.listBy(ctx, "id_implant", implantID)
}

func (r *incidentRepoPG) ListByProcesseur(ctx context.Context, processeurID int64) ([]*Incident, error) {
	return r.listBy(ctx, "id_processeur", processeurID)
}

// listBy is only called with the fixed column names above.
func (r *incidentRepoPG) listBy(ctx context.Context, column string, id int64) ([]*Incident, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+incidentCols+` FROM incident i WHERE i.`+column+` = $1 ORDER BY i.date_incident DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("list incidents by %s: %w", column, err)
	}
	return crud.Collect(rows, scanPlain)
}

func (r *incidentRepoPG) Update(ctx context.Context, id int64, ch crud.Changes) (bool, error) {
	return crud.UpdateByID(ctx, r.conn(ctx), "incident", id, ch)
}

func (r *incidentRepoPG) Delete(ctx context.Context, id int64) (bool, error) {
	return crud.DeleteByID(ctx, r.conn(ctx), "incident", id)
}

func (r *incidentRepoPG) PatientExists(ctx context.Context, id int64) (bool, error) {
	return crud.Exists(ctx, r.conn(ctx), "patient", id)
}

func (r *incidentRepoPG) ImplantBelongsToPatient(ctx context.Context, implantID, patientID int64) (bool, error) {
	query := `SELECT 1 FROM patient WHERE id = $1 AND id_implant = $2`
	if db.TxFromContext(ctx) != nil {
		query += ` FOR SHARE`
	}
	var one int
	err := r.conn(ctx).QueryRow(ctx, query, patientID, implantID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check implant %d of patient %d: %w", implantID, patientID, err)
	}
	return true, nil
}

type suiviRepoPG struct{ q db.Querier }

func NewSuiviRepoPG(q db.Querier) SuiviRepository {
	return &suiviRepoPG{q: q}
}

func (r *suiviRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.q)
}

func (r *suiviRepoPG) Create(ctx context.Context, s *Suivi) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO suivi_incident (date_suivi, actions_prises, id_incident, id_medecin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_creation`,
		s.DateSuivi, s.ActionsPrises, s.IDIncident, s.IDMedecin,
	).Scan(&s.ID, &s.DateCreation)
	if err != nil {
		return fmt.Errorf("insert suivi_incident: %w", crud.MapError(err))
	}
	return nil
}

func (r *suiviRepoPG) ListByIncident(ctx context.Context, incidentID int64) ([]*Suivi, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT si.id, si.date_suivi, si.actions_prises, si.id_incident, si.id_medecin, si.date_creation,
			m.nom, m.prenom, m.specialite
		FROM suivi_incident si
		LEFT JOIN medecin m ON si.id_medecin = m.id
		WHERE si.id_incident = $1
		ORDER BY si.date_suivi DESC, si.id DESC`, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list suivis of incident %d: %w", incidentID, err)
	}
	return crud.Collect(rows, func(row pgx.Row) (*Suivi, error) {
		var s Suivi
		err := row.Scan(&s.ID, &s.DateSuivi, &s.ActionsPrises, &s.IDIncident, &s.IDMedecin,
			&s.DateCreation, &s.MedecinNom, &s.MedecinPrenom, &s.MedecinSpecialite)
		return &s, err
	})
}

func (r *suiviRepoPG) Delete(ctx context.Context, id, incidentID int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM suivi_incident WHERE id = $1 AND id_incident = $2`, id, incidentID)
	if err != nil {
		return false, fmt.Errorf("delete suivi_incident %d: %w", id, crud.MapDeleteError(err))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *suiviRepoPG) IncidentExists(ctx context.Context, id int64) (bool, error) {
	return crud.Exists(ctx, r.conn(ctx), "incident", id)
}
