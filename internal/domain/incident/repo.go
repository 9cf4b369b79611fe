package incident

import (
	"context"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

type Repository interface {
	Create(ctx context.Context, inc *Incident) error
	// GetByID joins the patient and doctor names.
	GetByID(ctx context.Context, id int64) (*Incident, error)
	List(ctx context.Context, limit, offset int) ([]*Incident, int, error)
	ListAll(ctx context.Context) ([]*Incident, error)
	// ListByPatient joins the doctor names and counts follow-ups.
	ListByPatient(ctx context.Context, patientID int64) ([]*Incident, error)
	ListByImplant(ctx context.Context, implantID int64) ([]*Incident, error)
	ListByProcesseur(ctx context.Context, processeurID int64) ([]*Incident, error)
	Update(ctx context.Context, id int64, ch crud.Changes) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	PatientExists(ctx context.Context, id int64) (bool, error)
	// ImplantBelongsToPatient reports whether the patient carries the implant.
	ImplantBelongsToPatient(ctx context.Context, implantID, patientID int64) (bool, error)
}

type SuiviRepository interface {
	Create(ctx context.Context, s *Suivi) error
	ListByIncident(ctx context.Context, incidentID int64) ([]*Suivi, error)
	Delete(ctx context.Context, id, incidentID int64) (bool, error)
	IncidentExists(ctx context.Context, id int64) (bool, error)
}
