package incident

import (
	"context"
	"errors"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

// ErrImplantNotOwned is returned when the implant of a new incident is not
// the one carried by its patient.
var ErrImplantNotOwned = errors.New("L'implant spécifié n'appartient pas à ce patient")

// TxRunner is satisfied by *db.Transactor.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	incidents Repository
	suivis    SuiviRepository
	tx        TxRunner
}

func NewService(incidents Repository, suivis SuiviRepository) *Service {
	return &Service{incidents: incidents, suivis: suivis}
}

// SetTransactor makes Create run its checks and the insert in one
// transaction. Without it each statement runs on its own.
func (s *Service) SetTransactor(tx TxRunner) {
	s.tx = tx
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}

// Create checks that the patient exists and owns the implant, then stores a
// new incident with statut Ouvert.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Incident, error) {
	inc := req.toIncident()
	err := s.inTx(ctx, func(ctx context.Context) error {
		ok, err := s.incidents.PatientExists(ctx, inc.IDPatient)
		if err != nil {
			return err
		}
		if !ok {
			return &crud.NotFoundError{Entity: "Patient", ID: inc.IDPatient}
		}
		if inc.IDImplant != nil {
			ok, err = s.incidents.ImplantBelongsToPatient(ctx, *inc.IDImplant, inc.IDPatient)
			if err != nil {
				return err
			}
			if !ok {
				return ErrImplantNotOwned
			}
		}
		return s.incidents.Create(ctx, inc)
	})
	if err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Incident, error) {
	inc, err := s.incidents.GetByID(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, &crud.NotFoundError{Entity: "Incident", ID: id}
	}
	return inc, err
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Incident, int, error) {
	return s.incidents.List(ctx, limit, offset)
}

func (s *Service) ListAll(ctx context.Context) ([]*Incident, error) {
	return s.incidents.ListAll(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Incident, error) {
	ok, err := s.incidents.PatientExists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &crud.NotFoundError{Entity: "Patient", ID: patientID}
	}
	return s.incidents.ListByPatient(ctx, patientID)
}

func (s *Service) ListByImplant(ctx context.Context, implantID int64) ([]*Incident, error) {
	return s.incidents.ListByImplant(ctx, implantID)
}

func (s *Service) ListByProcesseur(ctx context.Context, processeurID int64) ([]*Incident, error) {
	return s.incidents.ListByProcesseur(ctx, processeurID)
}

// Update applies the allow-listed fields of req. An empty request returns
// crud.ErrNoChanges without touching the store.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Incident, error) {
	ch := req.Changes()
	if len(ch) == 0 {
		return nil, crud.ErrNoChanges
	}
	ok, err := s.incidents.Update(ctx, id, ch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &crud.NotFoundError{Entity: "Incident", ID: id}
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.incidents.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &crud.NotFoundError{Entity: "Incident", ID: id}
	}
	return nil
}

func (s *Service) AddSuivi(ctx context.Context, incidentID int64, req CreateSuiviRequest) (*Suivi, error) {
	ok, err := s.suivis.IncidentExists(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &crud.NotFoundError{Entity: "Incident", ID: incidentID}
	}
	su := &Suivi{
		DateSuivi:     req.DateSuivi,
		ActionsPrises: req.ActionsPrises,
		IDIncident:    incidentID,
		IDMedecin:     req.IDMedecin,
	}
	if err := s.suivis.Create(ctx, su); err != nil {
		return nil, err
	}
	return su, nil
}

// Suivis lists the follow-ups of an incident, or returns a NotFoundError
// when the incident is gone.
func (s *Service) Suivis(ctx context.Context, incidentID int64) ([]*Suivi, error) {
	ok, err := s.suivis.IncidentExists(ctx, incidentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &crud.NotFoundError{Entity: "Incident", ID: incidentID}
	}
	return s.suivis.ListByIncident(ctx, incidentID)
}

func (s *Service) DeleteSuivi(ctx context.Context, incidentID, suiviID int64) error {
	ok, err := s.suivis.Delete(ctx, suiviID, incidentID)
	if err != nil {
		return err
	}
	if !ok {
		return &crud.NotFoundError{Entity: "Suivi", ID: suiviID}
	}
	return nil
}
