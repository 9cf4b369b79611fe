package medecin

import (
	"context"
	"errors"
	"time"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// DefaultAgendaDays is the agenda window when no end date is given.
const DefaultAgendaDays = 30

var ErrAgendaRange = errors.New("La date de fin doit être postérieure à la date de début")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, specialite string) ([]*Medecin, error) {
	if specialite == "" {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindBySpecialite(ctx, specialite)
}

func (s *Service) ensure(ctx context.Context, id int64) error {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return &crud.NotFoundError{Entity: "Médecin", ID: id}
	}
	return err
}

func (s *Service) Patients(ctx context.Context, id int64) ([]*PatientSuivi, error) {
	if err := s.ensure(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Patients(ctx, id)
}

// Agenda lists appointments from debut to fin, both days included. A zero
// debut means today; a zero fin means DefaultAgendaDays after debut.
func (s *Service) Agenda(ctx context.Context, id int64, debut, fin civil.Date) ([]*Rendezvous, error) {
	if debut.IsZero() {
		debut = civil.Today()
	}
	if fin.IsZero() {
		fin = civil.DateOf(debut.Time().AddDate(0, 0, DefaultAgendaDays))
	}
	if fin.Before(debut) {
		return nil, ErrAgendaRange
	}
	if err := s.ensure(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Agenda(ctx, id, debut.Time(), fin.Time().Add(24*time.Hour))
}

func (s *Service) Statistiques(ctx context.Context, id int64) (*Statistiques, error) {
	if err := s.ensure(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Statistiques(ctx, id)
}
