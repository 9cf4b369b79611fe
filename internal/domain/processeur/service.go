package processeur

import (
	"context"
	"errors"

	"github.com/Maramoubouare/FOLLOWUP/internal/domain/incident"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/reglage"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

// ReglageFinder is the part of the réglage repository used here.
type ReglageFinder interface {
	FindWhere(ctx context.Context, column string, value interface{}) ([]*reglage.Reglage, error)
}

type IncidentLister interface {
	ListByProcesseur(ctx context.Context, processeurID int64) ([]*incident.Incident, error)
}

type Service struct {
	repo      crud.Repository[Processeur]
	reglages  ReglageFinder
	incidents IncidentLister
}

func NewService(repo crud.Repository[Processeur], reglages ReglageFinder, incidents IncidentLister) *Service {
	return &Service{repo: repo, reglages: reglages, incidents: incidents}
}

func (s *Service) ensure(ctx context.Context, id int64) error {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return &crud.NotFoundError{Entity: "Processeur", ID: id}
	}
	return err
}

func (s *Service) Reglages(ctx context.Context, id int64) ([]*reglage.Reglage, error) {
	if err := s.ensure(ctx, id); err != nil {
		return nil, err
	}
	return s.reglages.FindWhere(ctx, "id_processeur", id)
}

func (s *Service) Incidents(ctx context.Context, id int64) ([]*incident.Incident, error) {
	if err := s.ensure(ctx, id); err != nil {
		return nil, err
	}
	return s.incidents.ListByProcesseur(ctx, id)
}
