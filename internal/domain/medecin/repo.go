package medecin

import (
	"context"
	"time"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

type Repository interface {
	crud.Repository[Medecin]
	FindBySpecialite(ctx context.Context, specialite string) ([]*Medecin, error)
	// Patients lists the distinct patients of the doctor's evaluation phases.
	Patients(ctx context.Context, id int64) ([]*PatientSuivi, error)
	// Agenda lists appointments in [from, to), oldest first.
	Agenda(ctx context.Context, id int64, from, to time.Time) ([]*Rendezvous, error)
	Statistiques(ctx context.Context, id int64) (*Statistiques, error)
}
