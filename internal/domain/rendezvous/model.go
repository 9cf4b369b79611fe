package rendezvous

import (
	"time"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
)

type RendezVous struct {
	ID             int64     `json:"id" db:"id"`
	DateRendezVous time.Time `json:"dateRendezVous" db:"date_rendez_vous" validate:"required"`
	Motif          string    `json:"motif" db:"motif" validate:"required,max=255"`
	IDPatient      int64     `json:"idPatient" db:"id_patient" validate:"required,gt=0"`
	IDMedecin      int64     `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`
}

type UpdateRequest struct {
	DateRendezVous *time.Time `json:"dateRendezVous"`
	Motif          *string    `json:"motif" validate:"omitnil,min=1,max=255"`
	IDPatient      *int64     `json:"idPatient" validate:"omitnil,gt=0"`
	IDMedecin      *int64     `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateRendezVous != nil && !r.DateRendezVous.IsZero() {
		ch = ch.Set("date_rendez_vous", *r.DateRendezVous)
	}
	if r.Motif != nil {
		ch = ch.Set("motif", *r.Motif)
	}
	if r.IDPatient != nil {
		ch = ch.Set("id_patient", *r.IDPatient)
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}
