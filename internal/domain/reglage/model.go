package reglage

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// Reglage is a processor fitting session.
type Reglage struct {
	ID                 int64      `json:"id" db:"id"`
	DateReglage        civil.Date `json:"dateReglage" db:"date_reglage" validate:"required,notfuture"`
	TypeReglage        string     `json:"typeReglage" db:"type_reglage" validate:"required,max=100"`
	DescriptionReglage string     `json:"descriptionReglage" db:"description_reglage" validate:"max=2000"`
	ResultatReglage    string     `json:"resultatReglage" db:"resultat_reglage" validate:"max=2000"`
	IDPatient          int64      `json:"idPatient" db:"id_patient" validate:"required,gt=0"`
	IDImplant          *int64     `json:"idImplant" db:"id_implant" validate:"omitempty,gt=0"`
	IDProcesseur       *int64     `json:"idProcesseur" db:"id_processeur" validate:"omitempty,gt=0"`
	IDMedecin          int64      `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`
}

type UpdateRequest struct {
	DateReglage        *civil.Date          `json:"dateReglage" validate:"omitempty,notfuture"`
	TypeReglage        *string              `json:"typeReglage" validate:"omitnil,min=1,max=100"`
	DescriptionReglage *string              `json:"descriptionReglage" validate:"omitempty,max=2000"`
	ResultatReglage    *string              `json:"resultatReglage" validate:"omitempty,max=2000"`
	IDImplant          crud.Optional[int64] `json:"idImplant"`
	IDProcesseur       crud.Optional[int64] `json:"idProcesseur"`
	IDMedecin          *int64               `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateReglage != nil && !r.DateReglage.IsZero() {
		ch = ch.Set("date_reglage", *r.DateReglage)
	}
	if r.TypeReglage != nil {
		ch = ch.Set("type_reglage", *r.TypeReglage)
	}
	if r.DescriptionReglage != nil {
		ch = ch.Set("description_reglage", *r.DescriptionReglage)
	}
	if r.ResultatReglage != nil {
		ch = ch.Set("resultat_reglage", *r.ResultatReglage)
	}
	if r.IDImplant.Set {
		ch = ch.Set("id_implant", r.IDImplant.Ptr())
	}
	if r.IDProcesseur.Set {
		ch = ch.Set("id_processeur", r.IDProcesseur.Ptr())
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}
