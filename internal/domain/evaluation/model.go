package evaluation

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// Phase is a pre-implant evaluation period.
type Phase struct {
	ID                  int64       `json:"id" db:"id"`
	DateDebutEvaluation civil.Date  `json:"dateDebutEvaluation" db:"date_debut_evaluation" validate:"required"`
	DateFinEvaluation   *civil.Date `json:"dateFinEvaluation" db:"date_fin_evaluation"`
	ResultatEvaluation  string      `json:"resultatEvaluation" db:"resultat_evaluation" validate:"max=2000"`
	IDPatient           int64       `json:"idPatient" db:"id_patient" validate:"required,gt=0"`
	IDMedecin           int64       `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`
}

type PhaseUpdateRequest struct {
	DateDebutEvaluation *civil.Date               `json:"dateDebutEvaluation"`
	DateFinEvaluation   crud.Optional[civil.Date] `json:"dateFinEvaluation"`
	ResultatEvaluation  *string                   `json:"resultatEvaluation" validate:"omitempty,max=2000"`
	IDMedecin           *int64                    `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r PhaseUpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateDebutEvaluation != nil && !r.DateDebutEvaluation.IsZero() {
		ch = ch.Set("date_debut_evaluation", *r.DateDebutEvaluation)
	}
	if r.DateFinEvaluation.Set {
		ch = ch.Set("date_fin_evaluation", r.DateFinEvaluation.Ptr())
	}
	if r.ResultatEvaluation != nil {
		ch = ch.Set("resultat_evaluation", *r.ResultatEvaluation)
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}

// Etape is one examination inside a Phase.
type Etape struct {
	ID            int64      `json:"id" db:"id"`
	DateEtape     civil.Date `json:"dateEtape" db:"date_etape" validate:"required,notfuture"`
	TypeEtape     string     `json:"typeEtape" db:"type_etape" validate:"required,max=100"`
	ResultatEtape string     `json:"resultatEtape" db:"resultat_etape" validate:"max=2000"`
	IDEvaluation  int64      `json:"idEvaluation" db:"id_evaluation" validate:"required,gt=0"`
	IDMedecin     *int64     `json:"idMedecin" db:"id_medecin" validate:"omitempty,gt=0"`
}

type EtapeUpdateRequest struct {
	DateEtape     *civil.Date          `json:"dateEtape" validate:"omitempty,notfuture"`
	TypeEtape     *string              `json:"typeEtape" validate:"omitnil,min=1,max=100"`
	ResultatEtape *string              `json:"resultatEtape" validate:"omitempty,max=2000"`
	IDMedecin     crud.Optional[int64] `json:"idMedecin"`
}

func (r EtapeUpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateEtape != nil && !r.DateEtape.IsZero() {
		ch = ch.Set("date_etape", *r.DateEtape)
	}
	if r.TypeEtape != nil {
		ch = ch.Set("type_etape", *r.TypeEtape)
	}
	if r.ResultatEtape != nil {
		ch = ch.Set("resultat_etape", *r.ResultatEtape)
	}
	if r.IDMedecin.Set {
		ch = ch.Set("id_medecin", r.IDMedecin.Ptr())
	}
	return ch
}
