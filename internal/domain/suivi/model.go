package suivi

import (
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// Suivi is a post-implant follow-up period.
type Suivi struct {
	ID             int64       `json:"id" db:"id"`
	DateDebutSuivi civil.Date  `json:"dateDebutSuivi" db:"date_debut_suivi" validate:"required"`
	DateFinSuivi   *civil.Date `json:"dateFinSuivi" db:"date_fin_suivi"`
	ResultatSuivi  string      `json:"resultatSuivi" db:"resultat_suivi" validate:"max=2000"`
	IDPatient      int64       `json:"idPatient" db:"id_patient" validate:"required,gt=0"`
	IDMedecin      int64       `json:"idMedecin" db:"id_medecin" validate:"required,gt=0"`
}

type UpdateRequest struct {
	DateDebutSuivi *civil.Date               `json:"dateDebutSuivi"`
	DateFinSuivi   crud.Optional[civil.Date] `json:"dateFinSuivi"`
	ResultatSuivi  *string                   `json:"resultatSuivi" validate:"omitempty,max=2000"`
	IDMedecin      *int64                    `json:"idMedecin" validate:"omitnil,gt=0"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.DateDebutSuivi != nil && !r.DateDebutSuivi.IsZero() {
		ch = ch.Set("date_debut_suivi", *r.DateDebutSuivi)
	}
	if r.DateFinSuivi.Set {
		ch = ch.Set("date_fin_suivi", r.DateFinSuivi.Ptr())
	}
	if r.ResultatSuivi != nil {
		ch = ch.Set("resultat_suivi", *r.ResultatSuivi)
	}
	if r.IDMedecin != nil {
		ch = ch.Set("id_medecin", *r.IDMedecin)
	}
	return ch
}

// Etape is one step of a Suivi. IDSuiviPost always comes from the path.
type Etape struct {
	ID            int64      `json:"id" db:"id"`
	DateEtape     civil.Date `json:"dateEtape" db:"date_etape"`
	TypeEtape     string     `json:"typeEtape" db:"type_etape"`
	ResultatEtape string     `json:"resultatEtape" db:"resultat_etape"`
	IDSuiviPost   int64      `json:"idSuiviPost" db:"id_suivi_post"`
	IDMedecin     *int64     `json:"idMedecin" db:"id_medecin"`
}

type CreateEtapeRequest struct {
	DateEtape     civil.Date `json:"dateEtape" validate:"required,notfuture"`
	TypeEtape     string     `json:"typeEtape" validate:"required,max=100"`
	ResultatEtape string     `json:"resultatEtape" validate:"max=2000"`
	IDMedecin     *int64     `json:"idMedecin" validate:"omitempty,gt=0"`
}

func (r CreateEtapeRequest) toEtape(suiviID int64) *Etape {
	return &Etape{
		DateEtape:     r.DateEtape,
		TypeEtape:     r.TypeEtape,
		ResultatEtape: r.ResultatEtape,
		IDSuiviPost:   suiviID,
		IDMedecin:     r.IDMedecin,
	}
}
