package incident

import (
	"time"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

const (
	StatutOuvert  = "Ouvert"
	StatutEnCours = "EnCours"
	StatutResolu  = "Résolu"
	StatutFerme   = "Fermé"
)

// Gravites lists the accepted severities, least to most severe.
var Gravites = []string{"Mineur", "Modéré", "Majeur", "Critique"}

// Some clients send English severities.
var graviteAliases = map[string]string{
	"Minor":    "Mineur",
	"Moderate": "Modéré",
	"Major":    "Majeur",
	"Critical": "Critique",
}

// NormalizeGravite maps an English severity to its French value. Other values
// are returned unchanged.
func NormalizeGravite(g string) string {
	if fr, ok := graviteAliases[g]; ok {
		return fr
	}
	return g
}

// Incident is an adverse event on a patient's implant or processor.
type Incident struct {
	ID            int64      `json:"id"`
	DateIncident  civil.Date `json:"dateIncident"`
	HeureIncident string     `json:"heureIncident"`
	Gravite       string     `json:"gravite"`
	Description   string     `json:"description"`
	Statut        string     `json:"statut"`
	IDPatient     int64      `json:"idPatient"`
	IDImplant     *int64     `json:"idImplant"`
	IDProcesseur  *int64     `json:"idProcesseur"`
	IDMedecin     *int64     `json:"idMedecin"`
	DateCreation  time.Time  `json:"dateCreation"`

	// Filled by joined queries only.
	PatientNom    *string `json:"patientNom,omitempty"`
	PatientPrenom *string `json:"patientPrenom,omitempty"`
	MedecinNom    *string `json:"medecinNom,omitempty"`
	MedecinPrenom *string `json:"medecinPrenom,omitempty"`
	NbSuivis      *int    `json:"nbSuivis,omitempty"`
}

type CreateRequest struct {
	DateIncident  civil.Date `json:"dateIncident" validate:"required,notfuture"`
	HeureIncident string     `json:"heureIncident" validate:"required,heure"`
	Gravite       string     `json:"gravite" validate:"required,oneof=Mineur Modéré Majeur Critique"`
	Description   string     `json:"description" validate:"required,min=10,max=2000"`
	IDPatient     int64      `json:"idPatient" validate:"required,gt=0"`
	IDImplant     *int64     `json:"idImplant" validate:"omitempty,gt=0"`
	IDProcesseur  *int64     `json:"idProcesseur" validate:"omitempty,gt=0"`
	IDMedecin     *int64     `json:"idMedecin" validate:"omitempty,gt=0"`
}

func (r *CreateRequest) normalize() {
	r.Gravite = NormalizeGravite(r.Gravite)
}

func (r *CreateRequest) toIncident() *Incident {
	return &Incident{
		DateIncident:  r.DateIncident,
		HeureIncident: r.HeureIncident,
		Gravite:       r.Gravite,
		Description:   r.Description,
		Statut:        StatutOuvert,
		IDPatient:     r.IDPatient,
		IDImplant:     r.IDImplant,
		IDProcesseur:  r.IDProcesseur,
		IDMedecin:     r.IDMedecin,
	}
}

// UpdateRequest carries the fields an incident may change after creation.
// idMedecin may be set to null to detach the doctor.
type UpdateRequest struct {
	Gravite     *string              `json:"gravite" validate:"omitempty,oneof=Mineur Modéré Majeur Critique"`
	Description *string              `json:"description" validate:"omitempty,min=10,max=2000"`
	Statut      *string              `json:"statut" validate:"omitempty,oneof=Ouvert EnCours Résolu Fermé"`
	IDMedecin   crud.Optional[int64] `json:"idMedecin"`
}

func (r *UpdateRequest) normalize() {
	if r.Gravite != nil {
		g := NormalizeGravite(*r.Gravite)
		r.Gravite = &g
	}
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.Gravite != nil {
		ch = ch.Set("gravite", *r.Gravite)
	}
	if r.Description != nil {
		ch = ch.Set("description", *r.Description)
	}
	if r.Statut != nil {
		ch = ch.Set("statut", *r.Statut)
	}
	if r.IDMedecin.Set {
		ch = ch.Set("id_medecin", r.IDMedecin.Ptr())
	}
	return ch
}

// Suivi is a follow-up action recorded against an incident.
type Suivi struct {
	ID            int64      `json:"id"`
	DateSuivi     civil.Date `json:"dateSuivi"`
	ActionsPrises string     `json:"actionsPrises"`
	IDIncident    int64      `json:"idIncident"`
	IDMedecin     int64      `json:"idMedecin"`
	DateCreation  time.Time  `json:"dateCreation"`

	MedecinNom        *string `json:"medecinNom,omitempty"`
	MedecinPrenom     *string `json:"medecinPrenom,omitempty"`
	MedecinSpecialite *string `json:"medecinSpecialite,omitempty"`
}

type CreateSuiviRequest struct {
	DateSuivi     civil.Date `json:"dateSuivi" validate:"required,notfuture"`
	ActionsPrises string     `json:"actionsPrises" validate:"required,min=10,max=2000"`
	IDMedecin     int64      `json:"idMedecin" validate:"required,gt=0"`
}
