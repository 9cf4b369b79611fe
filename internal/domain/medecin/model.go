package medecin

import (
	"time"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

type Medecin struct {
	ID         int64  `json:"id" db:"id"`
	Nom        string `json:"nom" db:"nom" validate:"required,max=100"`
	Prenom     string `json:"prenom" db:"prenom" validate:"required,max=100"`
	Specialite string `json:"specialite" db:"specialite" validate:"required,max=100"`
	Telephone  string `json:"telephone" db:"telephone" validate:"max=20"`
	Email      string `json:"email" db:"email" validate:"omitempty,email,max=150"`
}

type UpdateRequest struct {
	Nom        *string `json:"nom" validate:"omitnil,min=1,max=100"`
	Prenom     *string `json:"prenom" validate:"omitnil,min=1,max=100"`
	Specialite *string `json:"specialite" validate:"omitnil,min=1,max=100"`
	Telephone  *string `json:"telephone" validate:"omitempty,max=20"`
	Email      *string `json:"email" validate:"omitempty,email,max=150"`
}

func (r UpdateRequest) Changes() crud.Changes {
	var ch crud.Changes
	if r.Nom != nil {
		ch = ch.Set("nom", *r.Nom)
	}
	if r.Prenom != nil {
		ch = ch.Set("prenom", *r.Prenom)
	}
	if r.Specialite != nil {
		ch = ch.Set("specialite", *r.Specialite)
	}
	if r.Telephone != nil {
		ch = ch.Set("telephone", *r.Telephone)
	}
	if r.Email != nil {
		ch = ch.Set("email", *r.Email)
	}
	return ch
}

// PatientSuivi is a patient the doctor follows through an evaluation phase.
type PatientSuivi struct {
	ID            int64      `json:"id"`
	Nom           string     `json:"nom"`
	Prenom        string     `json:"prenom"`
	DateNaissance civil.Date `json:"dateNaissance"`
	Sexe          string     `json:"sexe"`
	Telephone     string     `json:"telephone"`
	Email         string     `json:"email"`
}

// Rendezvous is an agenda entry with the patient's name.
type Rendezvous struct {
	ID             int64     `json:"id"`
	DateRendezVous time.Time `json:"dateRendezVous"`
	Motif          string    `json:"motif"`
	IDPatient      int64     `json:"idPatient"`
	PatientNom     string    `json:"patientNom"`
	PatientPrenom  string    `json:"patientPrenom"`
}

type Statistiques struct {
	Patients  int `json:"patients"`
	Incidents int `json:"incidents"`
	Reglages  int `json:"reglages"`
}
