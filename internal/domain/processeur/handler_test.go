package processeur

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/domain/incident"
	"github.com/Maramoubouare/FOLLOWUP/internal/domain/reglage"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud/crudtest"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

type stubIncidents map[int64][]*incident.Incident

func (s stubIncidents) ListByProcesseur(_ context.Context, id int64) ([]*incident.Incident, error) {
	return s[id], nil
}

type fixture struct {
	repo      *crudtest.Memory[Processeur]
	reglages  *crudtest.Memory[reglage.Reglage]
	incidents stubIncidents
}

func newTestServer() (*echo.Echo, fixture) {
	f := fixture{
		repo:      crudtest.NewMemory[Processeur](),
		reglages:  crudtest.NewMemory[reglage.Reglage](),
		incidents: stubIncidents{},
	}
	h := NewHandler(NewService(f.repo, f.reglages, f.incidents), f.repo, validate.New(), zerolog.Nop())
	e := echo.New()
	e.HTTPErrorHandler = envelope.ErrorHandler(zerolog.Nop(), false)
	h.RegisterRoutes(e.Group("/api"))
	return e, f
}

func do(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var result map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &result)
	return rec, result
}

const kanso = `{"typeProcesseur":"Kanso 2","dateInstallation":"2024-02-01","batterie":"Rechargeable"}`

func TestCreateProcesseur(t *testing.T) {
	e, f := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/processeurs", kanso)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["message"] != "Processeur créé avec succès" {
		t.Errorf("unexpected message %v", result["message"])
	}
	if f.repo.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", f.repo.Len())
	}
}

func TestCreateProcesseur_BadBattery(t *testing.T) {
	e, f := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/processeurs", strings.Replace(kanso, "Rechargeable", "Solaire", 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fe := result["errors"].([]interface{})[0].(map[string]interface{})
	if fe["field"] != "batterie" {
		t.Errorf("expected batterie error, got %v", fe)
	}
	if f.repo.Writes != 0 {
		t.Errorf("expected no write")
	}
}

func TestUpdateProcesseur(t *testing.T) {
	e, f := newTestServer()
	do(e, http.MethodPost, "/api/processeurs", kanso)

	rec, _ := do(e, http.MethodPut, "/api/processeurs/1", `{"batterie":"Piles"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	p, _ := f.repo.FindByID(context.Background(), 1)
	if p.Batterie != BatteriePiles {
		t.Errorf("expected Piles, got %s", p.Batterie)
	}
}

func TestReglagesAndIncidents(t *testing.T) {
	e, f := newTestServer()
	do(e, http.MethodPost, "/api/processeurs", kanso)
	id := int64(1)
	f.reglages.Create(context.Background(), &reglage.Reglage{TypeReglage: "Mapping", IDPatient: 1, IDProcesseur: &id, IDMedecin: 2})
	f.incidents[1] = []*incident.Incident{{ID: 7, IDProcesseur: &id}}

	_, result := do(e, http.MethodGet, "/api/processeurs/1/reglages", "")
	if result["count"] != float64(1) {
		t.Errorf("expected 1 réglage, got %v", result["count"])
	}
	_, result = do(e, http.MethodGet, "/api/processeurs/1/incidents", "")
	if result["count"] != float64(1) {
		t.Errorf("expected 1 incident, got %v", result["count"])
	}
}

func TestReglages_UnknownProcesseur(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodGet, "/api/processeurs/8/reglages", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if result["message"] != "Processeur avec l'ID 8 introuvable" {
		t.Errorf("unexpected message %v", result["message"])
	}
}
