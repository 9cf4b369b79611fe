package reglage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud/crudtest"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
)

func newTestServer() (*echo.Echo, *crudtest.Memory[Reglage]) {
	repo := crudtest.NewMemory[Reglage]()
	h := NewHandler(repo, validate.New(), zerolog.Nop())
	e := echo.New()
	e.HTTPErrorHandler = envelope.ErrorHandler(zerolog.Nop(), false)
	h.RegisterRoutes(e.Group("/api"))
	return e, repo
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

const fitting = `{"dateReglage":"2024-02-12","typeReglage":"Mapping","idPatient":1,"idImplant":2,"idProcesseur":3,"idMedecin":4}`

func TestCreateReglage(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/reglages", fitting)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["message"] != "Réglage créé avec succès" {
		t.Errorf("unexpected message %v", result["message"])
	}
	if repo.Len() != 1 {
		t.Errorf("expected 1 row, got %d", repo.Len())
	}
}

func TestCreateReglage_MissingMedecin(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/reglages", `{"dateReglage":"2024-02-12","typeReglage":"Mapping","idPatient":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fe := result["errors"].([]interface{})[0].(map[string]interface{})
	if fe["field"] != "idMedecin" {
		t.Errorf("expected idMedecin error, got %v", fe)
	}
	if repo.Writes != 0 {
		t.Errorf("expected no write, got %d", repo.Writes)
	}
}

func TestUpdateReglage_DetachProcesseur(t *testing.T) {
	e, repo := newTestServer()
	do(e, http.MethodPost, "/api/reglages", fitting)

	rec, _ := do(e, http.MethodPut, "/api/reglages/1", `{"idProcesseur":null,"resultatReglage":"Seuils relevés"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	r, _ := repo.FindByID(context.Background(), 1)
	if r.IDProcesseur != nil {
		t.Errorf("expected processor cleared, got %d", *r.IDProcesseur)
	}
	if r.ResultatReglage != "Seuils relevés" {
		t.Errorf("unexpected result %q", r.ResultatReglage)
	}
}

func TestUpdateReglage_RejectsBadImplant(t *testing.T) {
	e, _ := newTestServer()
	do(e, http.MethodPost, "/api/reglages", fitting)

	rec, _ := do(e, http.MethodPut, "/api/reglages/1", `{"idImplant":-2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteReglage_NotFound(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodDelete, "/api/reglages/5", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if result["message"] != "Réglage avec l'ID 5 introuvable" {
		t.Errorf("unexpected message %v", result["message"])
	}
}
