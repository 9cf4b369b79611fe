package implant

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
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// -- Mocks --

type mockRepo struct {
	*crudtest.Memory[Implant]
	reglages  *crudtest.Memory[reglage.Reglage]
	incidents *stubIncidents
}

func (m *mockRepo) Counts(ctx context.Context, id int64) (int, int, error) {
	regs, err := m.reglages.FindWhere(ctx, "id_implant", id)
	if err != nil {
		return 0, 0, err
	}
	incs, _ := m.incidents.ListByImplant(ctx, id)
	return len(regs), len(incs), nil
}

type stubIncidents struct {
	byImplant map[int64][]*incident.Incident
}

func (s *stubIncidents) ListByImplant(_ context.Context, id int64) ([]*incident.Incident, error) {
	return s.byImplant[id], nil
}

func newTestServer() (*echo.Echo, *mockRepo) {
	repo := &mockRepo{
		Memory:    crudtest.NewMemory[Implant](),
		reglages:  crudtest.NewMemory[reglage.Reglage](),
		incidents: &stubIncidents{byImplant: map[int64][]*incident.Incident{}},
	}
	svc := NewService(repo, repo.reglages, repo.incidents)
	svc.today = func() civil.Date { return civil.NewDate(2024, 3, 1) }
	h := NewHandler(svc, repo, validate.New(), zerolog.Nop())
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

func int64Ptr(v int64) *int64 { return &v }

const nucleus = `{"typeImplant":"Nucleus CI622","datePose":"2024-01-31","nombreElectrodes":22,"idProcesseur":1}`

// -- Tests --

func TestCreateImplant(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/implants", nucleus)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["message"] != "Implant créé avec succès" {
		t.Errorf("unexpected message %v", result["message"])
	}
	if repo.Len() != 1 {
		t.Errorf("expected 1 implant, got %d", repo.Len())
	}
}

func TestCreateImplant_Invalid(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/implants", `{"typeImplant":"Nucleus","datePose":"2024-01-31","nombreElectrodes":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fe := result["errors"].([]interface{})[0].(map[string]interface{})
	if fe["field"] != "nombreElectrodes" {
		t.Errorf("expected nombreElectrodes error, got %v", fe)
	}
	if repo.Writes != 0 {
		t.Errorf("expected no write")
	}
}

func TestUpdateImplant_DetachProcesseur(t *testing.T) {
	e, repo := newTestServer()
	do(e, http.MethodPost, "/api/implants", nucleus)

	rec, _ := do(e, http.MethodPut, "/api/implants/1", `{"idProcesseur":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	i, _ := repo.FindByID(context.Background(), 1)
	if i.IDProcesseur != nil {
		t.Errorf("expected processor detached")
	}
}

func TestReglages(t *testing.T) {
	e, repo := newTestServer()
	do(e, http.MethodPost, "/api/implants", nucleus)
	ctx := context.Background()
	repo.reglages.Create(ctx, &reglage.Reglage{TypeReglage: "Mapping", IDPatient: 1, IDImplant: int64Ptr(1), IDMedecin: 2})
	repo.reglages.Create(ctx, &reglage.Reglage{TypeReglage: "Mapping", IDPatient: 2, IDImplant: int64Ptr(9), IDMedecin: 2})

	rec, result := do(e, http.MethodGet, "/api/implants/1/reglages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if result["count"] != float64(1) {
		t.Errorf("expected 1 réglage, got %v", result["count"])
	}
}

func TestIncidents_UnknownImplant(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodGet, "/api/implants/3/incidents", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if result["message"] != "Implant avec l'ID 3 introuvable" {
		t.Errorf("unexpected message %v", result["message"])
	}
}

func TestStatistiques(t *testing.T) {
	e, repo := newTestServer()
	do(e, http.MethodPost, "/api/implants", nucleus)
	repo.reglages.Create(context.Background(), &reglage.Reglage{TypeReglage: "Mapping", IDPatient: 1, IDImplant: int64Ptr(1), IDMedecin: 2})
	repo.incidents.byImplant[1] = []*incident.Incident{{ID: 4}, {ID: 5}}

	rec, result := do(e, http.MethodGet, "/api/implants/1/statistiques", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := result["data"].(map[string]interface{})
	if data["anciennete"] != float64(30) {
		t.Errorf("expected 30 days, got %v", data["anciennete"])
	}
	if data["nbReglages"] != float64(1) || data["nbIncidents"] != float64(2) {
		t.Errorf("unexpected counts %v", data)
	}
}
