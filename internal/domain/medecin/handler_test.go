package medecin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Maramoubouare/FOLLOWUP/internal/platform/crud/crudtest"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/envelope"
	"github.com/Maramoubouare/FOLLOWUP/internal/platform/validate"
	"github.com/Maramoubouare/FOLLOWUP/pkg/civil"
)

// -- Mock Repository --

type mockRepo struct {
	*crudtest.Memory[Medecin]
	agenda   []*Rendezvous
	patients map[int64][]*PatientSuivi
	// lastTo records the exclusive upper bound of the last Agenda call.
	lastTo time.Time
}

func newMockRepo() *mockRepo {
	return &mockRepo{Memory: crudtest.NewMemory[Medecin](), patients: map[int64][]*PatientSuivi{}}
}

func (m *mockRepo) FindBySpecialite(ctx context.Context, specialite string) ([]*Medecin, error) {
	return m.FindWhere(ctx, "specialite", specialite)
}

func (m *mockRepo) Patients(_ context.Context, id int64) ([]*PatientSuivi, error) {
	return m.patients[id], nil
}

func (m *mockRepo) Agenda(_ context.Context, _ int64, from, to time.Time) ([]*Rendezvous, error) {
	m.lastTo = to
	var out []*Rendezvous
	for _, rv := range m.agenda {
		if !rv.DateRendezVous.Before(from) && rv.DateRendezVous.Before(to) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (m *mockRepo) Statistiques(_ context.Context, id int64) (*Statistiques, error) {
	return &Statistiques{Patients: len(m.patients[id]), Incidents: 2, Reglages: 5}, nil
}

func newTestServer() (*echo.Echo, *mockRepo) {
	repo := newMockRepo()
	h := NewHandler(NewService(repo), repo, validate.New(), zerolog.Nop())
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

func seed(e *echo.Echo) {
	do(e, http.MethodPost, "/api/medecins", `{"nom":"Venail","prenom":"Frédéric","specialite":"ORL"}`)
	do(e, http.MethodPost, "/api/medecins", `{"nom":"Mondain","prenom":"Michel","specialite":"Audioprothésiste"}`)
}

// -- Tests --

func TestCreateMedecin(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/medecins", `{"nom":"Venail","prenom":"Frédéric","specialite":"ORL"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["message"] != "Médecin créé avec succès" {
		t.Errorf("unexpected message %v", result["message"])
	}
}

func TestListMedecins_BySpecialite(t *testing.T) {
	e, _ := newTestServer()
	seed(e)

	_, result := do(e, http.MethodGet, "/api/medecins?specialite=ORL", "")
	if result["count"] != float64(1) {
		t.Fatalf("expected 1 doctor, got %v", result["count"])
	}
	_, result = do(e, http.MethodGet, "/api/medecins", "")
	if result["count"] != float64(2) {
		t.Errorf("expected 2 doctors, got %v", result["count"])
	}
}

func TestPatients_UnknownMedecin(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodGet, "/api/medecins/9/patients", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if result["message"] != "Médecin avec l'ID 9 introuvable" {
		t.Errorf("unexpected message %v", result["message"])
	}
}

func TestPatients(t *testing.T) {
	e, repo := newTestServer()
	seed(e)
	repo.patients[1] = []*PatientSuivi{{ID: 4, Nom: "Durand", Prenom: "Alice"}}

	rec, result := do(e, http.MethodGet, "/api/medecins/1/patients", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if result["count"] != float64(1) {
		t.Errorf("expected 1 patient, got %v", result["count"])
	}
}

func TestAgenda(t *testing.T) {
	e, repo := newTestServer()
	seed(e)
	repo.agenda = []*Rendezvous{
		{ID: 1, DateRendezVous: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), Motif: "Réglage"},
		{ID: 2, DateRendezVous: time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC), Motif: "Contrôle"},
		{ID: 3, DateRendezVous: time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), Motif: "Bilan"},
	}

	rec, result := do(e, http.MethodGet, "/api/medecins/1/agenda?debut=2024-03-01&fin=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["count"] != float64(2) {
		t.Errorf("expected fin to be inclusive, got %v entries", result["count"])
	}
	if want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC); !repo.lastTo.Equal(want) {
		t.Errorf("expected upper bound %v, got %v", want, repo.lastTo)
	}
}

func TestAgenda_InvalidRange(t *testing.T) {
	e, _ := newTestServer()
	seed(e)

	tests := []struct {
		name, query, field string
	}{
		{"bad date", "?debut=demain", "debut"},
		{"reversed", "?debut=2024-03-10&fin=2024-03-01", "fin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, result := do(e, http.MethodGet, "/api/medecins/1/agenda"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			fe := result["errors"].([]interface{})[0].(map[string]interface{})
			if fe["field"] != tt.field {
				t.Errorf("expected error on %s, got %v", tt.field, fe)
			}
		})
	}
}

func TestStatistiques(t *testing.T) {
	e, _ := newTestServer()
	seed(e)

	rec, result := do(e, http.MethodGet, "/api/medecins/2/statistiques", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := result["data"].(map[string]interface{})
	if data["incidents"] != float64(2) || data["reglages"] != float64(5) {
		t.Errorf("unexpected statistics %v", data)
	}
}

func TestAgenda_DefaultWindow(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Medecin{Nom: "Venail", Prenom: "Frédéric", Specialite: "ORL"})
	svc := NewService(repo)

	debut := civil.NewDate(2024, 3, 1)
	if _, err := svc.Agenda(context.Background(), 1, debut, civil.Date{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if !repo.lastTo.Equal(want) {
		t.Errorf("expected default window to end %v, got %v", want, repo.lastTo)
	}
}
