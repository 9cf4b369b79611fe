package patient

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

type memRepo struct {
	*crudtest.Memory[Patient]
}

func (m memRepo) Search(ctx context.Context, term string) ([]*Patient, error) {
	all, err := m.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	var out []*Patient
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Nom+" "+p.Prenom+" "+p.Email), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestServer() (*echo.Echo, memRepo) {
	repo := memRepo{crudtest.NewMemory[Patient]()}
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

const alice = `{"nom":"Durand","prenom":"Alice","dateNaissance":"1980-05-02","sexe":"Féminin","email":"alice.durand@example.fr","idImplant":3}`

func TestCreatePatient(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/patients", alice)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if result["message"] != "Patient créé avec succès" {
		t.Errorf("unexpected message %v", result["message"])
	}
	if repo.Len() != 1 {
		t.Errorf("expected one stored patient, got %d", repo.Len())
	}
}

func TestCreatePatient_Invalid(t *testing.T) {
	e, repo := newTestServer()
	rec, result := do(e, http.MethodPost, "/api/patients",
		`{"nom":"Durand","dateNaissance":"1980-05-02","sexe":"X","email":"pas-un-email"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields := map[string]bool{}
	for _, fe := range result["errors"].([]interface{}) {
		fields[fe.(map[string]interface{})["field"].(string)] = true
	}
	for _, f := range []string{"prenom", "sexe", "email"} {
		if !fields[f] {
			t.Errorf("expected error on %s, got %v", f, fields)
		}
	}
	if repo.Len() != 0 {
		t.Errorf("expected nothing stored, got %d", repo.Len())
	}
}

func TestListPatients_Search(t *testing.T) {
	e, _ := newTestServer()
	do(e, http.MethodPost, "/api/patients", alice)
	do(e, http.MethodPost, "/api/patients",
		`{"nom":"Martin","prenom":"Paul","dateNaissance":"1975-01-20","sexe":"Masculin"}`)

	_, result := do(e, http.MethodGet, "/api/patients", "")
	if result["count"] != float64(2) {
		t.Errorf("expected 2 patients, got %v", result["count"])
	}

	_, result = do(e, http.MethodGet, "/api/patients?q=mart", "")
	if result["count"] != float64(1) {
		t.Fatalf("expected 1 match, got %v", result["count"])
	}
	first := result["data"].([]interface{})[0].(map[string]interface{})
	if first["nom"] != "Martin" {
		t.Errorf("expected Martin, got %v", first["nom"])
	}
}

func TestUpdatePatient_ClearImplant(t *testing.T) {
	e, _ := newTestServer()
	do(e, http.MethodPost, "/api/patients", alice)

	rec, result := do(e, http.MethodPut, "/api/patients/1", `{"telephone":"0467000000","idImplant":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := result["data"].(map[string]interface{})
	if data["telephone"] != "0467000000" {
		t.Errorf("expected telephone updated, got %v", data["telephone"])
	}
	if data["idImplant"] != nil {
		t.Errorf("expected implant cleared, got %v", data["idImplant"])
	}
}

func TestUpdatePatient_Rejected(t *testing.T) {
	e, repo := newTestServer()
	do(e, http.MethodPost, "/api/patients", alice)
	writes := repo.Writes

	tests := []struct {
		name, body, field string
	}{
		{"empty name", `{"nom":""}`, "nom"},
		{"future implantation", `{"dateImplantation":"2999-01-01"}`, "dateImplantation"},
		{"bad implant", `{"idImplant":0}`, "idImplant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, result := do(e, http.MethodPut, "/api/patients/1", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			fe := result["errors"].([]interface{})[0].(map[string]interface{})
			if fe["field"] != tt.field {
				t.Errorf("expected error on %s, got %v", tt.field, fe)
			}
		})
	}
	if repo.Writes != writes {
		t.Errorf("expected no writes, got %d", repo.Writes-writes)
	}
}

func TestDeletePatient_NotFound(t *testing.T) {
	e, _ := newTestServer()
	rec, result := do(e, http.MethodDelete, "/api/patients/12", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if result["message"] != "Patient avec l'ID 12 introuvable" {
		t.Errorf("unexpected message %v", result["message"])
	}
}
