package incident

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeGravite(t *testing.T) {
	tests := map[string]string{
		"Minor":    "Mineur",
		"Moderate": "Modéré",
		"Major":    "Majeur",
		"Critical": "Critique",
		"Modéré":   "Modéré",
		"Grave":    "Grave",
	}
	for in, want := range tests {
		if got := NormalizeGravite(in); got != want {
			t.Errorf("NormalizeGravite(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpdateRequest_Changes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"empty", `{}`, nil},
		{"unknown fields ignored", `{"idPatient": 3, "heureIncident": "10:00:00"}`, nil},
		{"statut", `{"statut": "Résolu"}`, []string{"statut"}},
		{"all", `{"gravite": "Majeur", "description": "Douleur au site d'implantation", "statut": "EnCours", "idMedecin": 4}`,
			[]string{"gravite", "description", "statut", "id_medecin"}},
		{"null doctor", `{"idMedecin": null}`, []string{"id_medecin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := req.Changes().Columns()
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("columns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateRequest_NullDoctorIsNilArgument(t *testing.T) {
	var req UpdateRequest
	if err := json.Unmarshal([]byte(`{"idMedecin": null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ch := req.Changes()
	if v, ok := ch[0].Value.(*int64); !ok || v != nil {
		t.Errorf("expected nil *int64, got %#v", ch[0].Value)
	}
}

func TestCreateRequest_DefaultsToOuvert(t *testing.T) {
	req := validCreate()
	if inc := req.toIncident(); inc.Statut != StatutOuvert {
		t.Errorf("expected Ouvert, got %q", inc.Statut)
	}
}
