package shared

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("title", "", "title is required")
	v.Enum("kind", "banana", []string{"star", "dislike"}, "kind must be star or dislike")
	v.Range("score", 12, 0, 10, "score must be between 0 and 10")
	v.CPF("cpf", "111.111.111-11")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted by field: %+v", issues)
		}
	}
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	v := NewValidator()
	v.Required("title", "Meta Q3", "title is required")
	v.Enum("kind", "star", []string{"star", "dislike"}, "kind must be star or dislike")
	v.Range("score", 7.5, 0, 10, "score must be between 0 and 10")
	v.CPF("cpf", "529.982.247-25")
	v.CEP("cep", "01310-100")

	if v.HasIssues() {
		t.Fatalf("unexpected issues: %+v", v.Issues())
	}
}

func TestValidatorRejectWritesValidationError(t *testing.T) {
	v := NewValidator()
	v.Required("reason", "", "reason is required")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected reject to fire")
	}
	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Success || body.Error.Code != "validation_error" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
