package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"foidesk/internal/models"
)

func TestBodyCreate(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(env.admin.BodyCreate, newRequest(http.MethodPost, "/", "", `{"name":"Port Authority","tag_string":" ports  transport "}`, ""))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (%s)", rr.Code, rr.Body)
	}
	body := decodeBody(t, rr)
	b := body["public_body"].(map[string]any)
	if b["tag_string"] != "ports transport" {
		t.Errorf("tag_string: got %v", b["tag_string"])
	}
	if body["notice"] != "Public body was successfully created." {
		t.Errorf("notice: got %v", body["notice"])
	}

	t.Run("blank name", func(t *testing.T) {
		rr := serve(env.admin.BodyCreate, newRequest(http.MethodPost, "/", "", `{"name":" ","tag_string":"ports"}`, ""))
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status: got %d, want 422", rr.Code)
		}
		entity := decodeBody(t, rr)["entity"].(map[string]any)
		if entity["tag_string"] != "ports" {
			t.Errorf("entity: got %v", entity)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		rr := serve(env.admin.BodyCreate, newRequest(http.MethodPost, "/", "", `[]`, ""))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestBodySetTags(t *testing.T) {
	env := newTestEnv(t)
	b := &models.PublicBody{ID: uuid.New(), Name: "Water Board", URLName: "water_board", TagString: "utilities"}
	env.bodies.bodies[b.ID] = b

	rr := serve(env.admin.BodySetTags, newRequest(http.MethodPut, "/", b.ID.String(), `{"tag_string":"utilities   water"}`, ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (%s)", rr.Code, rr.Body)
	}
	if b.TagString != "utilities water" {
		t.Errorf("stored tags: got %q", b.TagString)
	}
	tags := decodeBody(t, rr)["tags"].([]any)
	if len(tags) != 2 || tags[1] != "water" {
		t.Errorf("tags: got %v", tags)
	}

	rr = serve(env.admin.BodyShow, newRequest(http.MethodGet, "/", b.ID.String(), "", ""))
	if got := decodeBody(t, rr)["public_body"].(map[string]any)["tag_string"]; got != "utilities water" {
		t.Errorf("show tag_string: got %v", got)
	}

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"unknown body", uuid.NewString(), `{"tag_string":"x"}`, http.StatusNotFound},
		{"bad id", "x", `{"tag_string":"x"}`, http.StatusBadRequest},
		{"unknown field", b.ID.String(), `{"tags":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(env.admin.BodySetTags, newRequest(http.MethodPut, "/", tt.id, tt.body, ""))
			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
		})
	}
	if b.TagString != "utilities water" {
		t.Errorf("rejected requests changed tags to %q", b.TagString)
	}
}

func TestBodyShowNotFound(t *testing.T) {
	env := newTestEnv(t)
	rr := serve(env.admin.BodyShow, newRequest(http.MethodGet, "/", uuid.NewString(), "", ""))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
