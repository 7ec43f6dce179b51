package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/domain"
)

func TestClientUpdateStatus(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Task{ID: 7, Title: "x", Status: domain.StatusCompleted})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	task, err := c.UpdateStatus(context.Background(), 7, domain.StatusCompleted)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotPath != "PATCH /api/v1/tasks/7/status" || gotAuth != "Bearer tok" {
		t.Fatalf("unexpected request: %s auth=%q", gotPath, gotAuth)
	}
	if len(gotBody) != 1 || gotBody["status"] != "completed" {
		t.Fatalf("body should carry only status: %v", gotBody)
	}
	if task.Status != domain.StatusCompleted {
		t.Fatalf("status = %s", task.Status)
	}
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"The given data was invalid.","errors":{"status":["The selected status is invalid."]}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").UpdateStatus(context.Background(), 1, "done")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || len(apiErr.Fields["status"]) != 1 {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestClientListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("perPage") != "25" || r.URL.Query().Get("page") != "2" {
			http.Error(w, `{"error":"bad query"}`, http.StatusBadRequest)
			return
		}
		page := domain.NewTaskPage([]*domain.Task{task(1, domain.StatusPending)}, 2, 25, 26)
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "").ListTasks(context.Background(), ListQuery{Page: 2, PerPage: 25})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 26 || page.LastPage != 2 || len(page.Data) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
