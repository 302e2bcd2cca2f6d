package api

import (
	"net/http"
	"testing"
)

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create.
	var created map[string]interface{}
	resp := doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	sessionID, _ := created["session_id"].(string)
	if sessionID == "" {
		t.Fatal("Expected a session id")
	}

	// List contains it.
	var listing struct {
		Count    int `json:"count"`
		Sessions []struct {
			SessionID string `json:"session_id"`
		} `json:"sessions"`
	}
	doJSON(t, srv, http.MethodGet, "/api/sessions/", nil, &listing)
	if listing.Count != 1 || listing.Sessions[0].SessionID != sessionID {
		t.Errorf("Expected listing with created session, got %+v", listing)
	}

	// Get.
	var summary map[string]interface{}
	resp = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID, nil, &summary)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if summary["current_mode"] != "sandbox" {
		t.Errorf("Expected sandbox mode, got %v", summary["current_mode"])
	}

	// Delete.
	resp = doJSON(t, srv, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	// Gone.
	resp = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestQuery(t *testing.T) {
	srv := newTestServer(t)

	var created map[string]interface{}
	doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	sessionID := created["session_id"].(string)

	var result map[string]interface{}
	resp := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "CREATE TABLE t (id INTEGER)"}, &result)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if result["success"] != true {
		t.Errorf("Expected success, got %v", result)
	}

	// Execution errors stay in-band with HTTP 200.
	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "SELECT * FROM nope"}, &result)
	if result["success"] != false {
		t.Errorf("Expected in-band failure, got %v", result)
	}
	if result["error_message"] == "" {
		t.Error("Expected an error message")
	}
}

func TestQuery_Validation(t *testing.T) {
	srv := newTestServer(t)

	var created map[string]interface{}
	doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	sessionID := created["session_id"].(string)

	resp := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing sql, got %d", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodPost, "/api/sessions/ghost/query",
		map[string]string{"sql": "SELECT 1"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", resp.StatusCode)
	}
}

func TestHistory(t *testing.T) {
	srv := newTestServer(t)

	var created map[string]interface{}
	doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	sessionID := created["session_id"].(string)

	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "SELECT 1"}, nil)
	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "SELECT 2"}, nil)

	var got struct {
		Count   int `json:"count"`
		History []struct {
			SQL     string `json:"sql"`
			Success bool   `json:"success"`
		} `json:"history"`
	}
	doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/history", nil, &got)
	if got.Count != 2 {
		t.Fatalf("Expected 2 history items, got %d", got.Count)
	}
	if got.History[0].SQL != "SELECT 1" {
		t.Errorf("Expected oldest first, got %q", got.History[0].SQL)
	}
}

func TestSchemaEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var created map[string]interface{}
	doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	sessionID := created["session_id"].(string)

	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "CREATE TABLE pets (id INTEGER PRIMARY KEY, name TEXT)"}, nil)
	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "INSERT INTO pets (id, name) VALUES (1, 'Rex')"}, nil)

	var schema struct {
		Count  int `json:"count"`
		Tables []struct {
			Name    string `json:"name"`
			Columns []struct {
				Name         string `json:"name"`
				IsPrimaryKey bool   `json:"is_primary_key"`
			} `json:"columns"`
		} `json:"tables"`
	}
	doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/schema", nil, &schema)
	if schema.Count != 1 || schema.Tables[0].Name != "pets" {
		t.Fatalf("Expected pets table, got %+v", schema)
	}

	resp := doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/schema/pets", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for table schema, got %d", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/schema/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for missing table, got %d", resp.StatusCode)
	}

	var preview map[string]interface{}
	resp = doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/schema/pets/preview?limit=5", nil, &preview)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for preview, got %d", resp.StatusCode)
	}
	if preview["row_count"].(float64) != 1 {
		t.Errorf("Expected 1 preview row, got %v", preview["row_count"])
	}
}

func TestReset(t *testing.T) {
	srv := newTestServer(t)

	var created map[string]interface{}
	doJSON(t, srv, http.MethodPost, "/api/sessions/", nil, &created)
	sessionID := created["session_id"].(string)

	doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/query",
		map[string]string{"sql": "CREATE TABLE t (id INTEGER)"}, nil)

	resp := doJSON(t, srv, http.MethodPost, "/api/sessions/"+sessionID+"/reset", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var schema struct {
		Count int `json:"count"`
	}
	doJSON(t, srv, http.MethodGet, "/api/sessions/"+sessionID+"/schema", nil, &schema)
	if schema.Count != 0 {
		t.Errorf("Expected empty schema after reset, got %d tables", schema.Count)
	}
}
