package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MitreaRazvan/wisebrief/internal/wise"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestGenerateAndSaveFlow(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /brief":         `{"brand_description":"a sneaker brand","creative_brief":"## The Idea\nRun free.","memories_used":2}`,
		"POST /sessions/save": `{"id":"sess-123","status":"saved"}`,
	})
	client := ts.client()

	resp, err := client.post(ctx, "/brief", wise.BriefRequest{BrandDescription: "a sneaker brand"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var brief wise.BriefResponse
	if err := decodeJSON(resp, &brief); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if brief.MemoriesUsed != 2 {
		t.Errorf("memories_used = %d, want 2", brief.MemoriesUsed)
	}

	saveResp, err := client.post(ctx, "/sessions/save", map[string]any{
		"brand_description": brief.BrandDescription,
		"creative_brief":    brief.CreativeBrief,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var saved map[string]string
	if err := decodeJSON(saveResp, &saved); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if saved["id"] != "sess-123" {
		t.Errorf("id = %q, want sess-123", saved["id"])
	}

	if len(ts.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(ts.requests))
	}
	if ts.requests[0].Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", ts.requests[0].Auth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(ts.requests[1].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["brand_description"] != "a sneaker brand" {
		t.Errorf("body.brand_description = %v", body["brand_description"])
	}
}

func TestDeleteSessionRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"DELETE /sessions/sess-1": `{"status":"deleted"}`,
	})
	client := ts.client()

	resp, err := client.delete(ctx, "/sessions/sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var result map[string]string
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result["status"] != "deleted" {
		t.Errorf("status = %q, want deleted", result["status"])
	}

	r := ts.requests[0]
	if r.Method != "DELETE" || r.Path != "/sessions/sess-1" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}
}

func TestDecodeJSON_ErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)
	client := ts.client()

	resp, err := client.get(ctx, "/sessions/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v map[string]any
	err = decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestReadBody_PDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="wise-brief-nova.pdf"`)
		w.Write([]byte("%PDF-1.3 fake"))
	}))
	defer srv.Close()

	client := &apiClient{baseURL: srv.URL, token: "t", httpClient: srv.Client()}
	resp, err := client.get(ctx, "/sessions/x/export")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if name != "wise-brief-nova.pdf" {
		t.Errorf("filename = %q", name)
	}

	data, err := readBody(resp)
	if err != nil {
		t.Fatalf("readBody: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("body = %q", data)
	}
}

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{`attachment; filename="wise-brief-nova.pdf"`, "wise-brief-nova.pdf"},
		{`attachment; filename=plain.pdf`, "plain.pdf"},
		{``, "wise-brief.pdf"},
		{`attachment`, "wise-brief.pdf"},
	}
	for _, tt := range tests {
		if got := filenameFromDisposition(tt.header); got != tt.want {
			t.Errorf("filenameFromDisposition(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestColorize(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	if result := colorize(colorGreen, "hello"); strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}

	noColor = false
	if result := colorize(colorGreen, "hello"); !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}
