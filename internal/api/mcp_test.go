package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/MitreaRazvan/wisebrief/internal/storage"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) (MCPDeps, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return MCPDeps{
		Store:     store,
		ExportDir: t.TempDir(),
	}, store
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_ListBriefs_Empty(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpListBriefs(deps)

	result, err := handler(context.Background(), makeCallToolRequest("list_briefs", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if toolText(t, result) != "[]" {
		t.Errorf("expected [], got %s", toolText(t, result))
	}
}

func TestMCPTool_ListBriefs(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpListBriefs(deps)

	result, err := handler(context.Background(), makeCallToolRequest("list_briefs", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summaries []storage.SessionSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &summaries); err != nil {
		t.Fatalf("decoding summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "sess-1" {
		t.Errorf("summaries = %+v", summaries)
	}
}

func TestMCPTool_GetBrief(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpGetBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("get_brief", map[string]interface{}{
		"id": "sess-1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var s storage.Session
	if err := json.Unmarshal([]byte(toolText(t, result)), &s); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	if s.CreativeBrief != "## The Idea\nRun free." {
		t.Errorf("creative_brief = %q", s.CreativeBrief)
	}
}

func TestMCPTool_GetBrief_NotFound(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpGetBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("get_brief", map[string]interface{}{
		"id": "nope",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for missing brief")
	}
}

func TestMCPTool_AnnotateBrief_Highlight(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpAnnotateBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("annotate_brief", map[string]interface{}{
		"id":            "sess-1",
		"kind":          "highlight",
		"text":          "Run free",
		"section_title": "The Idea",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	s, err := store.GetSession("sess-1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if len(s.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(s.Annotations))
	}
	if s.Annotations[0].Text != "Run free" || s.Annotations[0].SectionTitle != "The Idea" {
		t.Errorf("annotation = %+v", s.Annotations[0])
	}
}

func TestMCPTool_AnnotateBrief_CommentRequiresBody(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpAnnotateBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("annotate_brief", map[string]interface{}{
		"id":   "sess-1",
		"kind": "comment",
		"text": "Run free",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error when comment body is missing")
	}
}

func TestMCPTool_AnnotateBrief_UnknownKind(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpAnnotateBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("annotate_brief", map[string]interface{}{
		"id":   "sess-1",
		"kind": "doodle",
		"text": "Run free",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error for unknown kind")
	}
}

func TestMCPTool_ExportBrief(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	saveTestSession(t, store, "sess-1", "Nova Sneakers", "## The Idea\nRun free.")
	handler := mcpExportBrief(deps)

	result, err := handler(context.Background(), makeCallToolRequest("export_brief", map[string]interface{}{
		"id": "sess-1",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	path := filepath.Join(deps.ExportDir, "wise-brief-nova-sneakers.pdf")
	if !strings.Contains(toolText(t, result), path) {
		t.Errorf("result %q does not mention %q", toolText(t, result), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported pdf: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("exported file is not a PDF")
	}
}

func TestMCPResource_Recent(t *testing.T) {
	deps, store := newTestMCPDeps(t)
	for i := 0; i < 12; i++ {
		id := "sess-" + string(rune('a'+i))
		err := store.SaveSession(storage.Session{
			ID:               id,
			BrandDescription: "brand " + id,
			CreativeBrief:    "brief",
			UpdatedAt:        time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	handler := mcpResourceRecent(deps)
	contents, err := handler(context.Background(), makeReadResourceRequest("brief://recent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}

	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}

	var summaries []map[string]string
	if err := json.Unmarshal([]byte(text.Text), &summaries); err != nil {
		t.Fatalf("decoding summaries: %v", err)
	}
	if len(summaries) != 10 {
		t.Errorf("expected 10 recent briefs, got %d", len(summaries))
	}
}
