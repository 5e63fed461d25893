package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/brief"
	"github.com/MitreaRazvan/wisebrief/internal/export"
	"github.com/MitreaRazvan/wisebrief/internal/storage"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store     *storage.Store
	ExportDir string // where export_brief writes PDF files
}

// NewMCPServer creates an MCP server with all wisebrief tools and resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"wisebrief",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("wisebrief — saved creative briefs with annotations and PDF export."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_briefs",
			mcp.WithDescription("List saved brief sessions, most recently updated first."),
		),
		mcpListBriefs(deps),
	)

	s.AddTool(
		mcp.NewTool("get_brief",
			mcp.WithDescription("Fetch a saved brief session including its full text and annotations."),
			mcp.WithString("id", mcp.Description("Session id"), mcp.Required()),
		),
		mcpGetBrief(deps),
	)

	s.AddTool(
		mcp.NewTool("annotate_brief",
			mcp.WithDescription("Add a highlight or comment annotation to a saved brief session."),
			mcp.WithString("id", mcp.Description("Session id"), mcp.Required()),
			mcp.WithString("kind", mcp.Description("Annotation kind: highlight or comment"), mcp.Required()),
			mcp.WithString("text", mcp.Description("The brief text being annotated"), mcp.Required()),
			mcp.WithString("comment", mcp.Description("Comment body (required for kind=comment)")),
			mcp.WithString("section_title", mcp.Description("Title of the section the text belongs to")),
		),
		mcpAnnotateBrief(deps),
	)

	s.AddTool(
		mcp.NewTool("export_brief",
			mcp.WithDescription("Render a saved brief session to PDF and return the file path."),
			mcp.WithString("id", mcp.Description("Session id"), mcp.Required()),
		),
		mcpExportBrief(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"brief://recent",
			"Recent Briefs",
			mcp.WithResourceDescription("Last 10 saved brief sessions (summaries only)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpListBriefs(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessions, err := deps.Store.ListSessions()
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list briefs: %v", err)), nil
		}

		if len(sessions) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(sessions)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal briefs: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpGetBrief(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		s, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("brief %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get brief: %v", err)), nil
		}

		b, err := json.Marshal(s)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal brief: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpAnnotateBrief(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		kind, err := req.RequireString("kind")
		if err != nil {
			return mcpError("kind is required"), nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		comment := req.GetString("comment", "")
		sectionTitle := req.GetString("section_title", "")

		s, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("brief %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get brief: %v", err)), nil
		}

		var a annotation.Annotation
		switch annotation.Kind(kind) {
		case annotation.KindHighlight:
			a = annotation.NewHighlight(text, sectionTitle)
		case annotation.KindComment:
			if comment == "" {
				return mcpError("comment is required for kind=comment"), nil
			}
			a = annotation.NewComment(text, sectionTitle, comment)
		default:
			return mcpError(fmt.Sprintf("unknown annotation kind %q", kind)), nil
		}

		s.Annotations = append(s.Annotations, a)
		s.UpdatedAt = time.Now().UTC()
		if err := deps.Store.SaveSession(s); err != nil {
			return mcpError(fmt.Sprintf("failed to save brief: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Added %s annotation %s to brief %s", kind, a.ID, id)), nil
	}
}

func mcpExportBrief(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		s, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			return mcpError(fmt.Sprintf("brief %s not found", id)), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get brief: %v", err)), nil
		}

		body, _ := brief.ExtractSources(s.CreativeBrief)
		pdf, err := export.Render(export.Options{
			BrandDescription: s.BrandDescription,
			Sections:         brief.ParseSections(body),
			Annotations:      s.Annotations,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to render pdf: %v", err)), nil
		}

		if err := os.MkdirAll(deps.ExportDir, 0o755); err != nil {
			return mcpError(fmt.Sprintf("failed to create export dir: %v", err)), nil
		}
		path := filepath.Join(deps.ExportDir, export.Filename(s.BrandDescription))
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return mcpError(fmt.Sprintf("failed to write pdf: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Exported brief %s to %s", id, path)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessions, err := deps.Store.ListSessions()
		if err != nil {
			return nil, fmt.Errorf("failed to list briefs: %w", err)
		}
		if len(sessions) > 10 {
			sessions = sessions[:10]
		}

		type briefSummary struct {
			ID        string `json:"id"`
			Brand     string `json:"brand"`
			UpdatedAt string `json:"updated_at"`
		}

		summaries := make([]briefSummary, len(sessions))
		for i, s := range sessions {
			brand := s.BrandDescription
			if utf8.RuneCountInString(brand) > 200 {
				runes := []rune(brand)
				brand = string(runes[:200]) + "..."
			}
			summaries[i] = briefSummary{
				ID:        s.ID,
				Brand:     brand,
				UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal briefs: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
