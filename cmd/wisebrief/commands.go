package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/config"
	"github.com/MitreaRazvan/wisebrief/internal/wise"
)

// sessionSnapshot mirrors the server's session payloads.
type sessionSnapshot struct {
	ID               string                  `json:"id"`
	BrandDescription string                  `json:"brand_description"`
	CreativeBrief    string                  `json:"creative_brief"`
	Messages         []wise.Message          `json:"messages"`
	Annotations      []annotation.Annotation `json:"annotations"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

type sessionSummary struct {
	ID               string    `json:"id"`
	BrandDescription string    `json:"brand_description"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// --- new ---

var newCmd = &cobra.Command{
	Use:   "new <brand description>",
	Short: "Generate a creative brief and save it as a new session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		brand := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		printStep("Generating brief for %q...", brand)
		resp, err := client.post(ctx, "/brief", wise.BriefRequest{BrandDescription: brand})
		if err != nil {
			return err
		}

		var brief wise.BriefResponse
		if err := decodeJSON(resp, &brief); err != nil {
			return err
		}

		saveResp, err := client.post(ctx, "/sessions/save", map[string]any{
			"brand_description": brief.BrandDescription,
			"creative_brief":    brief.CreativeBrief,
		})
		if err != nil {
			return err
		}

		var saved map[string]string
		if err := decodeJSON(saveResp, &saved); err != nil {
			return err
		}

		fmt.Println(brief.CreativeBrief)
		printSuccess("Saved session %s (%d memories used)", saved["id"], brief.MemoriesUsed)
		return nil
	},
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <session-id> <message>",
	Short: "Refine a saved brief with a follow-up message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		message := strings.Join(args[1:], " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		resp, err := client.get(ctx, "/sessions/"+id)
		if err != nil {
			return err
		}
		var session sessionSnapshot
		if err := decodeJSON(resp, &session); err != nil {
			return err
		}

		chatResp, err := client.post(ctx, "/chat", wise.ChatRequest{
			BrandDescription: session.BrandDescription,
			CreativeBrief:    session.CreativeBrief,
			Messages:         session.Messages,
			UserMessage:      message,
		})
		if err != nil {
			return err
		}
		var reply wise.ChatResponse
		if err := decodeJSON(chatResp, &reply); err != nil {
			return err
		}

		session.Messages = append(session.Messages,
			wise.Message{Role: "user", Content: message},
			wise.Message{Role: reply.Role, Content: reply.Response},
		)
		saveResp, err := client.post(ctx, "/sessions/save", map[string]any{
			"id":                session.ID,
			"brand_description": session.BrandDescription,
			"creative_brief":    session.CreativeBrief,
			"messages":          session.Messages,
			"annotations":       session.Annotations,
		})
		if err != nil {
			return err
		}
		var saved map[string]string
		if err := decodeJSON(saveResp, &saved); err != nil {
			return err
		}

		fmt.Println(reply.Response)
		return nil
	},
}

// --- templates ---

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show suggested refinement prompts by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/prompt-templates")
		if err != nil {
			return err
		}
		var tpl wise.PromptTemplates
		if err := decodeJSON(resp, &tpl); err != nil {
			return err
		}

		categories := []struct {
			name    string
			prompts []string
		}{
			{"deeper", tpl.Deeper},
			{"challenge", tpl.Challenge},
			{"iterate", tpl.Iterate},
			{"execution", tpl.Execution},
			{"strategy", tpl.Strategy},
			{"audience", tpl.Audience},
		}
		for _, c := range categories {
			if len(c.prompts) == 0 {
				continue
			}
			fmt.Println(colorize(colorBold, c.name))
			for _, p := range c.prompts {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	},
}

// --- sessions ---

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved brief sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, most recently updated first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/sessions")
		if err != nil {
			return err
		}
		var sessions []sessionSummary
		if err := decodeJSON(resp, &sessions); err != nil {
			return err
		}

		if len(sessions) == 0 {
			fmt.Println("no saved sessions")
			return nil
		}
		for _, s := range sessions {
			brand := s.BrandDescription
			if len(brand) > 60 {
				brand = brand[:60] + "..."
			}
			fmt.Printf("  %s  %s  %s\n", s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), brand)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/sessions/"+args[0])
		if err != nil {
			return err
		}
		var session any
		if err := decodeJSON(resp, &session); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/sessions/"+args[0])
		if err != nil {
			return err
		}
		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted session %s", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved session to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		output, _ := cmd.Flags().GetString("output")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		if all {
			return exportAll(cmd, client, output)
		}

		if len(args) != 1 {
			return fmt.Errorf("a session id is required unless --all is given")
		}
		return exportOne(cmd, client, args[0], output)
	},
}

func exportOne(cmd *cobra.Command, client *apiClient, id, output string) error {
	resp, err := client.get(cmd.Context(), "/sessions/"+id+"/export")
	if err != nil {
		return err
	}

	name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	data, err := readBody(resp)
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = name
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	printSuccess("Exported %s (%d bytes)", path, len(data))
	return nil
}

// exportAll renders every saved session concurrently, at most four at a time.
func exportAll(cmd *cobra.Command, client *apiClient, outputDir string) error {
	resp, err := client.get(cmd.Context(), "/sessions")
	if err != nil {
		return err
	}
	var sessions []sessionSummary
	if err := decodeJSON(resp, &sessions); err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no saved sessions")
		return nil
	}

	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for _, s := range sessions {
		g.Go(func() error {
			resp, err := client.get(ctx, "/sessions/"+s.ID+"/export")
			if err != nil {
				return err
			}
			name := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
			data, err := readBody(resp)
			if err != nil {
				return fmt.Errorf("exporting session %s: %w", s.ID, err)
			}
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			printStep("Exported %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSuccess("Exported %d sessions to %s", len(sessions), outputDir)
	return nil
}

func filenameFromDisposition(header string) string {
	const marker = "filename="
	idx := strings.Index(header, marker)
	if idx < 0 {
		return "wise-brief.pdf"
	}
	name := strings.Trim(header[idx+len(marker):], `"`)
	if name == "" {
		return "wise-brief.pdf"
	}
	return name
}

func init() {
	exportCmd.Flags().Bool("all", false, "export every saved session")
	exportCmd.Flags().StringP("output", "o", "", "output file (single export) or directory (--all)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
