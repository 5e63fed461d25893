package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/MitreaRazvan/wisebrief/internal/annotation"
	"github.com/MitreaRazvan/wisebrief/internal/brief"
)

func readBack(t *testing.T, data []byte) *ledongthuc.Reader {
	t.Helper()
	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading rendered pdf: %v", err)
	}
	return r
}

func render(t *testing.T, opts Options) []byte {
	t.Helper()
	data, err := Render(opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return data
}

func sampleSections(n int) []brief.Section {
	sections := make([]brief.Section, n)
	for i := range sections {
		sections[i] = brief.Section{
			Title:   fmt.Sprintf("Section %d", i+1),
			Content: strings.Repeat("A line of brief copy that wraps across the content width. ", 8),
		}
	}
	return sections
}

func TestRender_EmptyBrief(t *testing.T) {
	data := render(t, Options{BrandDescription: "Nova Sneakers"})

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output does not start with PDF magic")
	}
	r := readBack(t, data)
	if r.NumPage() < 1 {
		t.Errorf("page count = %d, want >= 1", r.NumPage())
	}
}

func TestRender_ContentGrowsPages(t *testing.T) {
	small := render(t, Options{
		BrandDescription: "Nova Sneakers",
		Sections:         sampleSections(1),
	})
	large := render(t, Options{
		BrandDescription: "Nova Sneakers",
		Sections:         sampleSections(20),
	})

	smallPages := readBack(t, small).NumPage()
	largePages := readBack(t, large).NumPage()
	if largePages <= smallPages {
		t.Errorf("page count did not grow: %d -> %d", smallPages, largePages)
	}
}

func TestRender_WithAnnotations(t *testing.T) {
	annotations := []annotation.Annotation{
		annotation.NewHighlight("Run free", "The Idea"),
		annotation.NewComment("Every street is a track", "The Hook", "sharper verb here"),
		annotation.NewSource(brief.Source{
			Title:       "OpenAI",
			URL:         "https://openai.com",
			Description: "the company",
		}),
	}

	data := render(t, Options{
		BrandDescription: "Nova Sneakers",
		Sections:         sampleSections(2),
		Annotations:      annotations,
	})

	r := readBack(t, data)
	if r.NumPage() < 2 {
		t.Errorf("expected at least cover + content pages, got %d", r.NumPage())
	}
}

func TestRender_ManyAnnotationsPaginate(t *testing.T) {
	var annotations []annotation.Annotation
	for i := 0; i < 60; i++ {
		annotations = append(annotations, annotation.NewHighlight(
			fmt.Sprintf("highlighted passage %d with some length to it", i), "The Idea"))
	}

	few := render(t, Options{BrandDescription: "b", Sections: sampleSections(1)})
	many := render(t, Options{
		BrandDescription: "b",
		Sections:         sampleSections(1),
		Annotations:      annotations,
	})

	if readBack(t, many).NumPage() <= readBack(t, few).NumPage() {
		t.Error("annotation pages missing")
	}
}

func TestRender_RemovedHighlightShrinksExport(t *testing.T) {
	store := annotation.NewStore()
	a := annotation.NewHighlight("Run free", "The Idea")
	store.Add(a)

	sections := sampleSections(1)
	withHighlight := readBack(t, render(t, Options{
		BrandDescription: "b",
		Sections:         sections,
		Annotations:      store.All(),
	})).NumPage()

	store.Remove(a.ID)
	afterRemove := readBack(t, render(t, Options{
		BrandDescription: "b",
		Sections:         sections,
		Annotations:      store.All(),
	})).NumPage()

	if afterRemove >= withHighlight {
		t.Errorf("page count after removal = %d, want fewer than %d", afterRemove, withHighlight)
	}
}

func TestRender_LongMultibyteComment(t *testing.T) {
	data := render(t, Options{
		BrandDescription: "b",
		Sections:         sampleSections(1),
		Annotations: []annotation.Annotation{
			annotation.NewComment(strings.Repeat("é", 120), "The Idea", "tighten this"),
		},
	})

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	readBack(t, data)
}

func TestRender_FooterCounterTotals(t *testing.T) {
	data := render(t, Options{BrandDescription: "b", Sections: sampleSections(20)})

	r := readBack(t, data)
	total := r.NumPage()
	if total < 3 {
		t.Fatalf("expected a multi-page document, got %d pages", total)
	}

	text, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatalf("extracting page text: %v", err)
	}
	want := fmt.Sprintf("1 / %d", total)
	if !strings.Contains(text, want) {
		t.Errorf("page 1 text does not contain the substituted counter %q", want)
	}
}

func TestRender_UnicodePunctuation(t *testing.T) {
	data := render(t, Options{
		BrandDescription: "Café Métropole — “quiet luxury”",
		Sections: []brief.Section{
			{Title: "L'Idée", Content: "Des cafés — très bons. Prix: 3€ n'existe pas en cp1252, mais ça passe."},
		},
	})

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		brand string
		want  string
	}{
		{"Nova Sneakers", "wise-brief-nova-sneakers.pdf"},
		{"Spaced   Out Brand", "wise-brief-spaced-out-brand.pdf"},
		{"", "wise-brief-.pdf"},
		{strings.Repeat("x", 50), "wise-brief-" + strings.Repeat("x", 30) + ".pdf"},
	}
	for _, tt := range tests {
		if got := Filename(tt.brand); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.brand, got, tt.want)
		}
	}
}
