package service

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/foodlog/foodlog/internal/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type ContentPage struct {
	Slug        string
	Title       string
	Description string
	CTA         string
	HTML        string
}

// ContentService renders the markdown pages found in a content filesystem.
type ContentService struct {
	fsys   fs.FS
	parser *markdown.Parser
	pages  map[string]*ContentPage
}

func NewContentService(fsys fs.FS) *ContentService {
	return &ContentService{
		fsys:   fsys,
		parser: markdown.NewParser(),
		pages:  make(map[string]*ContentPage),
	}
}

func (s *ContentService) LoadPages() error {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read content directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), ".md")
		page, err := s.loadPage(slug)
		if err != nil {
			return fmt.Errorf("failed to load page %s: %w", slug, err)
		}
		s.pages[slug] = page
	}

	return nil
}

func (s *ContentService) loadPage(slug string) (*ContentPage, error) {
	source, err := fs.ReadFile(s.fsys, slug+".md")
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := s.parser.Render(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	page := &ContentPage{
		Slug:        slug,
		Title:       doc.Meta.Title,
		Description: doc.Meta.Description,
		CTA:         doc.Meta.CTA,
		HTML:        doc.HTML,
	}
	if page.Title == "" {
		page.Title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}

	return page, nil
}

func (s *ContentService) Page(slug string) (*ContentPage, bool) {
	page, ok := s.pages[slug]
	return page, ok
}
