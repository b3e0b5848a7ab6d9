// Package pages holds the server-rendered views. Each view is an
// html/template set (layout plus one page) exposed as a templ.Component,
// so handlers render everything through ui.Render.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
	"github.com/foodlog/foodlog/internal/ctxkeys"
	"github.com/foodlog/foodlog/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Shell is the per-request data every page layout needs.
type Shell struct {
	AppName       string
	Tagline       string
	User          *model.User
	Profile       *model.Profile
	CSRFToken     string
	Nonce         string
	Path          string
	GoogleEnabled bool
}

func (s Shell) SignedIn() bool {
	return s.User != nil
}

func (s Shell) DisplayName() string {
	if s.Profile != nil {
		return s.Profile.DisplayName()
	}
	if s.User != nil {
		return s.User.Email
	}
	return "User"
}

func (s Shell) AvatarURL() string {
	if s.Profile != nil && s.Profile.AvatarURL != "" {
		return s.Profile.AvatarURL
	}
	return "/assets/img/avatar.svg"
}

func shellFrom(ctx context.Context) Shell {
	shell := Shell{
		AppName:   "FoodLog",
		User:      ctxkeys.User(ctx),
		Profile:   ctxkeys.Profile(ctx),
		CSRFToken: ctxkeys.CSRFToken(ctx),
		Nonce:     templ.GetNonce(ctx),
		Path:      ctxkeys.URLPath(ctx),
	}
	if cfg := ctxkeys.Config(ctx); cfg != nil {
		if cfg.AppName != "" {
			shell.AppName = cfg.AppName
		}
		shell.Tagline = cfg.AppTagline
		shell.GoogleEnabled = cfg.GoogleClientID != ""
	}
	return shell
}

type view struct {
	Shell Shell
	Data  any
}

var views = mustParseViews()

// mustParseViews builds one template set per page file, each sharing the
// layout and partials.
func mustParseViews() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/_*.html"))

	pageFiles, err := fs.Glob(templateFS, "templates/[a-z]*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		set := template.Must(base.Clone())
		template.Must(set.ParseFS(templateFS, file))
		parsed[strings.TrimSuffix(path.Base(file), ".html")] = set
	}
	return parsed
}

// component executes the named template of a page set with the request shell.
func component(page, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		set, ok := views[page]
		if !ok {
			return fmt.Errorf("unknown page %q", page)
		}
		return set.ExecuteTemplate(w, name, view{Shell: shellFrom(ctx), Data: data})
	})
}

func pageComponent(page string, data any) templ.Component {
	return component(page, "layout", data)
}
