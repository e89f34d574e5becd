package main

import (
	"bytes"
	"fmt"
	"github.com/myrjola/agrolens/internal/contexthelpers"
	"github.com/myrjola/agrolens/internal/errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// placeholderFuncs must be registered before parsing the templates. The render
// functions override them with request-scoped implementations.
func placeholderFuncs() template.FuncMap {
	return template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
	}
}

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include a template named "page".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	files := []string{
		filepath.Join(app.uiDir, "templates", "base.gohtml"),
	}

	partialFiles, err := filepath.Glob(filepath.Join(app.uiDir, "templates", "partials", "*.gohtml"))
	if err != nil {
		return nil, fmt.Errorf("glob partial template files: %w", err)
	}
	files = append(files, partialFiles...)

	pageTemplateFiles, err := filepath.Glob(filepath.Join(app.uiDir, "templates", "pages", pageName, "*.gohtml"))
	if err != nil {
		return nil, fmt.Errorf("glob page template files: %w", err)
	}
	files = append(files, pageTemplateFiles...)

	return template.New(pageName).Funcs(placeholderFuncs()).ParseFiles(files...)
}

func (app *application) partialTemplate() (*template.Template, error) {
	files, err := filepath.Glob(filepath.Join(app.uiDir, "templates", "partials", "*.gohtml"))
	if err != nil {
		return nil, fmt.Errorf("glob partial template files: %w", err)
	}

	return template.New("partials").Funcs(placeholderFuncs()).ParseFiles(files...)
}

func (app *application) requestFuncs(r *http.Request) template.FuncMap {
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=%q", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=%q/>", contexthelpers.CSRFToken(ctx))
	return template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec, we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec, we trust the csrf since it's not provided by user.
		},
	}
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, file string, data any) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(file); err != nil {
		app.serverError(w, r, errors.Wrap(err, "parse template", slog.String("template", file)))
		return
	}

	buf := new(bytes.Buffer)
	t.Funcs(app.requestFuncs(r))
	if err = t.ExecuteTemplate(buf, "base", data); err != nil {
		app.serverError(w, r, errors.Wrap(err, "execute template", slog.String("template", file)))
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}

// executePartial renders a named template from ui/templates/partials into a
// buffer so that it can be served directly or wrapped in an SSE event.
func (app *application) executePartial(r *http.Request, name string, data any) (*bytes.Buffer, error) {
	t, err := app.partialTemplate()
	if err != nil {
		return nil, errors.Wrap(err, "parse partial templates")
	}

	buf := new(bytes.Buffer)
	t.Funcs(app.requestFuncs(r))
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, errors.Wrap(err, "execute template", slog.String("template", name))
	}
	return buf, nil
}

func (app *application) renderPartial(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	buf, err := app.executePartial(r, name, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(status)

	_, _ = buf.WriteTo(w)
}
