package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// The data attributes mirror domain.Snapshot so external tooling can read
// state from the DOM.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<main class="lectern lectern-{{.Layout}}"
  data-layout="{{.Layout}}"
  data-total="{{.Total}}"
  data-current="{{.Current}}"
  {{- if .Direction}} data-direction="{{.Direction}}"{{end}}
  {{- if .Epoch}} data-epoch="{{.Epoch}}"{{end}}>
{{- range .Items}}
  <section class="item {{.Class}}" data-index="{{.Index}}" data-state="{{.State}}"{{if .Key}} data-transition-key="{{.Key}}"{{end}}>
    {{.Body}}
    {{- if .Back}}<button class="back" data-action="back">Back</button>{{end}}
    {{- if .Continue}}<button class="continue" data-action="continue"{{if not .Continue.Enabled}} disabled{{end}}>{{.Continue.Label}}</button>{{end}}
  </section>
{{- end}}
{{- if .Progress}}
  <p class="progress">{{.Progress}}</p>
{{- end}}
{{- with .Slide}}
  {{- if .Arrows}}
  <nav class="arrows arrows-{{.Arrows.Position}}">
    <button data-action="prev"{{if .Arrows.PrevDisabled}} disabled{{end}}>Previous</button>
    <button data-action="next"{{if .Arrows.NextDisabled}} disabled{{end}}>Next</button>
  </nav>
  {{- end}}
  {{- if .Dots}}
  <nav class="dots">
    {{- range .Dots}}<button data-dot="{{.Index}}" aria-label="{{.Label}}"{{if .Active}} aria-current="true"{{end}}></button>{{end}}
  </nav>
  {{- end}}
  {{- if .Counter}}<p class="counter">{{.Counter}}</p>{{end}}
{{- end}}
</main>
</body>
</html>
`))

type renderedItem struct {
	Index    int
	Class    string
	State    domain.ItemState
	Key      string
	Body     template.HTML
	Back     bool
	Continue *domain.ContinueView
}

type renderedPage struct {
	Title string
	domain.Snapshot
	Items    []renderedItem
	Progress string
	Slide    *domain.SlideView
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// Lesson content is authored, not user input.
	return template.HTML(buf.String()), nil
}

func buildPage(p *lesson.Page) (renderedPage, error) {
	out := renderedPage{
		Title:    p.Title(),
		Snapshot: p.Controller.Snapshot(),
	}

	switch v := p.Controller.View().(type) {
	case domain.StepView:
		for _, it := range v.Items {
			body, err := renderMarkdown(it.Content)
			if err != nil {
				return out, err
			}
			out.Items = append(out.Items, renderedItem{
				Index:    it.Index,
				Class:    it.ClassName,
				State:    it.State,
				Body:     body,
				Back:     it.Back,
				Continue: it.Continue,
			})
		}
		if v.Progress != nil {
			out.Progress = v.Progress.Text
		}
	case domain.SlideView:
		if v.Item != nil {
			body, err := renderMarkdown(v.Item.Content)
			if err != nil {
				return out, err
			}
			class := strings.TrimSpace(v.Item.ClassName + " " + v.TransitionClass)
			out.Items = append(out.Items, renderedItem{
				Index: v.Current,
				Class: class,
				State: domain.ItemActive,
				Key:   v.TransitionKey,
				Body:  body,
			})
		}
		out.Slide = &v
	}
	return out, nil
}

// GetPage handles GET /.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	var (
		data renderedPage
		err  error
	)
	if perr := s.withPage(r.Context(), func(p *lesson.Page) { data, err = buildPage(p) }); perr != nil {
		s.fail(w, perr)
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
