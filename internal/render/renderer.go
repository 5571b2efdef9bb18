package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"clearvide/internal/model"
)

// Surface is a rendering target for the same View.
type Surface string

const (
	// SurfacePreview is an embeddable HTML fragment styled for the screen.
	SurfacePreview Surface = "preview"
	// SurfaceExport is a standalone A4 document handed to the PDF engine.
	SurfaceExport Surface = "export"
)

type skin struct {
	namePlaceholder string
}

var skins = map[model.Template]skin{
	model.TemplateClassic: {namePlaceholder: "Your Name"},
	model.TemplateModern:  {namePlaceholder: "Your Name"},
	model.TemplateMinimal: {namePlaceholder: "Your Name"},
	model.TemplateBold:    {namePlaceholder: "YOUR NAME"},
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("skins").ParseFS(templateFS, "templates/*.html"))

// Render executes the skin template for surface. Output depends only on the
// arguments.
func Render(surface Surface, tpl model.Template, doc model.ResumeDocument, isPremium bool) ([]byte, error) {
	if surface != SurfacePreview && surface != SurfaceExport {
		return nil, fmt.Errorf("unknown surface %q", surface)
	}
	v := BuildView(tpl, doc, isPremium)
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, string(v.Skin)+"."+string(surface), v); err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", v.Skin, surface, err)
	}
	return buf.Bytes(), nil
}

func Preview(tpl model.Template, doc model.ResumeDocument, isPremium bool) ([]byte, error) {
	return Render(SurfacePreview, tpl, doc, isPremium)
}

func Export(tpl model.Template, doc model.ResumeDocument, isPremium bool) ([]byte, error) {
	return Render(SurfaceExport, tpl, doc, isPremium)
}
