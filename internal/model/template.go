package model

import "fmt"

// Template selects the visual skin used for both preview and export.
type Template string

const (
	TemplateClassic Template = "classic"
	TemplateModern  Template = "modern"
	TemplateMinimal Template = "minimal"
	TemplateBold    Template = "bold"
)

// Templates lists every skin in display order.
var Templates = []Template{TemplateClassic, TemplateModern, TemplateMinimal, TemplateBold}

func ParseTemplate(s string) (Template, error) {
	for _, t := range Templates {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown template %q", s)
}

// Valid reports whether t is one of the four skins.
func (t Template) Valid() bool {
	_, err := ParseTemplate(string(t))
	return err == nil
}
