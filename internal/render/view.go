package render

import (
	"html/template"
	"strings"

	"clearvide/internal/model"
)

// Watermark is the caption shown to users without the templates purchase.
const Watermark = "Created with ClearVide"

// Entry is one employment or education row with placeholders applied.
type Entry struct {
	ID          string
	Title       string
	Subtitle    string
	Dates       string
	Description string
}

// View is the skin-ready projection of a document. Both surfaces execute
// their templates over the same View, which is what keeps them
// information-equivalent.
type View struct {
	Skin       model.Template
	Name       string
	Contact    []string
	HasPhoto   bool
	PhotoSrc   template.URL
	Summary    string
	Employment []Entry
	Education  []Entry
	Skills     []string
	Languages  []string
	// Watermark is empty when the user is premium.
	Watermark string
}

// DateRange renders an entry's period using the Start/End/Present placeholders.
func DateRange(start, end string, current bool) string {
	if start == "" {
		start = "Start"
	}
	switch {
	case current:
		end = "Present"
	case end == "":
		end = "End"
	}
	return start + " — " + end
}

// BuildView projects doc for the given skin. Unknown skins render as classic.
func BuildView(tpl model.Template, doc model.ResumeDocument, isPremium bool) View {
	sk, ok := skins[tpl]
	if !ok {
		tpl = model.TemplateClassic
		sk = skins[tpl]
	}
	pd := doc.PersonalDetails

	v := View{
		Skin:       tpl,
		Name:       orDefault(pd.FullName, sk.namePlaceholder),
		Contact:    pd.ContactItems(),
		HasPhoto:   pd.Photo != "",
		PhotoSrc:   photoSrc(pd.Photo),
		Summary:    doc.Summary,
		Employment: make([]Entry, 0, len(doc.Employment)),
		Education:  make([]Entry, 0, len(doc.Education)),
		Skills:     append([]string{}, doc.Skills...),
		Languages:  append([]string{}, doc.Languages...),
	}
	for _, e := range doc.Employment {
		v.Employment = append(v.Employment, Entry{
			ID:          e.ID,
			Title:       orDefault(e.JobTitle, "Job Title"),
			Subtitle:    orDefault(e.Company, "Company"),
			Dates:       DateRange(e.StartDate, e.EndDate, e.Current),
			Description: e.Description,
		})
	}
	for _, e := range doc.Education {
		v.Education = append(v.Education, Entry{
			ID:          e.ID,
			Title:       orDefault(e.Degree, "Degree"),
			Subtitle:    orDefault(e.Institution, "Institution"),
			Dates:       DateRange(e.StartDate, e.EndDate, false),
			Description: e.Description,
		})
	}
	if !isPremium {
		v.Watermark = Watermark
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// photoSrc trusts embedded images and web URLs; anything else is replaced
// by an inert fragment so the photo region still renders.
func photoSrc(photo string) template.URL {
	if photo == "" {
		return ""
	}
	lower := strings.ToLower(photo)
	if strings.HasPrefix(lower, "data:image/") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return template.URL(photo)
	}
	return template.URL("#")
}
