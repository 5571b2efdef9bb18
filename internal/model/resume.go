package model

// Go models that match resume.schema.json and the persisted resumeData payload.

type PersonalDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedIn"`
	Website  string `json:"website"`
	// Photo is a data URI or empty.
	Photo string `json:"photo"`
}

// HasContactInfo reports whether any field of the contact line is set.
func (p PersonalDetails) HasContactInfo() bool {
	return p.Email != "" || p.Phone != "" || p.Location != "" || p.LinkedIn != "" || p.Website != ""
}

// ContactItems returns the non-empty contact fields in display order:
// email, phone, location, linkedIn, website.
func (p PersonalDetails) ContactItems() []string {
	items := make([]string, 0, 5)
	for _, v := range []string{p.Email, p.Phone, p.Location, p.LinkedIn, p.Website} {
		if v != "" {
			items = append(items, v)
		}
	}
	return items
}

type Employment struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type ResumeDocument struct {
	PersonalDetails PersonalDetails `json:"personalDetails"`
	Summary         string          `json:"summary"`
	Employment      []Employment    `json:"employment"`
	Education       []Education     `json:"education"`
	Skills          []string        `json:"skills"`
	Languages       []string        `json:"languages"`
}

// NewDocument returns the all-empty document a fresh session starts with.
func NewDocument() ResumeDocument {
	return ResumeDocument{
		Employment: []Employment{},
		Education:  []Education{},
		Skills:     []string{},
		Languages:  []string{},
	}
}

// Normalize replaces nil slices with empty ones so the document always
// encodes lists as [] rather than null.
func (d *ResumeDocument) Normalize() {
	if d.Employment == nil {
		d.Employment = []Employment{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Languages == nil {
		d.Languages = []string{}
	}
}

// Clone returns a deep copy; the copy shares no slice backing arrays with d.
func (d ResumeDocument) Clone() ResumeDocument {
	out := d
	out.Employment = append([]Employment{}, d.Employment...)
	out.Education = append([]Education{}, d.Education...)
	out.Skills = append([]string{}, d.Skills...)
	out.Languages = append([]string{}, d.Languages...)
	return out
}

// JobTitles lists the non-empty employment job titles in document order.
func (d ResumeDocument) JobTitles() []string {
	titles := []string{}
	for _, e := range d.Employment {
		if e.JobTitle != "" {
			titles = append(titles, e.JobTitle)
		}
	}
	return titles
}

// Entitlements are the session feature flags sourced from the account record.
// They gate rendering and AI access but are never resume content.
type Entitlements struct {
	IsPro                 bool `json:"isPro"`
	HasPurchasedTemplates bool `json:"hasPurchasedTemplates"`
}
