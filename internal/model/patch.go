package model

// Patches carry partial updates. A nil field means "leave unchanged"; ids
// are deliberately absent so an update can never rewrite entry identity.

type PersonalDetailsPatch struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	LinkedIn *string `json:"linkedIn,omitempty"`
	Website  *string `json:"website,omitempty"`
	Photo    *string `json:"photo,omitempty"`
}

func (p PersonalDetailsPatch) Apply(d PersonalDetails) PersonalDetails {
	setString(&d.FullName, p.FullName)
	setString(&d.Email, p.Email)
	setString(&d.Phone, p.Phone)
	setString(&d.Location, p.Location)
	setString(&d.LinkedIn, p.LinkedIn)
	setString(&d.Website, p.Website)
	setString(&d.Photo, p.Photo)
	return d
}

type EmploymentPatch struct {
	JobTitle    *string `json:"jobTitle,omitempty"`
	Company     *string `json:"company,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Current     *bool   `json:"current,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p EmploymentPatch) Apply(e Employment) Employment {
	setString(&e.JobTitle, p.JobTitle)
	setString(&e.Company, p.Company)
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
	if p.Current != nil {
		e.Current = *p.Current
	}
	setString(&e.Description, p.Description)
	return e
}

type EducationPatch struct {
	Degree      *string `json:"degree,omitempty"`
	Institution *string `json:"institution,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p EducationPatch) Apply(e Education) Education {
	setString(&e.Degree, p.Degree)
	setString(&e.Institution, p.Institution)
	setString(&e.StartDate, p.StartDate)
	setString(&e.EndDate, p.EndDate)
	setString(&e.Description, p.Description)
	return e
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// String is a helper for building patches.
func String(s string) *string { return &s }

// Bool is a helper for building patches.
func Bool(b bool) *bool { return &b }
