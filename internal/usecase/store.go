package usecase

import (
	"sync"

	"github.com/google/uuid"

	"clearvide/internal/model"
)

// ResumeStore is the single writer of one session's document. Every
// operation runs under the store mutex and ends with a best-effort durable
// write; persistence failures never undo the in-memory change.
type ResumeStore struct {
	mu      sync.Mutex
	doc     model.ResumeDocument
	durable *Durable
	newID   func() string
}

func NewResumeStore(doc model.ResumeDocument, durable *Durable) *ResumeStore {
	doc.Normalize()
	return &ResumeStore{doc: doc, durable: durable, newID: uuid.NewString}
}

// Document returns a deep copy of the current document.
func (s *ResumeStore) Document() model.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// mutate applies fn and persists when fn reports a change.
func (s *ResumeStore) mutate(fn func(d *model.ResumeDocument) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn(&s.doc) {
		s.durable.SaveDocument(s.doc)
	}
}

func (s *ResumeStore) UpdatePersonalDetails(p model.PersonalDetailsPatch) {
	s.mutate(func(d *model.ResumeDocument) bool {
		d.PersonalDetails = p.Apply(d.PersonalDetails)
		return true
	})
}

func (s *ResumeStore) UpdateSummary(text string) {
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Summary = text
		return true
	})
}

// AddEmployment appends an empty entry and returns its id.
func (s *ResumeStore) AddEmployment() string {
	id := s.newID()
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Employment = append(d.Employment[:len(d.Employment):len(d.Employment)], model.Employment{ID: id})
		return true
	})
	return id
}

// UpdateEmployment is a no-op when id is unknown.
func (s *ResumeStore) UpdateEmployment(id string, p model.EmploymentPatch) {
	s.mutate(func(d *model.ResumeDocument) bool {
		for i := range d.Employment {
			if d.Employment[i].ID == id {
				next := append([]model.Employment(nil), d.Employment...)
				next[i] = p.Apply(next[i])
				d.Employment = next
				return true
			}
		}
		return false
	})
}

func (s *ResumeStore) RemoveEmployment(id string) {
	s.mutate(func(d *model.ResumeDocument) bool {
		next := make([]model.Employment, 0, len(d.Employment))
		for _, e := range d.Employment {
			if e.ID != id {
				next = append(next, e)
			}
		}
		if len(next) == len(d.Employment) {
			return false
		}
		d.Employment = next
		return true
	})
}

func (s *ResumeStore) AddEducation() string {
	id := s.newID()
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Education = append(d.Education[:len(d.Education):len(d.Education)], model.Education{ID: id})
		return true
	})
	return id
}

func (s *ResumeStore) UpdateEducation(id string, p model.EducationPatch) {
	s.mutate(func(d *model.ResumeDocument) bool {
		for i := range d.Education {
			if d.Education[i].ID == id {
				next := append([]model.Education(nil), d.Education...)
				next[i] = p.Apply(next[i])
				d.Education = next
				return true
			}
		}
		return false
	})
}

func (s *ResumeStore) RemoveEducation(id string) {
	s.mutate(func(d *model.ResumeDocument) bool {
		next := make([]model.Education, 0, len(d.Education))
		for _, e := range d.Education {
			if e.ID != id {
				next = append(next, e)
			}
		}
		if len(next) == len(d.Education) {
			return false
		}
		d.Education = next
		return true
	})
}

// UpdateSkills replaces the list as given. Deduplication is the caller's job.
func (s *ResumeStore) UpdateSkills(list []string) {
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Skills = append([]string{}, list...)
		return true
	})
}

func (s *ResumeStore) UpdateLanguages(list []string) {
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Languages = append([]string{}, list...)
		return true
	})
}
