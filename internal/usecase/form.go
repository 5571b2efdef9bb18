package usecase

import (
	"slices"
	"strings"

	"clearvide/internal/model"
)

// Form-level list editing. Unlike UpdateSkills/UpdateLanguages these trim
// input and refuse duplicates, so repeated submissions are no-ops.

func addUnique(list []string, input string) ([]string, bool) {
	v := strings.TrimSpace(input)
	if v == "" || slices.Contains(list, v) {
		return list, false
	}
	return append(append([]string{}, list...), v), true
}

func without(list []string, value string) ([]string, bool) {
	i := slices.Index(list, value)
	if i < 0 {
		return list, false
	}
	return slices.Delete(append([]string{}, list...), i, i+1), true
}

// AddSkill reports whether the skill was added.
func (s *ResumeStore) AddSkill(input string) bool {
	var added bool
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Skills, added = addUnique(d.Skills, input)
		return added
	})
	return added
}

func (s *ResumeStore) RemoveSkill(skill string) bool {
	var removed bool
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Skills, removed = without(d.Skills, skill)
		return removed
	})
	return removed
}

func (s *ResumeStore) AddLanguage(input string) bool {
	var added bool
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Languages, added = addUnique(d.Languages, input)
		return added
	})
	return added
}

func (s *ResumeStore) RemoveLanguage(language string) bool {
	var removed bool
	s.mutate(func(d *model.ResumeDocument) bool {
		d.Languages, removed = without(d.Languages, language)
		return removed
	})
	return removed
}

// MergeSkills adds each suggestion through the dedup path in one write and
// returns the ones that were new.
func (s *ResumeStore) MergeSkills(suggestions []string) []string {
	added := []string{}
	s.mutate(func(d *model.ResumeDocument) bool {
		for _, sug := range suggestions {
			var ok bool
			if d.Skills, ok = addUnique(d.Skills, sug); ok {
				added = append(added, d.Skills[len(d.Skills)-1])
			}
		}
		return len(added) > 0
	})
	return added
}
