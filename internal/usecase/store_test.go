package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearvide/internal/model"
)

func newStore(kv KeyValue) *ResumeStore {
	d := NewDurable(kv, "s1", nil)
	return NewResumeStore(d.LoadDocument(), d)
}

func TestUpdateEmploymentLeavesOtherEntriesUntouched(t *testing.T) {
	s := newStore(newFakeKV())
	a := s.AddEmployment()
	b := s.AddEmployment()
	s.UpdateEmployment(b, model.EmploymentPatch{JobTitle: model.String("Engineer")})
	before := s.Document()

	s.UpdateEmployment(a, model.EmploymentPatch{Company: model.String("Acme"), Current: model.Bool(true)})
	after := s.Document()

	require.Len(t, after.Employment, 2)
	assert.Equal(t, a, after.Employment[0].ID)
	assert.Equal(t, "Acme", after.Employment[0].Company)
	assert.True(t, after.Employment[0].Current)
	assert.Equal(t, before.Employment[1], after.Employment[1])
	assert.Equal(t, before.Education, after.Education)
	assert.Equal(t, before.PersonalDetails, after.PersonalDetails)
}

func TestUnknownIDIsNoOp(t *testing.T) {
	kv := newFakeKV()
	s := newStore(kv)
	s.AddEducation()
	before := s.Document()
	sets := kv.sets

	s.UpdateEducation("missing", model.EducationPatch{Degree: model.String("PhD")})
	s.RemoveEducation("missing")
	s.RemoveEmployment("missing")

	assert.Equal(t, before, s.Document())
	assert.Equal(t, sets, kv.sets)
}

func TestAddThenRemoveRestoresDocument(t *testing.T) {
	s := newStore(newFakeKV())
	s.UpdatePersonalDetails(model.PersonalDetailsPatch{FullName: model.String("Ada")})
	s.AddEmployment()
	before := s.Document()

	id := s.AddEmployment()
	require.Len(t, s.Document().Employment, 2)
	s.RemoveEmployment(id)
	assert.Equal(t, before, s.Document())

	eid := s.AddEducation()
	s.RemoveEducation(eid)
	assert.Equal(t, before, s.Document())
}

func TestDocumentReturnsCopy(t *testing.T) {
	s := newStore(newFakeKV())
	s.UpdateSkills([]string{"Go"})
	d := s.Document()
	d.Skills[0] = "Rust"
	assert.Equal(t, []string{"Go"}, s.Document().Skills)
}

func TestAddSkillTwiceIsNoOp(t *testing.T) {
	s := newStore(newFakeKV())
	assert.True(t, s.AddSkill("  Go "))
	assert.False(t, s.AddSkill("Go"))
	assert.False(t, s.AddSkill("   "))
	assert.Equal(t, []string{"Go"}, s.Document().Skills)

	assert.True(t, s.AddLanguage("French"))
	assert.False(t, s.AddLanguage("French"))
	assert.True(t, s.RemoveLanguage("French"))
	assert.False(t, s.RemoveLanguage("French"))
	assert.Empty(t, s.Document().Languages)
}

func TestUpdateSkillsKeepsDuplicates(t *testing.T) {
	s := newStore(newFakeKV())
	s.UpdateSkills([]string{"Go", "Go"})
	assert.Equal(t, []string{"Go", "Go"}, s.Document().Skills)
}

func TestMergeSkillsReturnsOnlyNewOnes(t *testing.T) {
	s := newStore(newFakeKV())
	s.AddSkill("Go")
	added := s.MergeSkills([]string{"Go", "SQL", " SQL ", "Docker"})
	assert.Equal(t, []string{"SQL", "Docker"}, added)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, s.Document().Skills)
}

func TestMutationsArePersisted(t *testing.T) {
	kv := newFakeKV()
	s := newStore(kv)
	s.UpdateSummary("Builds things.")

	var doc model.ResumeDocument
	require.NoError(t, json.Unmarshal(kv.raw("s1", KeyResumeData), &doc))
	assert.Equal(t, "Builds things.", doc.Summary)

	reloaded := newStore(kv)
	assert.Equal(t, s.Document(), reloaded.Document())
}

func TestPersistenceFailureDoesNotBlockMutation(t *testing.T) {
	kv := newFakeKV()
	kv.failSet = true
	s := newStore(kv)

	s.UpdatePersonalDetails(model.PersonalDetailsPatch{FullName: model.String("Ada")})
	assert.Equal(t, "Ada", s.Document().PersonalDetails.FullName)
	assert.Equal(t, 1, kv.sets)
}

func TestCorruptStoredDataResetsToDefaults(t *testing.T) {
	kv := newFakeKV()
	kv.data["s1/"+KeyResumeData] = []byte(`{"skills":"not a list"}`)
	kv.data["s1/"+KeyResumeTemplate] = []byte(`"fancy"`)
	kv.data["s1/"+KeyIsPro] = []byte(`"yes"`)

	d := NewDurable(kv, "s1", nil)
	assert.Equal(t, model.NewDocument(), d.LoadDocument())
	assert.Equal(t, model.TemplateClassic, d.LoadTemplate())
	assert.Equal(t, model.Entitlements{}, d.LoadEntitlements())
}

func TestDurableRoundTripsTemplateAndFlags(t *testing.T) {
	kv := newFakeKV()
	d := NewDurable(kv, "s1", nil)
	d.SaveTemplate(model.TemplateBold)
	d.SaveEntitlements(model.Entitlements{HasPurchasedTemplates: true})

	assert.Equal(t, model.TemplateBold, d.LoadTemplate())
	assert.Equal(t, model.Entitlements{HasPurchasedTemplates: true}, d.LoadEntitlements())
}
