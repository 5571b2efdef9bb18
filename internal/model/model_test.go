package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactItemsOrderAndGate(t *testing.T) {
	p := PersonalDetails{Website: "w.dev", Email: "a@b.c", Location: "Paris"}
	assert.True(t, p.HasContactInfo())
	assert.Equal(t, []string{"a@b.c", "Paris", "w.dev"}, p.ContactItems())

	empty := PersonalDetails{FullName: "Ada", Photo: "data:image/png;base64,AA=="}
	assert.False(t, empty.HasContactInfo())
	assert.Empty(t, empty.ContactItems())
}

func TestPersonalDetailsPatchLeavesUnspecifiedFields(t *testing.T) {
	d := PersonalDetails{FullName: "Ada", Email: "ada@example.com"}
	got := PersonalDetailsPatch{Phone: String("123")}.Apply(d)
	assert.Equal(t, "Ada", got.FullName)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "123", got.Phone)

	cleared := PersonalDetailsPatch{Email: String("")}.Apply(got)
	assert.Equal(t, "", cleared.Email)
}

func TestEmploymentPatchCannotChangeID(t *testing.T) {
	e := Employment{ID: "e1", JobTitle: "Dev"}
	var p EmploymentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"id":"hijack","current":true,"unknown":1}`), &p))
	got := p.Apply(e)
	assert.Equal(t, "e1", got.ID)
	assert.True(t, got.Current)
	assert.Equal(t, "Dev", got.JobTitle)
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	d := NewDocument()
	d.Skills = append(d.Skills, "Go")
	c := d.Clone()
	c.Skills[0] = "Rust"
	assert.Equal(t, "Go", d.Skills[0])
}

func TestParseTemplate(t *testing.T) {
	for _, tpl := range Templates {
		got, err := ParseTemplate(string(tpl))
		require.NoError(t, err)
		assert.Equal(t, tpl, got)
	}
	_, err := ParseTemplate("fancy")
	assert.Error(t, err)
	assert.False(t, Template("").Valid())
}

func TestDecodeDocument(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		raw := []byte(`{"personalDetails":{"fullName":"Ada"},"employment":[{"id":"e1","jobTitle":"Dev","current":true}]}`)
		doc, err := DecodeDocument(raw)
		require.NoError(t, err)
		assert.Equal(t, "Ada", doc.PersonalDetails.FullName)
		require.Len(t, doc.Employment, 1)
		assert.True(t, doc.Employment[0].Current)
		assert.NotNil(t, doc.Skills)
		assert.NotNil(t, doc.Education)
	})

	t.Run("wrong types", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"skills":"Go"}`))
		assert.Error(t, err)
	})

	t.Run("entry without id", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{"education":[{"degree":"BSc"}]}`))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeDocument([]byte(`{nope`))
		assert.Error(t, err)
	})
}
