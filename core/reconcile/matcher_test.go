package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_AddressStatePostcode(t *testing.T) {
	src := SourceRecord{
		ID:          "101",
		Address:     "1 Queen Street",
		State:       "VIC blah",
		Postcode:    "3130",
		Description: "A sunny home near parks and shops.",
	}
	pool := []PublishedRecord{
		{ID: 7, Title: "2 King Street, VIC, 3130", Content: "<p>A sunny home</p>"},
		{ID: 8, Title: "1 Queen Street, VIC blah, 3130", Content: "<p>A <b>sunny</b> home</p>"},
	}

	m := Match(src, pool)

	require.True(t, m.Found())
	assert.Equal(t, 8, m.Record.ID)
	assert.False(t, m.Ambiguous())
}

func TestMatch_AddressOnly(t *testing.T) {
	src := SourceRecord{ID: "1", Address: "G09 / 1 Queen Street, Blackburn", State: "VIC", Postcode: "3130"}
	pool := []PublishedRecord{{ID: 3, Title: "G09/1 Queen Street, Blackburn"}}

	m := Match(src, pool)

	require.True(t, m.Found())
	assert.Equal(t, 3, m.Record.ID)
}

func TestMatch_ContentMismatch(t *testing.T) {
	src := SourceRecord{ID: "1", Address: "1 Queen Street", State: "VIC", Postcode: "3130", Description: "Renovated townhouse"}
	pool := []PublishedRecord{{ID: 3, Title: "1 Queen Street, VIC, 3130", Content: "<p>Vacant land</p>"}}

	m := Match(src, pool)

	assert.False(t, m.Found())
	assert.Nil(t, m.Record)
	assert.Empty(t, m.Candidates)
}

func TestMatch_EmptyDescriptionPasses(t *testing.T) {
	src := SourceRecord{ID: "1", Address: "1 Queen Street"}
	pool := []PublishedRecord{{ID: 3, Title: "1 Queen Street", Content: "<p>Anything at all</p>"}}

	assert.True(t, Match(src, pool).Found())
}

func TestMatch_AmbiguousTakesFirstInPoolOrder(t *testing.T) {
	src := SourceRecord{ID: "1", Address: "1 Queen Street", Description: "Sunny home"}
	pool := []PublishedRecord{
		{ID: 30, Title: "1 Queen Street", Content: "Sunny home"},
		{ID: 10, Title: "1 Queen Street", Content: "Sunny home with garden"},
		{ID: 20, Title: "9 Other Road", Content: "Sunny home"},
	}

	m := Match(src, pool)

	require.True(t, m.Found())
	assert.Equal(t, 30, m.Record.ID)
	assert.True(t, m.Ambiguous())
	assert.Equal(t, []int{30, 10}, m.CandidateIDs())
}

func TestMatch_SelfMatch(t *testing.T) {
	src := SourceRecord{ID: "1", Address: "5 Elm Avenue", State: "NSW", Postcode: "2000", Description: "<p>Big <i>yard</i></p>"}
	pool := []PublishedRecord{{ID: 1, Title: src.Address + ", " + src.State + ", " + src.Postcode, Content: src.Description}}

	assert.True(t, Match(src, pool).Found())
}

func TestPool_ExcludesLinkedAndClaims(t *testing.T) {
	p := newPool([]PublishedRecord{
		{ID: 1, SourceID: "crm-1"},
		{ID: 2},
		{ID: 3},
	})
	assert.Len(t, p.records(), 2)

	p.claim(2)
	require.Len(t, p.records(), 1)
	assert.Equal(t, 3, p.records()[0].ID)

	p.claim(42)
	assert.Len(t, p.records(), 1)
}
