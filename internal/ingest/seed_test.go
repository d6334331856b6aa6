package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlanAppliesDefaults(t *testing.T) {
	path := writePlan(t, `
defaults:
  city: Asheville
  state: NC
  lat: 35.5951
  lng: -82.5515
  radius_m: 15000
  max_results: 20
searches:
  - query: coffee shops in Asheville NC
    category: coffee
  - query: breweries in Boone NC
    category: brewery
    city: Boone
    lat: 36.2168
    lng: -81.6746
    max_results: 5
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan.Searches, 2)

	first := plan.Searches[0]
	assert.Equal(t, "Asheville", first.City)
	assert.Equal(t, "NC", first.State)
	assert.Equal(t, 35.5951, first.Latitude)
	assert.Equal(t, 15000.0, first.RadiusM)
	assert.Equal(t, 20, first.MaxResults)

	second := plan.Searches[1]
	assert.Equal(t, "Boone", second.City)
	assert.Equal(t, "NC", second.State)
	assert.Equal(t, 36.2168, second.Latitude)
	assert.Equal(t, -81.6746, second.Longitude)
	assert.Equal(t, 5, second.MaxResults)
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPlanRejectsEmpty(t *testing.T) {
	path := writePlan(t, "searches: []\n")
	_, err := LoadPlan(path)
	assert.ErrorContains(t, err, "no searches")
}

func TestLoadPlanRejectsMissingQuery(t *testing.T) {
	path := writePlan(t, `
searches:
  - category: coffee
`)
	_, err := LoadPlan(path)
	assert.ErrorContains(t, err, "missing query")
}

func TestLoadPlanRejectsMissingCategory(t *testing.T) {
	path := writePlan(t, `
searches:
  - query: tacos
`)
	_, err := LoadPlan(path)
	assert.ErrorContains(t, err, "missing category")
}
