package ingest

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Plan is a declarative list of provider searches to ingest.
type Plan struct {
	Defaults SearchDefaults `yaml:"defaults"`
	Searches []SeedSearch   `yaml:"searches"`
}

// SearchDefaults apply to every search that leaves the field unset.
type SearchDefaults struct {
	City       string  `yaml:"city"`
	State      string  `yaml:"state"`
	Latitude   float64 `yaml:"lat"`
	Longitude  float64 `yaml:"lng"`
	RadiusM    float64 `yaml:"radius_m"`
	MaxResults int     `yaml:"max_results"`
}

// SeedSearch is one text search plus the directory attributes its results
// are filed under.
type SeedSearch struct {
	Query      string  `yaml:"query"`
	Category   string  `yaml:"category"`
	City       string  `yaml:"city"`
	State      string  `yaml:"state"`
	Latitude   float64 `yaml:"lat"`
	Longitude  float64 `yaml:"lng"`
	RadiusM    float64 `yaml:"radius_m"`
	MaxResults int     `yaml:"max_results"`
}

// LoadPlan reads a seed plan from a YAML file and applies defaults.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read seed plan %s", path)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, eris.Wrap(err, "ingest: parse seed plan")
	}
	if len(plan.Searches) == 0 {
		return nil, eris.New("ingest: seed plan has no searches")
	}

	for i := range plan.Searches {
		s := &plan.Searches[i]
		if s.Query == "" {
			return nil, eris.Errorf("ingest: search %d missing query", i)
		}
		if s.Category == "" {
			return nil, eris.Errorf("ingest: search %d missing category", i)
		}
		if s.City == "" {
			s.City = plan.Defaults.City
		}
		if s.State == "" {
			s.State = plan.Defaults.State
		}
		if s.Latitude == 0 && s.Longitude == 0 {
			s.Latitude = plan.Defaults.Latitude
			s.Longitude = plan.Defaults.Longitude
		}
		if s.RadiusM == 0 {
			s.RadiusM = plan.Defaults.RadiusM
		}
		if s.MaxResults == 0 {
			s.MaxResults = plan.Defaults.MaxResults
		}
	}

	return &plan, nil
}
