package vocab

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a vocabulary override from a YAML file. Sections absent
// from the file keep their defaults, so a file can override just the brand
// list without restating every table.
func LoadFile(path string) (Vocabulary, error) {
	base := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return base, eris.Wrapf(err, "vocab: read %s", path)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return base, eris.Wrapf(err, "vocab: parse %s", path)
	}

	merged := merge(base, override)
	if err := merged.Validate(); err != nil {
		return base, err
	}
	return merged, nil
}

func merge(base, override Vocabulary) Vocabulary {
	out := base
	if len(override.Sports) > 0 {
		out.Sports = override.Sports
	}
	if len(override.Indicators) > 0 {
		out.Indicators = override.Indicators
	}
	if len(override.Brands) > 0 {
		out.Brands = override.Brands
	}
	if len(override.Series) > 0 {
		out.Series = override.Series
	}
	if len(override.PlayerExclusions) > 0 {
		out.PlayerExclusions = override.PlayerExclusions
	}
	if override.YearBonus > 0 {
		out.YearBonus = override.YearBonus
	}
	if override.NumberBonus > 0 {
		out.NumberBonus = override.NumberBonus
	}
	if override.GradingBonus > 0 {
		out.GradingBonus = override.GradingBonus
	}
	return out
}
