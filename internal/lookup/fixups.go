package lookup

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/uisautomation/assetmigrate/pkg/errors"
)

// Fixup pins one original department string to an institution identifier,
// bypassing the directory service.
type Fixup struct {
	Original string `yaml:"original"`
	InstID   string `yaml:"instid"`
}

// Fixups is the operator-curated override table loaded from a YAML file.
type Fixups struct {
	Institutions []Fixup `yaml:"institutions"`
}

// LoadFixups reads a fixups file.
func LoadFixups(path string) (*Fixups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var f Fixups
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &f, nil
}
