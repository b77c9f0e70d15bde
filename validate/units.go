package validate

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var unitsYAML []byte

var (
	unitsOnce sync.Once
	units     map[string][]string
)

func unitTable() map[string][]string {
	unitsOnce.Do(func() {
		var table map[string][]string
		if err := yaml.Unmarshal(unitsYAML, &table); err != nil {
			panic(fmt.Sprintf("validate: embedded unit table: %v", err))
		}
		units = make(map[string][]string, len(table))
		for q, us := range table {
			units[strings.ToLower(q)] = us
		}
	})

	return units
}

// KnownQuantity reports whether quantity is in the unit table. Quantity names
// are matched without regard to case; unit symbols are case sensitive.
func KnownQuantity(quantity string) bool {
	_, ok := unitTable()[strings.ToLower(quantity)]
	return ok
}

// LegalUnit reports whether unit is legal for quantity. With an empty quantity
// the unit only has to be legal for some known quantity.
func LegalUnit(quantity, unit string) bool {
	table := unitTable()
	if quantity != "" {
		return slices.Contains(table[strings.ToLower(quantity)], unit)
	}

	for _, us := range table {
		if slices.Contains(us, unit) {
			return true
		}
	}

	return false
}
