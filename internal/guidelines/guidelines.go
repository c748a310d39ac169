// Package guidelines loads the reference preventive-care guideline set
// and filters it by patient demographics before the guideline-grounded
// recommendation stage.
package guidelines

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Guideline is one read-only record from the guideline source.
type Guideline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Population  string `json:"population"`
	Grade       string `json:"grade"`
	Category    string `json:"category"`
}

// FallbackLimit is how many guidelines are returned unfiltered when no
// demographic rule matches. Over-including beats silently producing
// zero guidance, so this safety valve is deliberate.
const FallbackLimit = 10

// AdultAgeThreshold separates the adult and child population brackets.
const AdultAgeThreshold = 18

// LoadFile reads a JSON array of guidelines. A missing file yields an
// empty set rather than an error; the guideline-grounded stage simply
// contributes nothing in that case.
func LoadFile(path string) ([]Guideline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read guidelines: %w", err)
	}

	var gs []Guideline
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to parse guidelines: %w", err)
	}
	return gs, nil
}

// FilterByDemographics selects guidelines whose population descriptor
// matches the patient's age bracket or literal age, or whose descriptor
// names the patient's sex or an all-populations marker. Pass age 0 or a
// blank sex when unknown. If nothing matches, the first FallbackLimit
// guidelines are returned unfiltered.
func FilterByDemographics(gs []Guideline, age int, sex string) []Guideline {
	if len(gs) == 0 {
		return nil
	}

	sexLower := strings.ToLower(strings.TrimSpace(sex))
	var filtered []Guideline
	seen := make(map[int]bool)

	include := func(i int, g Guideline) {
		if !seen[i] {
			seen[i] = true
			filtered = append(filtered, g)
		}
	}

	for i, g := range gs {
		population := strings.ToLower(g.Population)

		if age > 0 {
			switch {
			case strings.Contains(population, "adults") && age >= AdultAgeThreshold:
				include(i, g)
			case strings.Contains(population, "children") && age < AdultAgeThreshold:
				include(i, g)
			case strings.Contains(population, strconv.Itoa(age)):
				include(i, g)
			}
		}

		if sexLower != "" && (strings.Contains(population, sexLower) || strings.Contains(population, "all")) {
			include(i, g)
		}
	}

	if len(filtered) == 0 {
		if len(gs) > FallbackLimit {
			return gs[:FallbackLimit]
		}
		return gs
	}
	return filtered
}
