// Package catalog holds the agency's business facts: services, pricing tiers,
// rollout phases, benchmarks and FAQ. The same facts back the landing page
// data endpoints and the assistant's system prompt.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"blgs-backend/internal/models"
)

//go:embed facts.yaml
var defaultFacts []byte

// Default returns the canonical facts shipped with the binary.
func Default() (*models.Facts, error) {
	facts, err := Parse(defaultFacts)
	if err != nil {
		return nil, fmt.Errorf("embedded facts: %w", err)
	}
	return facts, nil
}

// Load reads facts from a YAML file. An empty path yields the defaults.
func Load(path string) (*models.Facts, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}
	facts, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return facts, nil
}

// Parse decodes and validates a YAML facts document. Unknown keys are rejected
// so typos in an override file fail loudly.
func Parse(raw []byte) (*models.Facts, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var facts models.Facts
	if err := dec.Decode(&facts); err != nil {
		return nil, fmt.Errorf("failed to parse facts: %w", err)
	}
	if err := Validate(&facts); err != nil {
		return nil, err
	}
	return &facts, nil
}

// Validate reports every problem found, joined.
func Validate(facts *models.Facts) error {
	var errs []error

	if strings.TrimSpace(facts.Company) == "" {
		errs = append(errs, errors.New("company is required"))
	}
	if len(facts.Plans) == 0 {
		errs = append(errs, errors.New("at least one pricing plan is required"))
	}

	planIDs := make(map[string]bool)
	for i, p := range facts.Plans {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("plans[%d]: name is required", i))
		}
		if p.Price <= 0 {
			errs = append(errs, fmt.Errorf("plans[%d]: price must be positive", i))
		}
		if p.ID != "" {
			if planIDs[p.ID] {
				errs = append(errs, fmt.Errorf("plans[%d]: duplicate id %q", i, p.ID))
			}
			planIDs[p.ID] = true
		}
	}

	serviceIDs := make(map[string]bool)
	for i, s := range facts.Services {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("services[%d]: id is required", i))
			continue
		}
		if serviceIDs[s.ID] {
			errs = append(errs, fmt.Errorf("services[%d]: duplicate id %q", i, s.ID))
		}
		serviceIDs[s.ID] = true
	}

	return errors.Join(errs...)
}

// FindPlan looks a tier up by id.
func FindPlan(facts *models.Facts, id string) (models.PricingTier, bool) {
	for _, p := range facts.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.PricingTier{}, false
}
