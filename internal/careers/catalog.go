package careers

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"careercompass/internal/errors"

	"gopkg.in/yaml.v3"
)

// Catalog holds the category -> subcareer reference data served by
// GET /api/careers. The built-in mapping can be replaced by a YAML
// file; the catalog is read-mostly and safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	categories map[string][]string
	logger     *errors.Logger
}

// defaultCategories is the compiled-in reference data. Subcareer
// membership is enforced by the selection UI, not here.
var defaultCategories = map[string][]string{
	"Technology & IT": {
		"Software Engineer",
		"Data Scientist",
		"Machine Learning Engineer",
		"DevOps Engineer",
		"Cybersecurity Analyst",
		"Cloud Architect",
		"Full Stack Developer",
		"Mobile App Developer",
	},
	"Business & Management": {
		"Product Manager",
		"Business Analyst",
		"Management Consultant",
		"Operations Manager",
		"Digital Marketing Manager",
		"HR Manager",
	},
	"Finance & Accounting": {
		"Chartered Accountant",
		"Investment Banker",
		"Financial Analyst",
		"Risk Manager",
		"Actuary",
	},
	"Creative & Design": {
		"UI/UX Designer",
		"Graphic Designer",
		"Content Writer",
		"Video Editor",
		"Animator",
	},
	"Healthcare & Life Sciences": {
		"Doctor (MBBS)",
		"Pharmacist",
		"Biotechnologist",
		"Clinical Researcher",
		"Physiotherapist",
	},
	"Science & Engineering": {
		"Mechanical Engineer",
		"Civil Engineer",
		"Electrical Engineer",
		"Aerospace Engineer",
		"Research Scientist",
	},
	"Law & Public Service": {
		"Corporate Lawyer",
		"Civil Services (IAS/IPS)",
		"Policy Analyst",
		"Legal Advisor",
	},
	"Education & Training": {
		"Professor/Lecturer",
		"School Teacher",
		"Instructional Designer",
		"Education Counselor",
	},
}

// NewCatalog creates a catalog seeded with the built-in categories.
func NewCatalog(logger *errors.Logger) *Catalog {
	cats := make(map[string][]string, len(defaultCategories))
	for category, subcareers := range defaultCategories {
		cats[category] = append([]string(nil), subcareers...)
	}
	return &Catalog{
		categories: cats,
		logger:     logger,
	}
}

// LoadFile replaces the catalog contents with the mapping in a YAML
// file. An unreadable or invalid file leaves the current catalog
// untouched.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read career catalog file: %s", path), err)
	}

	var parsed map[string][]string
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Invalid career catalog file: %s", path), err)
	}
	if len(parsed) == 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Career catalog file is empty: %s", path), nil)
	}

	c.mu.Lock()
	c.categories = parsed
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("Career catalog loaded from file",
			"path", path,
			"categories", len(parsed))
	}
	return nil
}

// Categories returns a copy of the full category -> subcareer mapping.
func (c *Catalog) Categories() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]string, len(c.categories))
	for category, subcareers := range c.categories {
		out[category] = append([]string(nil), subcareers...)
	}
	return out
}

// CategoryNames returns the category names in sorted order.
func (c *Catalog) CategoryNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.categories))
	for category := range c.categories {
		names = append(names, category)
	}
	sort.Strings(names)
	return names
}

// Subcareers returns the subcareer list for a category and whether
// the category exists.
func (c *Catalog) Subcareers(category string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subcareers, ok := c.categories[category]
	if !ok {
		return nil, false
	}
	return append([]string(nil), subcareers...), true
}

// Contains reports whether the subcareer belongs to the category.
func (c *Catalog) Contains(category, subcareer string) bool {
	subcareers, ok := c.Subcareers(category)
	if !ok {
		return false
	}
	for _, s := range subcareers {
		if s == subcareer {
			return true
		}
	}
	return false
}
