package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedRule is one keyword -> category default mapping.
type SeedRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// defaultRules is the built-in global-tier seed set. Keywords match as
// substrings, so "ah " and "bp " keep their trailing space to avoid
// matching inside unrelated words.
var defaultRules = []SeedRule{
	{"odido", "Mobiel abonnement / Internet"},
	{"ziggo", "Mobiel abonnement / Internet"},
	{"kpn", "Mobiel abonnement / Internet"},
	{"t-mobile", "Mobiel abonnement / Internet"},

	{"albert heijn", "Boodschappen"},
	{"ah ", "Boodschappen"}, // "AH 1234" in statement descriptions
	{"jumbo", "Boodschappen"},
	{"lidl", "Boodschappen"},
	{"aldi", "Boodschappen"},
	{"plus", "Boodschappen"},

	{"shell", "Benzine"},
	{"esso", "Benzine"},
	{"bp ", "Benzine"},

	{"netflix", "Abonnementen"},
	{"spotify", "Abonnementen"},
	{"disney", "Abonnementen"},

	{"salaris", "Inkomen"},
	{"loon", "Inkomen"},

	{"huur", "Wonen"},
	{"hypotheek", "Wonen"},
	{"nuon", "Nutsvoorzieningen"},
	{"eneco", "Nutsvoorzieningen"},
	{"vattenfall", "Nutsvoorzieningen"},
	{"essent", "Nutsvoorzieningen"},
	{"waternet", "Nutsvoorzieningen"},
}

type seedFile struct {
	Rules []SeedRule `yaml:"rules"`
}

// SeedDefaultRules upserts the built-in global rules, extended by the
// optional YAML rules file when rulesFile names one that exists. Returns
// the number of rules ensured. Upserts are idempotent, so reseeding never
// changes an existing rule's category.
func (s *Store) SeedDefaultRules(rulesFile string) (int, error) {
	rules := append([]SeedRule{}, defaultRules...)

	if rulesFile != "" {
		extra, err := loadSeedFile(rulesFile)
		if err != nil {
			return 0, err
		}
		rules = append(rules, extra...)
	}

	n := 0
	for _, r := range rules {
		keyword := strings.TrimSpace(r.Keyword)
		category := strings.TrimSpace(r.Category)
		// A trailing space is deliberate for short keywords, so only
		// fully blank fields are rejected.
		if keyword == "" || category == "" {
			log.WithField("keyword", r.Keyword).Warn("Skipping seed rule with empty keyword or category")
			continue
		}
		if err := s.AddGlobalRule(r.Keyword, category); err != nil {
			return n, err
		}
		n++
	}

	log.WithField("count", n).Info("Ensured default rules")
	return n, nil
}

func loadSeedFile(path string) ([]SeedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.WithField("file", path).Warn("Seed rules file not found, using built-in defaults only")
			return nil, nil
		}
		return nil, fmt.Errorf("read seed rules file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed rules file %s: %w", path, err)
	}

	log.WithFields(map[string]interface{}{
		"file":  path,
		"count": len(f.Rules),
	}).Debug("Loaded extra seed rules")
	return f.Rules, nil
}
