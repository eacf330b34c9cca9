package router

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the phrase lists driving classification. The lists are static
// per deployment; the tie-break order in Route is policy, so deployments
// that need different vocabulary load their own rules file instead of
// patching code.
type Rules struct {
	// CRMTriggers gate all CRM intents; without one of these the message
	// routes to document Q&A.
	CRMTriggers []string `yaml:"crm_triggers"`

	// PingPhrases trigger the CRM connectivity check.
	PingPhrases []string `yaml:"ping_phrases"`

	// OverviewPhrases request the full board listing.
	OverviewPhrases []string `yaml:"overview_phrases"`

	EmailPhrases    []string `yaml:"email_phrases"`
	MeetingPhrases  []string `yaml:"meeting_phrases"`
	NextStepPhrases []string `yaml:"next_step_phrases"`
}

// DefaultRules returns the deployed Danish phrase lists.
func DefaultRules() Rules {
	return Rules{
		CRMTriggers: []string{"monday", "crm"},

		PingPhrases: []string{"monday test"},

		OverviewPhrases: []string{
			"alle kunder", "alle leads", "hvilke leads har vi",
			"hvilke kunder har vi", "overblik over vores leads", "overblik over kunder",
		},

		EmailPhrases: []string{
			"skriv en mail", "skriv en e-mail", "skriv email", "skriv en email",
			"formuler en mail", "lav en mail", "follow up mail", "opfølgningsmail",
		},

		MeetingPhrases: []string{
			"forbered møde", "forberedelse til møde", "mødeforberedelse",
			"prepare meeting", "prepare for meeting", "salgsmøde", "kundemøde",
		},

		NextStepPhrases: []string{
			"næste skridt", "next steps", "hvad gør vi nu", "hvad er næste skridt",
			"hvad bør jeg gøre nu",
		},
	}
}

// LoadRules reads a rules file, filling any list left empty with its
// default so a partial file overrides only what it names.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	defaults := DefaultRules()
	if len(rules.CRMTriggers) == 0 {
		rules.CRMTriggers = defaults.CRMTriggers
	}
	if len(rules.PingPhrases) == 0 {
		rules.PingPhrases = defaults.PingPhrases
	}
	if len(rules.OverviewPhrases) == 0 {
		rules.OverviewPhrases = defaults.OverviewPhrases
	}
	if len(rules.EmailPhrases) == 0 {
		rules.EmailPhrases = defaults.EmailPhrases
	}
	if len(rules.MeetingPhrases) == 0 {
		rules.MeetingPhrases = defaults.MeetingPhrases
	}
	if len(rules.NextStepPhrases) == 0 {
		rules.NextStepPhrases = defaults.NextStepPhrases
	}
	return rules, nil
}
