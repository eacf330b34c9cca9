// Package router classifies incoming messages into pipeline intents.
//
// Classification is a static keyword rule set, not a model: CRM intents
// require a CRM trigger word, the specialized CRM intents (email, meeting
// prep, next steps) take precedence over generic search, and anything
// without CRM vocabulary falls through to document Q&A.
package router

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of an incoming message.
type Intent string

const (
	// IntentDocQA answers a question from the indexed documents. Default.
	IntentDocQA Intent = "doc_qa"

	// IntentCRMSearch looks up one customer/lead on the board.
	IntentCRMSearch Intent = "crm_search"

	// IntentCRMOverview lists the whole board ("alle kunder" style asks).
	IntentCRMOverview Intent = "crm_overview"

	// IntentEmail drafts a follow-up email from CRM data.
	IntentEmail Intent = "email"

	// IntentMeetingPrep prepares a customer meeting from CRM data.
	IntentMeetingPrep Intent = "meeting_prep"

	// IntentNextSteps recommends concrete next actions for a deal.
	IntentNextSteps Intent = "next_steps"

	// IntentCRMPing is the "monday test" connectivity check.
	IntentCRMPing Intent = "crm_ping"
)

// Decision is the routing outcome for one message.
type Decision struct {
	Intent Intent

	// Entity is the candidate customer name extracted from the message.
	// Set for CRM intents that operate on a single item.
	Entity string

	// AllItems requests the full board listing instead of an entity search.
	// The reply mode and the item source are independent axes: "skriv en
	// opfølgningsmail til alle kunder" drafts an email over the whole board.
	AllItems bool
}

// Router classifies messages according to its rule set.
type Router struct {
	rules Rules
}

// New creates a router with the given rules.
func New(rules Rules) *Router {
	return &Router{rules: rules}
}

// Route classifies the message text and, for single-item CRM intents,
// extracts the candidate entity name.
func (r *Router) Route(text string) Decision {
	lower := strings.ToLower(text)

	if containsAny(lower, r.rules.PingPhrases) {
		return Decision{Intent: IntentCRMPing}
	}

	if !containsAny(lower, r.rules.CRMTriggers) {
		return Decision{Intent: IntentDocQA}
	}

	intent := IntentCRMSearch
	switch {
	case containsAny(lower, r.rules.EmailPhrases):
		intent = IntentEmail
	case containsAny(lower, r.rules.MeetingPhrases):
		intent = IntentMeetingPrep
	case containsAny(lower, r.rules.NextStepPhrases):
		intent = IntentNextSteps
	}

	if containsAny(lower, r.rules.OverviewPhrases) {
		if intent == IntentCRMSearch {
			intent = IntentCRMOverview
		}
		return Decision{Intent: intent, AllItems: true}
	}

	return Decision{
		Intent: intent,
		Entity: ExtractEntity(text),
	}
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Extraction patterns, tried in order. The vocabulary is Danish because the
// board's operators write Danish; "kunde"/"kunden" means "customer"/"the
// customer" and the connectors stop the name capture.
var (
	reKundeConnector = regexp.MustCompile(`(?i)kunden?\s+([A-Za-z0-9ÆØÅæøå][A-Za-z0-9ÆØÅæøå_-]*(?:\s+[A-Za-z0-9ÆØÅæøå][A-Za-z0-9ÆØÅæøå_-]*)*?)\s+(?:i\s+monday|og|hvor|som|der)`)
	reKundeLoose     = regexp.MustCompile(`(?i)kunden?\s+([A-Za-z0-9ÆØÅæøå][A-Za-z0-9ÆØÅæøå ._-]+)`)
	reFind           = regexp.MustCompile(`(?i)find\s+([A-Za-z][A-Za-z0-9ÆØÅæøå]*)`)
	reCapitalized    = regexp.MustCompile(`\b([A-ZÆØÅ][A-Za-z0-9ÆØÅæøå]+)\b`)
	reLeadingFind    = regexp.MustCompile(`(?i)^find\s+`)
)

var connectors = []string{" i monday", " i ", " og ", " hvor ", " som ", " der "}

const nameTrimCutset = " ?!.:,;"

// ExtractEntity pulls a candidate customer name out of free-form message
// text. It tries, in order: an explicit "kunde(n) X" phrase stopped at a
// connector, a loose "kunde(n) X" capture with manual connector stopping,
// a "find X" phrase, the text before the first connector, any capitalized
// word, and finally the first meaningful word.
func ExtractEntity(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimLeft(t, "-–— ")
	t = strings.TrimSpace(t)
	lower := strings.ToLower(t)

	if m := reKundeConnector.FindStringSubmatch(t); m != nil {
		return strings.Trim(m[1], nameTrimCutset)
	}

	if m := reKundeLoose.FindStringSubmatch(t); m != nil {
		name := m[1]
		nameLower := strings.ToLower(name)
		for _, stop := range connectors {
			if idx := strings.Index(nameLower, stop); idx != -1 {
				name = strings.TrimSpace(name[:idx])
				break
			}
		}
		return strings.Trim(name, nameTrimCutset)
	}

	if m := reFind.FindStringSubmatch(t); m != nil {
		name := m[1]
		nameLower := strings.ToLower(name)
		for _, stop := range []string{" i ", " og ", " hvor ", " som ", " der "} {
			if idx := strings.Index(nameLower, stop); idx != -1 {
				name = name[:idx]
				break
			}
		}
		return strings.Trim(name, nameTrimCutset)
	}

	// Text before the earliest connector, minus a leading "find".
	earliest := len(t)
	for _, connector := range connectors {
		if idx := strings.Index(lower, connector); idx != -1 && idx < earliest {
			earliest = idx
		}
	}
	if earliest < len(t) {
		before := strings.TrimSpace(t[:earliest])
		before = reLeadingFind.ReplaceAllString(before, "")
		parts := strings.Fields(before)
		var name string
		if len(parts) > 0 {
			var capitalized []string
			for _, p := range parts {
				if isUpperStart(p) {
					capitalized = append(capitalized, p)
				}
			}
			if len(capitalized) > 0 {
				name = strings.Join(capitalized, " ")
			} else {
				name = parts[len(parts)-1]
			}
		} else {
			name = before
		}
		return strings.Trim(name, nameTrimCutset)
	}

	if m := reCapitalized.FindStringSubmatch(t); m != nil {
		return strings.Trim(m[1], nameTrimCutset)
	}

	for _, part := range strings.Fields(t) {
		if len(part) > 2 && isAlnumStart(part) {
			return strings.Trim(part, nameTrimCutset)
		}
	}

	return strings.Trim(t, nameTrimCutset)
}

func isUpperStart(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return (r >= 'A' && r <= 'Z') || r == 'Æ' || r == 'Ø' || r == 'Å'
}

func isAlnumStart(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		strings.ContainsRune("æøåÆØÅ", r)
}
