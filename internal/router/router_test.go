package router

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoute(t *testing.T) {
	r := New(DefaultRules())

	tests := []struct {
		name         string
		text         string
		wantIntent   Intent
		wantEntity   string
		wantAllItems bool
	}{
		{
			name:       "no crm trigger falls through to doc qa",
			text:       "Hvad er vores returpolitik?",
			wantIntent: IntentDocQA,
		},
		{
			name:       "customer search",
			text:       "Find kunden Vocast i Monday",
			wantIntent: IntentCRMSearch,
			wantEntity: "Vocast",
		},
		{
			name:       "search without kunde phrase",
			text:       "Find Vocast i Monday",
			wantIntent: IntentCRMSearch,
			wantEntity: "Vocast",
		},
		{
			name:         "board overview",
			text:         "Giv mig et overblik over alle kunder i Monday",
			wantIntent:   IntentCRMOverview,
			wantAllItems: true,
		},
		{
			name:         "email over the whole board",
			text:         "Skriv en opfølgningsmail til alle kunder i Monday",
			wantIntent:   IntentEmail,
			wantAllItems: true,
		},
		{
			name:         "next steps over the whole board",
			text:         "Hvad er næste skridt for alle leads i Monday",
			wantIntent:   IntentNextSteps,
			wantAllItems: true,
		},
		{
			name:       "ping",
			text:       "monday test",
			wantIntent: IntentCRMPing,
		},
		{
			name:       "ping wins over other crm phrasing",
			text:       "monday test og vis alle kunder",
			wantIntent: IntentCRMPing,
		},
		{
			name:       "email draft",
			text:       "Skriv en mail til kunden Acme i CRM",
			wantIntent: IntentEmail,
			wantEntity: "Acme",
		},
		{
			name:       "meeting prep",
			text:       "Mødeforberedelse for kunden Acme i Monday",
			wantIntent: IntentMeetingPrep,
			wantEntity: "Acme",
		},
		{
			name:       "next steps",
			text:       "Hvad er næste skridt for kunden Acme i Monday",
			wantIntent: IntentNextSteps,
			wantEntity: "Acme",
		},
		{
			name:       "email vocabulary without crm trigger is doc qa",
			text:       "Skriv en mail om ferieplanen",
			wantIntent: IntentDocQA,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(tt.text)
			if got.Intent != tt.wantIntent {
				t.Errorf("Route(%q).Intent = %s, want %s", tt.text, got.Intent, tt.wantIntent)
			}
			if got.Entity != tt.wantEntity {
				t.Errorf("Route(%q).Entity = %q, want %q", tt.text, got.Entity, tt.wantEntity)
			}
			if got.AllItems != tt.wantAllItems {
				t.Errorf("Route(%q).AllItems = %v, want %v", tt.text, got.AllItems, tt.wantAllItems)
			}
		})
	}
}

func TestExtractEntity(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"kunde with monday connector", "Find kunden Vocast i Monday", "Vocast"},
		{"kunde with og connector", "kunden Vocast og deres status", "Vocast"},
		{"multi-word name", "Find kunden Nordic Bio Labs i Monday", "Nordic Bio Labs"},
		{"loose kunde capture", "Hvad ved vi om kunden Acme?", "Acme"},
		{"find phrase", "Find Acme", "Acme"},
		{"find stops at connector", "Find Acme i Monday", "Acme"},
		{"capitalized word fallback", "status på Vocast", "Vocast"},
		{"danish letters", "Find kunden Sønderby i Monday", "Sønderby"},
		{"leading dash stripped", "- Find kunden Vocast i Monday", "Vocast"},
		{"first meaningful word fallback", "vocast", "vocast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractEntity(tt.text); got != tt.want {
				t.Errorf("ExtractEntity(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "crm_triggers:\n  - monday\n  - pipedrive\nping_phrases:\n  - board test\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if len(rules.CRMTriggers) != 2 || rules.CRMTriggers[1] != "pipedrive" {
		t.Errorf("CRMTriggers = %v", rules.CRMTriggers)
	}
	if len(rules.PingPhrases) != 1 || rules.PingPhrases[0] != "board test" {
		t.Errorf("PingPhrases = %v", rules.PingPhrases)
	}
	// Lists the file omits keep their defaults.
	if len(rules.EmailPhrases) == 0 || len(rules.OverviewPhrases) == 0 {
		t.Error("omitted lists should fall back to defaults")
	}

	r := New(rules)
	if got := r.Route("find kunden Acme i pipedrive"); got.Intent != IntentCRMSearch {
		t.Errorf("custom trigger not honored, intent = %s", got.Intent)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadRules() on missing file should error")
	}
}
