// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"strings"
	"testing"

	"github.com/pdiddy/pplx/pkg/types"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		alias   string
		want    string
		wantErr bool
	}{
		{"", "sonar", false},
		{"sonar", "sonar", false},
		{"sonar-pro", "sonar-pro", false},
		{"sonar-deep", "sonar-deep-research", false},
		{"sonar-reasoning", "sonar-reasoning-pro", false},
		{"SONAR-PRO", "sonar-pro", false},
		{"gpt-4", "", true},
	}

	for _, tt := range tests {
		got, err := ResolveModel(tt.alias, "sonar")
		if tt.wantErr {
			if err == nil {
				t.Errorf("ResolveModel(%q): expected error", tt.alias)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveModel(%q): %v", tt.alias, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveModel(%q) = %q, want %q", tt.alias, got, tt.want)
		}
	}
}

func TestValidRecency(t *testing.T) {
	for _, ok := range []string{"", "day", "week", "month", "year"} {
		if !ValidRecency(ok) {
			t.Errorf("ValidRecency(%q) = false", ok)
		}
	}
	for _, bad := range []string{"hour", "decade", "DAY"} {
		if ValidRecency(bad) {
			t.Errorf("ValidRecency(%q) = true", bad)
		}
	}
}

func TestPresetDefaults(t *testing.T) {
	tests := []struct {
		command   types.Command
		model     string
		maxTokens int
		temp      float64
	}{
		{types.CommandSearch, "sonar", 2048, 0.2},
		{types.CommandAsk, "sonar", 2048, 0.2},
		{types.CommandResearch, "sonar-deep-research", 2048, 0.2},
		{types.CommandAcademic, "sonar-pro", 2048, 0.1},
		{types.CommandCode, "sonar-pro", 4096, 0.2},
	}

	for _, tt := range tests {
		preset, err := PresetFor(tt.command)
		if err != nil {
			t.Fatalf("PresetFor(%s): %v", tt.command, err)
		}
		req, err := preset.BuildRequest("test query", "", "")
		if err != nil {
			t.Fatalf("BuildRequest(%s): %v", tt.command, err)
		}
		if req.Model != tt.model {
			t.Errorf("%s: model = %q, want %q", tt.command, req.Model, tt.model)
		}
		if req.MaxTokens != tt.maxTokens {
			t.Errorf("%s: max_tokens = %d, want %d", tt.command, req.MaxTokens, tt.maxTokens)
		}
		if req.Temperature != tt.temp {
			t.Errorf("%s: temperature = %v, want %v", tt.command, req.Temperature, tt.temp)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("%s: unexpected messages %+v", tt.command, req.Messages)
		}
	}
}

func TestPresetForUnknownCommand(t *testing.T) {
	if _, err := PresetFor(types.Command("history")); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestAcademicPresetSearchMode(t *testing.T) {
	preset, err := PresetFor(types.CommandAcademic)
	if err != nil {
		t.Fatal(err)
	}
	req, err := preset.BuildRequest("peer reviewed sources", "", "month")
	if err != nil {
		t.Fatal(err)
	}
	if req.SearchMode != "academic" {
		t.Errorf("search_mode = %q, want academic", req.SearchMode)
	}
	if req.SearchRecencyFilter != "month" {
		t.Errorf("search_recency_filter = %q, want month", req.SearchRecencyFilter)
	}
}

func TestCodePresetDomainFilter(t *testing.T) {
	preset, err := PresetFor(types.CommandCode)
	if err != nil {
		t.Fatal(err)
	}
	req, err := preset.BuildRequest("how do channels work", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.SearchDomainFilter) == 0 {
		t.Fatal("code preset missing domain filter")
	}
	found := false
	for _, d := range req.SearchDomainFilter {
		if d == "stackoverflow.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("domain filter missing stackoverflow.com: %v", req.SearchDomainFilter)
	}
	if !strings.HasPrefix(req.Messages[1].Content, "Coding question: ") {
		t.Errorf("code preset user content = %q", req.Messages[1].Content)
	}
}

func TestBuildRequestModelOverride(t *testing.T) {
	preset, err := PresetFor(types.CommandSearch)
	if err != nil {
		t.Fatal(err)
	}

	req, err := preset.BuildRequest("q", "sonar-reasoning", "")
	if err != nil {
		t.Fatal(err)
	}
	if req.Model != "sonar-reasoning-pro" {
		t.Errorf("model = %q, want sonar-reasoning-pro", req.Model)
	}

	if _, err := preset.BuildRequest("q", "bogus", ""); err == nil {
		t.Error("expected error for unknown model alias")
	}
	if _, err := preset.BuildRequest("q", "", "fortnight"); err == nil {
		t.Error("expected error for unknown recency filter")
	}
}
