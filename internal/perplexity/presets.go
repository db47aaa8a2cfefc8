// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perplexity

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pplx/pkg/types"
)

// Models maps the short model aliases accepted on the command line to the
// API model identifiers: sonar for lightweight search, sonar-pro for
// advanced search, sonar-deep for exhaustive research, sonar-reasoning
// for premier reasoning.
var Models = map[string]string{
	"sonar":           "sonar",
	"sonar-pro":       "sonar-pro",
	"sonar-deep":      "sonar-deep-research",
	"sonar-reasoning": "sonar-reasoning-pro",
}

// ResolveModel maps a model alias to its API identifier. An empty alias
// yields fallback.
func ResolveModel(alias, fallback string) (string, error) {
	if alias == "" {
		return fallback, nil
	}
	model, ok := Models[strings.ToLower(alias)]
	if !ok {
		return "", fmt.Errorf("unknown model %q: use sonar, sonar-pro, sonar-deep, or sonar-reasoning", alias)
	}
	return model, nil
}

// RecencyFilters lists the accepted --recent values.
var RecencyFilters = []string{"day", "week", "month", "year"}

// ValidRecency reports whether recent is an accepted recency filter.
// Empty means no filter.
func ValidRecency(recent string) bool {
	if recent == "" {
		return true
	}
	for _, r := range RecencyFilters {
		if recent == r {
			return true
		}
	}
	return false
}

const (
	defaultSystemPrompt  = "Be precise and helpful. Provide comprehensive answers with sources."
	academicSystemPrompt = "You are a research assistant. Focus on peer-reviewed academic sources and scholarly publications. Cite your sources properly."
	codeSystemPrompt     = "You are an expert programmer. Provide clear, working code examples with explanations. Reference documentation and best practices."
)

// codeDomains restricts the code command's search to programming
// documentation sites.
var codeDomains = []string{
	"stackoverflow.com", "github.com", "developer.mozilla.org",
	"docs.python.org", "nodejs.org", "typescriptlang.org",
}

// Preset holds the per-command request defaults.
type Preset struct {
	// DefaultModel is the API model used when no --model override is given.
	DefaultModel string

	// Label is the progress message shown while the request runs.
	Label string

	build func(query, model, recent string) Request
}

// BuildRequest constructs the completion request for a query, applying the
// model alias override and recency filter.
func (p Preset) BuildRequest(query, modelAlias, recent string) (Request, error) {
	model, err := ResolveModel(modelAlias, p.DefaultModel)
	if err != nil {
		return Request{}, err
	}
	if !ValidRecency(recent) {
		return Request{}, fmt.Errorf("unknown recency filter %q: use day, week, month, or year", recent)
	}
	return p.build(query, model, recent), nil
}

// PresetFor returns the request preset for a query command.
func PresetFor(command types.Command) (Preset, error) {
	switch command {
	case types.CommandSearch:
		return Preset{
			DefaultModel: Models["sonar"],
			Label:        "Searching",
			build:        webRequest(defaultSystemPrompt, 2048, 0.2),
		}, nil
	case types.CommandAsk:
		return Preset{
			DefaultModel: Models["sonar"],
			Label:        "Thinking",
			build:        webRequest(defaultSystemPrompt, 2048, 0.2),
		}, nil
	case types.CommandResearch:
		return Preset{
			DefaultModel: Models["sonar-deep"],
			Label:        "Deep Researching",
			build:        webRequest(defaultSystemPrompt, 2048, 0.2),
		}, nil
	case types.CommandAcademic:
		return Preset{
			DefaultModel: Models["sonar-pro"],
			Label:        "Academic Search",
			build: func(query, model, recent string) Request {
				req := newRequest(academicSystemPrompt, query, model, 2048, 0.1)
				req.SearchMode = "academic"
				req.SearchRecencyFilter = recent
				return req
			},
		}, nil
	case types.CommandCode:
		return Preset{
			DefaultModel: Models["sonar-pro"],
			Label:        "Generating Code",
			build: func(query, model, recent string) Request {
				req := newRequest(codeSystemPrompt, "Coding question: "+query, model, 4096, 0.2)
				req.SearchDomainFilter = codeDomains
				return req
			},
		}, nil
	default:
		return Preset{}, fmt.Errorf("unknown command %q", command)
	}
}

func webRequest(systemPrompt string, maxTokens int, temperature float64) func(query, model, recent string) Request {
	return func(query, model, recent string) Request {
		req := newRequest(systemPrompt, query, model, maxTokens, temperature)
		req.SearchRecencyFilter = recent
		return req
	}
}

func newRequest(systemPrompt, userContent, model string, maxTokens int, temperature float64) Request {
	return Request{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
