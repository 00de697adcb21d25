package diagnosis

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
)

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityModerate: 2,
}

// Entry is one row of the fallback lookup table.
type Entry struct {
	Symptom    string   `yaml:"symptom"`
	Conditions []string `yaml:"conditions"`
	Remedies   []string `yaml:"remedies"`
	Severity   Severity `yaml:"severity"`
}

// KnowledgeBase is an ordered, immutable symptom table.
type KnowledgeBase struct {
	entries []Entry
}

// Assessment is the outcome of matching free text against the table.
type Assessment struct {
	MatchedSymptoms []string
	Conditions      []string
	Remedies        []string
	Severity        Severity
}

func (a Assessment) Matched() bool {
	return len(a.MatchedSymptoms) > 0
}

// DefaultKnowledgeBase returns the table compiled into the binary.
func DefaultKnowledgeBase() (*KnowledgeBase, error) {
	return LoadKnowledgeBase(defaultKnowledge)
}

// LoadKnowledgeBase parses a YAML sequence of entries.
func LoadKnowledgeBase(data []byte) (*KnowledgeBase, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}

	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Symptom == "" {
			return nil, fmt.Errorf("entry %d: symptom is required", i)
		}
		if e.Symptom != strings.ToLower(e.Symptom) {
			return nil, fmt.Errorf("entry %q: symptom must be lowercase", e.Symptom)
		}
		if seen[e.Symptom] {
			return nil, fmt.Errorf("entry %q: duplicate symptom", e.Symptom)
		}
		if _, ok := severityRank[e.Severity]; !ok {
			return nil, fmt.Errorf("entry %q: unknown severity %q", e.Symptom, e.Severity)
		}
		seen[e.Symptom] = true
	}

	return &KnowledgeBase{entries: entries}, nil
}

func (kb *KnowledgeBase) Len() int {
	return len(kb.entries)
}

// Match lowercases the input and selects every entry whose symptom is a
// substring of it. Conditions keep first-seen order (table order, then entry
// order); remedies are deduplicated and sorted.
func (kb *KnowledgeBase) Match(symptoms string) Assessment {
	text := strings.ToLower(symptoms)
	out := Assessment{Severity: SeverityLow}

	seenCondition := map[string]bool{}
	seenRemedy := map[string]bool{}
	for _, e := range kb.entries {
		if !strings.Contains(text, e.Symptom) {
			continue
		}
		out.MatchedSymptoms = append(out.MatchedSymptoms, e.Symptom)
		for _, c := range e.Conditions {
			if !seenCondition[c] {
				seenCondition[c] = true
				out.Conditions = append(out.Conditions, c)
			}
		}
		for _, r := range e.Remedies {
			if !seenRemedy[r] {
				seenRemedy[r] = true
				out.Remedies = append(out.Remedies, r)
			}
		}
		if severityRank[e.Severity] > severityRank[out.Severity] {
			out.Severity = e.Severity
		}
	}

	slices.Sort(out.Remedies)
	return out
}
