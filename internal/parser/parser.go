// Package parser derives a best-effort structured profile from resume
// text using heuristic pattern matching. Parse never fails: absent
// fields are represented as nil or empty, not as errors.
package parser

import (
	_ "embed"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

//go:embed skills.yaml
var skillsYAML []byte

var skillVocabulary = loadVocabulary()

func loadVocabulary() []string {
	var doc struct {
		Skills []string `yaml:"skills"`
	}
	// The vocabulary is embedded at build time; a decode failure here is
	// a programming error, not a runtime condition.
	if err := yaml.Unmarshal(skillsYAML, &doc); err != nil {
		panic("parser: invalid embedded skills vocabulary: " + err.Error())
	}
	return doc.Skills
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	nameRe  = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)+$`)
	// Tried in order: plain digits with separators, parenthesized area
	// code, international prefix. First pattern with any match wins.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s?\d{3}[-.]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	}
)

// Parse extracts a structured profile from raw resume text.
func Parse(text string) domain.StructuredProfile {
	return domain.StructuredProfile{
		Name:   extractName(text),
		Email:  extractEmail(text),
		Phone:  extractPhone(text),
		Skills: extractSkills(text),
		// Deeper section parsing is intentionally out of scope; the
		// fields stay present so consumers see a stable shape.
		Education:  []string{},
		Experience: []string{},
	}
}

// extractName inspects only the first 5 lines. A line qualifies when,
// after trimming, it has 2-4 whitespace-separated tokens and each token
// is a capitalized word. The first qualifying line wins.
func extractName(text string) *string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := len(strings.Fields(line))
		if n < 2 || n > 4 {
			continue
		}
		if nameRe.MatchString(line) {
			return &line
		}
	}
	return nil
}

func extractEmail(text string) *string {
	if m := emailRe.FindString(text); m != "" {
		return &m
	}
	return nil
}

func extractPhone(text string) *string {
	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			return &m
		}
	}
	return nil
}

// extractSkills matches the vocabulary case-insensitively against the
// raw text, preserving vocabulary order. Each entry is tested once, so
// duplicates cannot occur.
func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}
