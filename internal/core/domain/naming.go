package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Known sections. The set is open: any sanitized non-empty value is accepted.
const (
	SectionForecasting     = "forecasting"
	SectionCausalInference = "causal_inference"
	SectionPolicyAnalysis  = "policy_analysis"
	SectionModelEvaluation = "model_evaluation"
	SectionGeneral         = "general"
)

// KnownSections lists the sections InferSection can produce
var KnownSections = []string{
	SectionForecasting,
	SectionCausalInference,
	SectionPolicyAnalysis,
	SectionModelEvaluation,
	SectionGeneral,
}

// filenameSeparator joins section, name and version in a filename
const filenameSeparator = "__"

var (
	unsafeChars     = regexp.MustCompile(`[\s/\\:*?"<>|\x00-\x1f\x7f]+`)
	underscoreRuns  = regexp.MustCompile(`_{2,}`)
	filenamePattern = regexp.MustCompile(`^(.+?)__(.+)__v(\d+)\.(\d+)\.([A-Za-z0-9]+)$`)
)

// Sanitize replaces whitespace and path-unsafe characters with underscores
// so the value can be interpolated into a filename. Case is preserved.
// Runs of underscores collapse to one, which keeps the "__" separator
// unambiguous.
func Sanitize(value string) string {
	s := unsafeChars.ReplaceAllString(strings.TrimSpace(value), "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_.-")
}

// SanitizeField sanitizes value and rejects an empty result
func SanitizeField(field, value string) (string, error) {
	s := Sanitize(value)
	if s == "" {
		return "", fmt.Errorf("%w: %s %q is empty after sanitization", ErrInvalidInput, field, value)
	}
	return s, nil
}

// GenerateFilename derives <section>__<name>__v<major>.<minor>.<ext>.
// Section and name must already be sanitized.
func GenerateFilename(category Category, section, name string, version Version) string {
	return fmt.Sprintf("%s%s%s%sv%s.%s",
		section, filenameSeparator, name, filenameSeparator, version, category.Extension())
}

// ParsedFilename holds the parts recovered from a derived filename
type ParsedFilename struct {
	Section   string
	Name      string
	Version   Version
	Extension string
}

// ParseFilename inverts GenerateFilename.
// "policy_analysis__impact__v1.0.csv" -> {policy_analysis, impact, 1.0, csv}
func ParseFilename(filename string) (ParsedFilename, bool) {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return ParsedFilename{}, false
	}
	v, err := ParseVersion(m[3] + "." + m[4])
	if err != nil {
		return ParsedFilename{}, false
	}
	return ParsedFilename{Section: m[1], Name: m[2], Version: v, Extension: m[5]}, true
}

var sectionKeywords = []struct {
	section  string
	keywords []string
}{
	{SectionCausalInference, []string{"causal", "dml", "double_ml", "forest", "cate", "ate", "treatment", "heterogeneous", "confound"}},
	{SectionPolicyAnalysis, []string{"policy", "scenario", "impact", "counterfactual", "intervention"}},
	{SectionForecasting, []string{"forecast", "lstm", "predict", "horizon", "arima", "prophet"}},
	{SectionModelEvaluation, []string{"metric", "eval", "residual", "accuracy", "rmse", "mae", "loss", "validation"}},
}

// InferSection picks a known section from keywords in the name and tags.
// Falls back to "general".
func InferSection(name string, tags []string) string {
	haystack := strings.ToLower(name + " " + strings.Join(tags, " "))
	haystack = strings.NewReplacer("-", "_", " ", "_").Replace(haystack)
	tokens := strings.Split(haystack, "_")

	for _, group := range sectionKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(kw, "_") {
				if strings.Contains(haystack, kw) {
					return group.section
				}
				continue
			}
			for _, tok := range tokens {
				// short keywords like "ate" must match a whole token
				if tok == kw || (len(kw) > 3 && strings.HasPrefix(tok, kw)) {
					return group.section
				}
			}
		}
	}
	return SectionGeneral
}
