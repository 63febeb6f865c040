package extract

import (
	"regexp"
	"strings"
)

// MaxLocations caps how many candidates an extraction returns.
const MaxLocations = 5

// settingPattern is a declarative extraction rule: a trigger phrasing
// that introduces a narrative's setting, with the captured span running
// up to the rule's stop tokens.
type settingPattern struct {
	name string
	re   *regexp.Regexp
}

// rawCandidate is a phrase span captured by a setting pattern, before
// normalization. Not exposed outside this package.
type rawCandidate struct {
	text    string
	pattern string
}

// LocationExtractor extracts candidate setting locations from plain-text
// prose (typically a Wikipedia plot-summary paragraph). It is a pure
// surface-pattern matcher: no NER, no gazetteer, English prose only.
type LocationExtractor struct {
	settingPatterns []settingPattern
}

// NewLocationExtractor creates a new location extractor.
func NewLocationExtractor() *LocationExtractor {
	return &LocationExtractor{
		settingPatterns: []settingPattern{
			{"set-in", regexp.MustCompile(`(?i)set in ([^.]+?)(?:\.|,| and | in the)`)},
			{"takes-place-in", regexp.MustCompile(`(?i)takes? place in ([^.]+?)(?:\.|,| and | in the)`)},
			{"located-in", regexp.MustCompile(`(?i)located in ([^.]+?)(?:\.|,| and )`)},
			{"story-set-in", regexp.MustCompile(`(?i)story (?:is )?set in ([^.]+?)(?:\.|,| and )`)},
			{"work-set-in", regexp.MustCompile(`(?i)(?:novel|book|story) (?:is )?set in ([^.]+?)(?:\.|,| and )`)},
			{"centers-in", regexp.MustCompile(`(?i)centers? (?:around|on) [^.]*?(?:in|from) ([^.]+?)(?:\.|,| that | and )`)},
			{"story-of-in", regexp.MustCompile(`(?i)story of [^.]*?(?:in|from) ([^.]+?)(?:\.|,| after | who | before | and )`)},
			{"journey-from-to", regexp.MustCompile(`(?i)\b(?:journey|journeys|travels?|voyage|trip|route) (?:[^.]*? )?(from [^.]+? to [^.]+?)(?:\.|,| and )`)},
		},
	}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Trailing duration clauses: "Idaho over ten days" -> "Idaho".
	durationRe = regexp.MustCompile(`(?i)\s+(?:over|in|during|for)\s+\w+\s+(?:days|weeks|months|years)`)

	// Leading time periods: "1960s Southern California" -> "Southern California".
	yearPrefixRe    = regexp.MustCompile(`^\d{4}s?\s+`)
	eraPrefixRe     = regexp.MustCompile(`(?i)^(?:early|mid|late)[\s-]\d{4}s?\s+`)
	centuryPrefixRe = regexp.MustCompile(`(?i)^(?:fifteenth|sixteenth|seventeenth|eighteenth|nineteenth|twentieth|twenty-first|twenty-second)[\s-]century\s+`)

	// Journey phrasing: "from Nebraska to New York City" names two
	// endpoints, not a conjunction list.
	journeyRe = regexp.MustCompile(`(?:from\s+)?([A-Z][a-zA-Z\s]+?)\s+to\s+([A-Z][a-zA-Z\s]+?)$`)

	conjunctionRe = regexp.MustCompile(` and | & `)

	yearOnlyRe = regexp.MustCompile(`^\d{4}s?$`)

	// Standalone place-shaped phrases, matched independently of the
	// setting patterns. Case-sensitive: the capitalization is the signal.
	centuryPlaceRe = regexp.MustCompile(`\b(?:fifteenth|sixteenth|seventeenth|eighteenth|nineteenth|twentieth|twenty-first|twenty-second)-century\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	presentDayRe   = regexp.MustCompile(`\bpresent-day\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	cityRegionRe   = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?),\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
)

// noisePhrases are place-shaped strings that are not specific locations.
var noisePhrases = map[string]bool{
	"the united states":  true,
	"the united kingdom": true,
	"the novel":          true,
	"the book":           true,
	"the story":          true,
}

// Extract returns up to MaxLocations candidate place names from prose,
// in first-seen order. An empty result means no locations were
// discoverable; it is not an error.
func (e *LocationExtractor) Extract(text string) []string {
	var candidates []string

	for _, raw := range e.matchSettingPhrases(text) {
		candidates = append(candidates, normalizePhrase(raw.text)...)
	}
	candidates = append(candidates, matchPlacePatterns(text)...)

	return dedupe(candidates)
}

// matchSettingPhrases scans the text with every setting pattern and
// collects all captures in order of appearance per pattern.
func (e *LocationExtractor) matchSettingPhrases(text string) []rawCandidate {
	var raws []rawCandidate
	for _, p := range e.settingPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			raws = append(raws, rawCandidate{
				text:    strings.TrimSpace(m[1]),
				pattern: p.name,
			})
		}
	}
	return raws
}

// normalizePhrase cleans a raw captured phrase into zero or more
// candidate place names.
func normalizePhrase(phrase string) []string {
	phrase = whitespaceRe.ReplaceAllString(phrase, " ")
	phrase = durationRe.ReplaceAllString(phrase, "")
	phrase = yearPrefixRe.ReplaceAllString(phrase, "")
	phrase = eraPrefixRe.ReplaceAllString(phrase, "")
	phrase = centuryPrefixRe.ReplaceAllString(phrase, "")
	phrase = strings.TrimSpace(phrase)

	// A route ("from A to B") has exactly two endpoints. Checked before
	// the conjunction split so "to" wins over "and".
	if m := journeyRe.FindStringSubmatch(phrase); m != nil {
		var out []string
		for _, endpoint := range []string{m[1], m[2]} {
			endpoint = strings.TrimSpace(endpoint)
			if withinBounds(endpoint) {
				out = append(out, endpoint)
			}
		}
		return out
	}

	var out []string
	for _, part := range conjunctionRe.Split(phrase, -1) {
		part = strings.Trim(strings.TrimSpace(part), ",")
		if !withinBounds(part) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(part), "the ") {
			continue
		}
		out = append(out, part)
	}
	return out
}

// matchPlacePatterns scans for standalone place-shaped phrases. The
// patterns already isolate a minimal place span, so no normalization is
// applied beyond the length bound.
func matchPlacePatterns(text string) []string {
	var out []string

	for _, m := range centuryPlaceRe.FindAllStringSubmatch(text, -1) {
		if place := strings.TrimSpace(m[1]); withinBounds(place) {
			out = append(out, place)
		}
	}
	for _, m := range presentDayRe.FindAllStringSubmatch(text, -1) {
		if place := strings.TrimSpace(m[1]); withinBounds(place) {
			out = append(out, place)
		}
	}
	// "City, Region" pairs are kept combined. Over-matches ordinary
	// capitalized word pairs; interactive review downstream is the filter.
	for _, m := range cityRegionRe.FindAllStringSubmatch(text, -1) {
		if place := m[1] + ", " + m[2]; withinBounds(place) {
			out = append(out, place)
		}
	}
	return out
}

// Sanitize applies the output filters (year/noise/duplicate removal,
// length bounds, cap) to candidates produced outside the matchers, such
// as LLM suggestions.
func Sanitize(candidates []string) []string {
	return dedupe(candidates)
}

// dedupe removes bare years, noise phrases and case-insensitive
// duplicates, keeping first-seen order, and caps the result.
func dedupe(candidates []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, loc := range candidates {
		loc = strings.TrimSpace(loc)
		if yearOnlyRe.MatchString(loc) {
			continue
		}
		lower := strings.ToLower(loc)
		if noisePhrases[lower] || seen[lower] {
			continue
		}
		if !withinBounds(loc) {
			continue
		}
		seen[lower] = true
		unique = append(unique, loc)
		if len(unique) == MaxLocations {
			break
		}
	}
	return unique
}

func withinBounds(s string) bool {
	return len(s) > 3 && len(s) < 100
}
