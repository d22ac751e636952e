package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

// stopWords are filtered out of search prompts, Spanish and English alike.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"qué que cuáles cuales con en de la el los las un una y o pero si no es son " +
			"están existe existen hay tiene tienen pruebas casos test tests case cases " +
			"what which are is there with in of the a an and or but if not " +
			"para del por desde hasta sobre entre durante dentro") {
		stopWords[w] = struct{}{}
	}
}

var (
	quotedRe = regexp.MustCompile(`["\x{201c}\x{201d}]([^"\x{201c}\x{201d}]+)["\x{201c}\x{201d}]`)
	wordRe   = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// ExtractSearchTerms pulls the relevant terms out of a search prompt. Quoted
// phrases survive whole; everything else is split into words, lowercased,
// stripped of stop words and anything two characters or shorter, and
// deduplicated in order of first appearance.
func ExtractSearchTerms(prompt string) []string {
	terms := quotedRe.FindAllStringSubmatch(prompt, -1)
	remainder := quotedRe.ReplaceAllString(prompt, "")

	var out []string
	seen := map[string]struct{}{}
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}

	for _, m := range terms {
		add(m[1])
	}
	for _, word := range wordRe.FindAllString(strings.ToLower(remainder), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if len([]rune(word)) <= 2 {
			continue
		}
		add(word)
	}
	return out
}

// SearchMatch is one hit from a test search: a project, suite, or test case
// together with the reason it matched.
type SearchMatch struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	ID          string `json:"id,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Project     string `json:"project,omitempty"`
	Suite       string `json:"suite,omitempty"`
	MatchReason string `json:"match_reason"`
}

// authWords let the common abbreviation "auth" match suites named in either
// language.
var authWords = []string{"autenticación", "authentication", "autorización", "authorization"}

func (d *Dispatcher) searchTests(prompt string) Result {
	terms := ExtractSearchTerms(prompt)
	if len(terms) == 0 {
		return Result{Action: ActionSearchTests, Success: false,
			Message: "Could not extract search terms from the prompt"}
	}

	projects, err := d.Client.GetProjects()
	if err != nil {
		return Result{Action: ActionSearchTests, Success: false,
			Message: fmt.Sprintf("Search failed: %v", err)}
	}

	results := []SearchMatch{}
	for _, project := range projects {
		if anyTermIn(project.Name, terms) {
			results = append(results, SearchMatch{
				Type: "project", Name: project.Name, ID: project.ID,
				MatchReason: "project name matches",
			})
		}
		if project.Prefix != "" && anyTermIn(project.Prefix, terms) {
			results = append(results, SearchMatch{
				Type: "project", Name: project.Name, ID: project.ID,
				MatchReason: "project prefix matches",
			})
		}

		suites, err := d.Client.GetFirstLevelTestSuites(project.ID)
		if err != nil {
			continue
		}
		for _, suite := range suites {
			if !suiteMatches(suite.Name, terms) {
				continue
			}
			results = append(results, SearchMatch{
				Type: "test_suite", Name: suite.Name, ID: suite.ID,
				Project:     project.Name,
				MatchReason: "test suite name matches",
			})

			cases, err := d.Client.GetTestCasesForTestSuite(suite.ID, false)
			if err != nil {
				continue
			}
			for _, tc := range cases {
				if !anyTermIn(tc.Name, terms) && !anyTermIn(tc.Summary, terms) {
					continue
				}
				results = append(results, SearchMatch{
					Type: "test_case", Name: tc.Name, ID: tc.ID,
					Summary:     truncate(tc.Summary, 200),
					Project:     project.Name,
					Suite:       suite.Name,
					MatchReason: "test case content matches",
				})
			}
		}
	}

	message := fmt.Sprintf("Found %d elements related to: %s", len(results), strings.Join(terms, ", "))
	if len(results) == 0 {
		message = fmt.Sprintf("No elements found related to: %s", strings.Join(terms, ", "))
	}
	return Result{
		Action:  ActionSearchTests,
		Success: true,
		Message: message,
		Data: map[string]interface{}{
			"search_terms": terms,
			"results":      results,
			"total_found":  len(results),
		},
	}
}

func anyTermIn(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// suiteMatches is more forgiving than a plain substring check: a term also
// matches when any word of the suite name starts with it, and "auth" matches
// the spelled-out authentication/authorization suite names.
func suiteMatches(name string, terms []string) bool {
	lower := strings.ToLower(name)
	words := strings.Fields(lower)

	for _, term := range terms {
		term = strings.ToLower(term)
		if strings.Contains(lower, term) {
			return true
		}
		for _, word := range words {
			if strings.HasPrefix(word, term) {
				return true
			}
		}
		if term == "auth" {
			for _, aw := range authWords {
				if strings.Contains(lower, aw) {
					return true
				}
			}
		}
	}
	return false
}
