package query

import (
	"regexp"
	"strings"

	"ai-helpdesk-be/pkg/rag/scope"
)

// Route selects which retrieval path answers the question.
const (
	RouteSemantic   = "semantic"
	RouteStructured = "structured"
)

// departmentKeywords score a query against each scope. A hit list, not NLP:
// the same input always yields the same routing.
var departmentKeywords = map[string][]string{
	"finance": {
		"finance", "financial", "revenue", "expense", "budget", "cost", "profit",
		"quarter", "q1", "q2", "q3", "q4", "quarterly", "annual", "payment", "invoice",
	},
	"marketing": {
		"marketing", "campaign", "customer", "acquisition", "conversion", "roi",
		"advertisement", "brand", "social media", "engagement",
	},
	"hr": {
		"employee", "hr", "human resource", "salary", "payroll", "performance",
		"rating", "leave", "attendance", "hiring", "recruitment", "onboarding",
	},
	"engineering": {
		"engineering", "technical", "technology", "tech stack", "architecture",
		"development", "devops", "infrastructure", "api", "microservice",
		"deployment", "security", "framework", "platform", "tooling",
	},
	"general": {
		"policy", "handbook", "guideline", "benefit", "office", "company", "event",
	},
}

// structuredKeywords send a query down the exact-record path instead of
// vector search.
var structuredKeywords = []string{
	"salary", "payroll", "compensation", "leave balance", "leaves taken",
	"attendance", "performance rating",
}

var aggregationKeywords = []string{
	"total", "sum", "average", "count", "how many", "highest", "lowest",
	"top", "bottom", "mean", "median",
}

// documentKeywords anchor a query to the document path even when structured
// terms also appear ("what does the handbook say about salary reviews").
var documentKeywords = []string{
	"policy", "handbook", "guideline", "procedure", "document", "say about",
}

var (
	sanitizeRe = regexp.MustCompile(`[^\w\s\?\.\,\-]`)
	// Possessives collapse to the bare name, so "Priya's salary" keys the
	// same record as "salary of Priya".
	possessiveRe = regexp.MustCompile(`['’]s\b`)
	// Two or more capitalized words in a row, e.g. "Priya Sharma".
	personRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)
	// A lone capitalized word, a name candidate only on the structured path.
	singleNameRe = regexp.MustCompile(`^[A-Z][a-z]+$`)
)

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// Analysis is the deterministic outcome of query processing. It never widens
// access: ScopeHints only ever contains scopes from the caller's set.
type Analysis struct {
	Original      string
	CleanQuery    string
	Route         string
	ScopeHints    []string
	PersonName    string
	IsAggregation bool
	TemporalScope string
}

// Process analyses a question against the caller's scope set. Same question
// plus same scope set always produces the same analysis.
func Process(question string, scopes *scope.ScopeSet) *Analysis {
	clean := sanitize(question)
	lower := strings.ToLower(clean)

	a := &Analysis{
		Original:      question,
		CleanQuery:    clean,
		Route:         RouteSemantic,
		IsAggregation: containsAny(lower, aggregationKeywords),
		TemporalScope: detectTemporalScope(lower),
		PersonName:    extractPersonName(clean),
	}

	a.ScopeHints = scopeHints(lower, scopes)

	// Structured routing requires an explicit record-ish signal and no
	// document anchor. Anything ambiguous stays on the semantic path.
	if containsAny(lower, structuredKeywords) && !containsAny(lower, documentKeywords) {
		if a.PersonName == "" {
			a.PersonName = extractSingleName(clean)
		}
		if a.PersonName != "" || a.IsAggregation {
			a.Route = RouteStructured
		}
	}

	return a
}

func sanitize(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	q = possessiveRe.ReplaceAllString(q, "")
	q = sanitizeRe.ReplaceAllString(q, "")
	return strings.TrimSpace(q)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// scopeHints scores departments by keyword hits and keeps the leaders, but
// only those the caller can read. Hints outside the scope set are dropped,
// not clamped: retrieval always falls back to the full allowed set.
func scopeHints(lower string, scopes *scope.ScopeSet) []string {
	scores := make(map[string]int)
	for dept, keywords := range departmentKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				scores[dept]++
			}
		}
	}
	if len(scores) == 0 {
		return nil
	}

	max := 0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}

	var hints []string
	// iterate in a fixed order for deterministic output
	for _, dept := range []string{"finance", "marketing", "hr", "engineering", "general"} {
		s, ok := scores[dept]
		if !ok {
			continue
		}
		if float64(s) >= float64(max)*0.7 && scopes.Contains(dept) {
			hints = append(hints, dept)
		}
	}
	return hints
}

func detectTemporalScope(lower string) string {
	for _, kw := range []string{"q1", "q2", "q3", "q4", "quarter"} {
		if strings.Contains(lower, kw) {
			return "quarterly"
		}
	}
	for _, kw := range []string{"2024", "2025", "year", "annual"} {
		if strings.Contains(lower, kw) {
			return "annual"
		}
	}
	return ""
}

// extractPersonName finds the first run of two or more capitalized words.
// Leading sentence capitals alone never match, so "What is the leave policy"
// yields nothing while "leave balance of Priya Sharma" yields the name.
func extractPersonName(clean string) string {
	matches := personRe.FindAllString(clean, -1)
	for _, m := range matches {
		if !isQuestionOpener(m) {
			return m
		}
	}
	return ""
}

// extractSingleName falls back to a lone given name ("Priya") when the full
// two-word pattern found nothing. Sentence-initial capitals, question
// openers, month names and domain keywords never qualify, so "What is
// attendance in March" yields nothing.
func extractSingleName(clean string) string {
	fields := strings.Fields(clean)
	for i, field := range fields {
		if i == 0 {
			continue
		}
		token := strings.Trim(field, "?.,-")
		if !singleNameRe.MatchString(token) {
			continue
		}
		lower := strings.ToLower(token)
		if isOpenerWord(lower) || monthNames[lower] || isDomainWord(lower) {
			continue
		}
		return token
	}
	return ""
}

// isQuestionOpener filters capitalized question starts like "What Is".
func isQuestionOpener(candidate string) bool {
	return isOpenerWord(strings.ToLower(strings.Fields(candidate)[0]))
}

func isOpenerWord(word string) bool {
	switch word {
	case "what", "who", "where", "when", "why", "how", "show", "tell", "give", "list":
		return true
	}
	return false
}

// isDomainWord reports whether a token is part of any keyword table and so
// can never be a person's name.
func isDomainWord(lower string) bool {
	for _, table := range [][]string{structuredKeywords, aggregationKeywords, documentKeywords} {
		for _, kw := range table {
			if kw == lower {
				return true
			}
		}
	}
	for _, keywords := range departmentKeywords {
		for _, kw := range keywords {
			if kw == lower {
				return true
			}
		}
	}
	return false
}
