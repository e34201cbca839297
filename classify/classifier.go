package classify

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// InputType describes what kind of text the user typed.
type InputType string

const (
	InputTypeUnknown InputType = "unknown"
	InputTypePerson  InputType = "person"
	InputTypeProject InputType = "project"
	InputTypeMixed   InputType = "mixed"
)

// QueryType selects the retrieval strategy.
type QueryType string

const (
	QueryTypeGeneral         QueryType = "general"
	QueryTypePersonToProject QueryType = "person_to_project"
	QueryTypeProjectToPerson QueryType = "project_to_person"
	QueryTypeSkillMatch      QueryType = "skill_match"

	// QueryTypeKeywordFallback marks classifications attached to results of
	// the lexical fallback path, where no semantic analysis took place.
	QueryTypeKeywordFallback QueryType = "keyword_fallback"
)

// Direction is the bias of a bidirectional search.
type Direction string

const (
	DirectionBidirectional   Direction = "bidirectional"
	DirectionPersonToProject Direction = "person_to_project"
	DirectionProjectToPerson Direction = "project_to_person"
)

// Classification is the structured output of query analysis. InputType and
// Direction are jointly consistent: a person input always searches toward
// projects and vice versa.
type Classification struct {
	Skills          []string
	Keywords        []string
	ExperienceYears int // 0 means none detected
	InputType       InputType
	QueryType       QueryType
	Direction       Direction
	EnhancedQuery   string
}

// Experience-year patterns, tried in order; the first match wins.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*年以上の経験`),
	regexp.MustCompile(`(\d+)\s*年以上`),
	regexp.MustCompile(`(\d+)\s*年の経験`),
	regexp.MustCompile(`(\d+)\s*年经验`),
	regexp.MustCompile(`(\d+)\s*年間`),
	regexp.MustCompile(`(\d+)\s*年`),
}

// Classifier analyzes free-text queries against keyword tables.
type Classifier struct {
	tables *Tables
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClassifier creates a classifier over the given tables.
// Nil tables fall back to DefaultTables().
func NewClassifier(tables *Tables, opts ...Option) *Classifier {
	if tables == nil {
		tables = DefaultTables()
	}

	c := &Classifier{
		tables: tables,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables returns the keyword tables the classifier was built with.
func (c *Classifier) Tables() *Tables {
	return c.tables
}

// Classify analyzes a query and returns its classification record.
// Ambiguity is never an error: queries with no indicator hits resolve to
// unknown/general.
func (c *Classifier) Classify(query string) *Classification {
	cl := &Classification{
		InputType: InputTypeUnknown,
		QueryType: QueryTypeGeneral,
		Direction: DirectionBidirectional,
	}

	c.analyzeInputType(query, cl)
	cl.ExperienceYears = c.extractExperienceYears(query)
	cl.Skills, cl.Keywords = c.extractSkills(query)
	cl.EnhancedQuery = c.enhance(query, cl)

	return cl
}

// analyzeInputType scores person vs. project indicators by substring
// containment and applies the decision rule: a strict majority on one side
// yields that direction, a nonzero tie (or single-sided hit without strict
// majority) yields mixed, and 0-0 stays unknown/general.
func (c *Classifier) analyzeInputType(query string, cl *Classification) {
	personScore := countContained(query, c.tables.PersonIndicators)
	projectScore := countContained(query, c.tables.ProjectIndicators)

	if containsAny(query, c.tables.SelfReferencePhrases) {
		personScore += 2
	}
	if containsAny(query, c.tables.SolicitationPhrases) {
		projectScore += 2
	}

	c.logger.Debug("input type analysis",
		"query", truncateForLog(query, 50),
		"personScore", personScore,
		"projectScore", projectScore)

	switch {
	case personScore > projectScore && personScore > 0:
		cl.InputType = InputTypePerson
		cl.QueryType = QueryTypePersonToProject
		cl.Direction = DirectionPersonToProject
	case projectScore > personScore && projectScore > 0:
		cl.InputType = InputTypeProject
		cl.QueryType = QueryTypeProjectToPerson
		cl.Direction = DirectionProjectToPerson
	case personScore > 0 || projectScore > 0:
		cl.InputType = InputTypeMixed
		cl.QueryType = QueryTypeSkillMatch
		cl.Direction = DirectionBidirectional
	}
}

func (c *Classifier) extractExperienceYears(query string) int {
	for _, pattern := range experiencePatterns {
		if m := pattern.FindStringSubmatch(query); m != nil {
			years, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return years
		}
	}
	return 0
}

// extractSkills flags a skill once any of its variants appears in the query.
// It returns the canonical skill names (sorted for determinism) and the
// variant keywords that matched.
func (c *Classifier) extractSkills(query string) (skills, keywords []string) {
	queryLower := strings.ToLower(query)

	for skill, variants := range c.tables.SkillKeywords {
		for _, variant := range variants {
			if strings.Contains(queryLower, strings.ToLower(variant)) || strings.Contains(query, variant) {
				skills = append(skills, skill)
				keywords = append(keywords, variant)
				break
			}
		}
	}

	sort.Strings(skills)
	return skills, keywords
}

func countContained(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			count++
		}
	}
	return count
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func truncateForLog(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
