package classify

import (
	"fmt"
	"strings"
)

// enhance builds the enriched retrieval query: direction-biased vocabulary,
// detected skill variants, and experience terms, all prepended to the
// original text so the raw query stays present verbatim.
func (c *Classifier) enhance(query string, cl *Classification) string {
	var parts []string

	switch cl.Direction {
	case DirectionPersonToProject:
		parts = append(parts, c.tables.ProjectEnhanceTerms...)
	case DirectionProjectToPerson:
		parts = append(parts, c.tables.PersonEnhanceTerms...)
	default:
		parts = append(parts, c.tables.BalancedEnhanceTerms...)
	}

	for _, skill := range cl.Skills {
		parts = append(parts, c.tables.SkillVariants(skill)...)
	}

	if cl.ExperienceYears > 0 {
		parts = append(parts,
			fmt.Sprintf("%d年", cl.ExperienceYears),
			fmt.Sprintf("%d年間", cl.ExperienceYears),
			fmt.Sprintf("%d年以上", cl.ExperienceYears),
			"経験")
	}

	return strings.Join(parts, " ") + " " + query
}

// FilteredEnhancedQuery builds a compact, direction-pure query for the
// orchestrator's final sub-search. Unlike the broad enhanced query it keeps
// at most three skills and four focus terms so the opposite direction's
// vocabulary never leaks in.
func (c *Classifier) FilteredEnhancedQuery(cl *Classification) string {
	skills := cl.Skills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	baseSkills := strings.Join(skills, " ")

	switch cl.Direction {
	case DirectionPersonToProject:
		q := baseSkills + " " + strings.Join(firstN(c.tables.ProjectFocusTerms, 4), " ")
		if cl.ExperienceYears > 0 {
			q += fmt.Sprintf(" %d年以上", cl.ExperienceYears)
		}
		return q
	case DirectionProjectToPerson:
		return baseSkills + " " + strings.Join(firstN(c.tables.PersonFocusTerms, 4), " ")
	default:
		return baseSkills + " 開発 プロジェクト エンジニア"
	}
}

func firstN(terms []string, n int) []string {
	if len(terms) <= n {
		return terms
	}
	return terms[:n]
}
