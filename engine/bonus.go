package engine

import (
	"fmt"
	"strings"

	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// maxSkillBonus caps the skill-match component of re-scoring. Direction and
// input-type components are uncapped so strongly direction-matched documents
// can overtake raw similarity.
const maxSkillBonus = 0.5

// bidirectionalBonus re-scores a merged result against the classification:
// capped skill bonus plus direction-term and input-type bonuses.
func (e *Engine) bidirectionalBonus(result *core.SearchResult, cl *classify.Classification) float32 {
	var bonus float32

	bonus += e.skillBonus(result, cl)

	content := strings.ToLower(result.Subject + " " + result.Preview)

	switch cl.Direction {
	case classify.DirectionPersonToProject:
		for _, term := range e.tables.DirectionProjectTerms {
			if strings.Contains(content, strings.ToLower(term)) {
				bonus += 0.15
			}
		}
	case classify.DirectionProjectToPerson:
		for _, term := range e.tables.DirectionPersonTerms {
			if strings.Contains(content, strings.ToLower(term)) {
				bonus += 0.15
			}
		}
	}

	switch cl.InputType {
	case classify.InputTypePerson:
		if containsAnyFold(content, e.tables.InputProjectBonusTerms) {
			bonus += 0.2
		}
	case classify.InputTypeProject:
		if containsAnyFold(content, e.tables.InputPersonBonusTerms) {
			bonus += 0.2
		}
	}

	return bonus
}

// skillBonus rewards skill variant hits (+0.1 once per skill), experience
// mentions (+0.15 once), and generic project vocabulary (+0.05 each),
// capped at maxSkillBonus.
func (e *Engine) skillBonus(result *core.SearchResult, cl *classify.Classification) float32 {
	var bonus float32
	content := strings.ToLower(result.Subject + " " + result.Preview)

	for _, skill := range cl.Skills {
		for _, variant := range e.tables.SkillVariants(skill) {
			if strings.Contains(content, strings.ToLower(variant)) {
				bonus += 0.1
				break
			}
		}
	}

	if cl.ExperienceYears > 0 {
		mentions := []string{
			fmt.Sprintf("%d年", cl.ExperienceYears),
			fmt.Sprintf("%d年間", cl.ExperienceYears),
			fmt.Sprintf("%d年以上", cl.ExperienceYears),
		}
		for _, mention := range mentions {
			if strings.Contains(content, mention) {
				bonus += 0.15
				break
			}
		}
	}

	for _, term := range e.tables.GenericProjectTerms {
		if strings.Contains(content, strings.ToLower(term)) {
			bonus += 0.05
		}
	}

	if bonus > maxSkillBonus {
		bonus = maxSkillBonus
	}
	return bonus
}

func containsAnyFold(content string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(content, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
