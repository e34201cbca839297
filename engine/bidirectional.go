package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// Canned sub-query templates. Project templates retrieve recruiting and
// requirement mails, person templates retrieve profile and skill mails.
var (
	projectQueryTemplates = []string{
		"プロジェクト 募集 開発 案件 求人",
		"採用 人材 エンジニア 募集 条件",
		"開発者 必要 スキル 要求 資格",
	}
	personQueryTemplates = []string{
		"プログラマー エンジニア 経験 技術 専門",
		"開発者 スキル 得意 できる 熟練",
		"技術者 専攻 習得 精通 能力",
	}
)

// IntelligentSearch runs the bidirectional matching pipeline: classify the
// query, fan out direction-specific sub-searches, merge by document keeping
// the best score, re-score with match bonuses, and filter out results from
// the wrong side of the match.
func (e *Engine) IntelligentSearch(ctx context.Context, query string, topK int) ([]core.SearchResult, *classify.Classification, error) {
	return e.IntelligentSearchWithMonitor(ctx, query, topK, nil)
}

// IntelligentSearchWithMonitor is IntelligentSearch with observation hooks.
// The monitor receives callbacks at each stage of the pipeline.
func (e *Engine) IntelligentSearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]core.SearchResult, *classify.Classification, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := core.ValidateQuery(query); err != nil {
		return nil, nil, err
	}

	monitor.Start(query)

	e.mu.RLock()
	degraded := e.degraded || e.index == nil
	e.mu.RUnlock()

	if degraded {
		e.logger.Debug("semantic search unavailable, using lexical fallback", "query", truncateRunes(query, 50))
		results, err := e.KeywordSearch(query, topK)
		if err != nil {
			return nil, nil, err
		}
		cl := &classify.Classification{
			InputType: classify.InputTypeUnknown,
			QueryType: classify.QueryTypeKeywordFallback,
			Direction: classify.DirectionBidirectional,
		}
		monitor.Finish(results)
		return results, cl, nil
	}

	if topK <= 0 {
		topK = e.defaultTopK
	}

	cl := e.classifier.Classify(query)
	monitor.AfterClassification(cl)

	// Unclassifiable input gets a plain semantic search.
	if cl.QueryType == classify.QueryTypeGeneral {
		results, err := e.Search(ctx, query, topK, nil)
		if err != nil {
			return nil, nil, err
		}
		monitor.Finish(results)
		return results, cl, nil
	}

	gathered := e.executeBidirectional(ctx, cl, topK, monitor)

	// Merge by document, keeping the highest score per id.
	unique := make(map[string]core.SearchResult)
	for _, result := range gathered {
		if existing, ok := unique[result.DocumentId]; !ok || result.Score > existing.Score {
			unique[result.DocumentId] = result
		}
	}
	monitor.AfterMerge(len(unique))

	merged := make([]core.SearchResult, 0, len(unique))
	for _, result := range unique {
		result.Score += e.bidirectionalBonus(&result, cl)
		merged = append(merged, result)
	}

	filtered := e.filterByDirection(merged, cl)
	monitor.AfterDirectionFilter(len(merged), len(filtered))

	sort.SliceStable(filtered, func(a, b int) bool { return filtered[a].Score > filtered[b].Score })
	if len(filtered) > topK {
		filtered = filtered[:topK]
	}

	e.logger.Info("bidirectional search complete",
		"direction", cl.Direction,
		"results", len(filtered))
	monitor.Finish(filtered)
	return filtered, cl, nil
}

// executeBidirectional fans out the sub-searches for a classified query:
// direction-specific canned templates, per-skill variant queries, and the
// filtered enhanced query. A failed sub-search is logged and skipped; the
// fan-out always completes.
func (e *Engine) executeBidirectional(ctx context.Context, cl *classify.Classification, topK int, monitor SearchMonitor) []core.SearchResult {
	var gathered []core.SearchResult

	collect := func(label, searchText string, k int) {
		if k <= 0 {
			return
		}
		results, err := e.searchVector(ctx, searchText, searchText, k, nil)
		if err != nil {
			e.logger.Warn("sub-search failed", "label", label, "err", err)
			return
		}
		monitor.AfterSubSearch(label, results)
		gathered = append(gathered, results...)
	}

	switch cl.Direction {
	case classify.DirectionPersonToProject:
		for i, template := range projectQueryTemplates {
			collect(fmt.Sprintf("project-%d", i), e.expandTemplate(template, cl), topK/len(projectQueryTemplates))
		}
	case classify.DirectionProjectToPerson:
		for i, template := range personQueryTemplates {
			collect(fmt.Sprintf("person-%d", i), e.expandTemplate(template, cl), topK/len(personQueryTemplates))
		}
	default:
		for i, template := range projectQueryTemplates {
			collect(fmt.Sprintf("project-%d", i), e.expandTemplate(template, cl), topK/2/len(projectQueryTemplates))
		}
		for i, template := range personQueryTemplates {
			collect(fmt.Sprintf("person-%d", i), e.expandTemplate(template, cl), topK/2/len(personQueryTemplates))
		}
	}

	// Per-skill queries against the top variants.
	for _, skill := range cl.Skills {
		variants := e.tables.SkillVariants(skill)
		if len(variants) > 2 {
			variants = variants[:2]
		}
		for _, keyword := range variants {
			var q string
			switch cl.Direction {
			case classify.DirectionPersonToProject:
				q = fmt.Sprintf("プロジェクト 開発 %s 募集 要求 案件 求人 採用", keyword)
			case classify.DirectionProjectToPerson:
				q = fmt.Sprintf("プログラマー エンジニア %s 経験 技術 専門 人材", keyword)
			default:
				q = fmt.Sprintf("%s 開発 プロジェクト エンジニア", keyword)
			}
			collect("skill:"+skill, q, topK/4)
		}
	}

	// Direction-pure enhanced query at full width.
	collect("filtered-enhanced", e.classifier.FilteredEnhancedQuery(cl), topK)

	return gathered
}

// expandTemplate appends the classified skills' top variants and the
// experience requirement to a canned template.
func (e *Engine) expandTemplate(template string, cl *classify.Classification) string {
	q := template

	if len(cl.Skills) > 0 {
		skills := cl.Skills
		if len(skills) > 2 {
			skills = skills[:2]
		}
		var terms []string
		for _, skill := range skills {
			variants := e.tables.SkillVariants(skill)
			if len(variants) > 2 {
				variants = variants[:2]
			}
			terms = append(terms, variants...)
		}
		q += " " + strings.Join(terms, " ")
	}

	if cl.ExperienceYears > 0 {
		q += fmt.Sprintf(" %d年 経験", cl.ExperienceYears)
	}

	return q
}
