package classify

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPersonQuery(t *testing.T) {
	c := NewClassifier(nil)

	cl := c.Classify("3年経験のJavaエンジニア")

	assert.Equal(t, InputTypePerson, cl.InputType)
	assert.Equal(t, QueryTypePersonToProject, cl.QueryType)
	assert.Equal(t, DirectionPersonToProject, cl.Direction)
	assert.Equal(t, 3, cl.ExperienceYears)
	assert.Contains(t, cl.Skills, "java")
}

func TestClassifyProjectQuery(t *testing.T) {
	c := NewClassifier(nil)

	cl := c.Classify("Python開発者募集、3年以上")

	assert.Equal(t, InputTypeProject, cl.InputType)
	assert.Equal(t, QueryTypeProjectToPerson, cl.QueryType)
	assert.Equal(t, DirectionProjectToPerson, cl.Direction)
	assert.Equal(t, 3, cl.ExperienceYears)
	assert.Contains(t, cl.Skills, "python")
}

func TestClassifyDecisionRule(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name      string
		query     string
		inputType InputType
		queryType QueryType
		direction Direction
	}{
		{
			name:      "no indicators stays unknown",
			query:     "こんにちは",
			inputType: InputTypeUnknown,
			queryType: QueryTypeGeneral,
			direction: DirectionBidirectional,
		},
		{
			name:      "self reference boosts person",
			query:     "私はJavaが得意です",
			inputType: InputTypePerson,
			queryType: QueryTypePersonToProject,
			direction: DirectionPersonToProject,
		},
		{
			name:      "solicitation boosts project",
			query:     "求人のご案内",
			inputType: InputTypeProject,
			queryType: QueryTypeProjectToPerson,
			direction: DirectionProjectToPerson,
		},
		{
			// エンジニア and 経験 hit the person side, 案件 and 募集 plus the
			// solicitation bonus outweigh them.
			name:      "recruiting mail leans project",
			query:     "経験のあるエンジニア募集の案件",
			inputType: InputTypeProject,
			queryType: QueryTypeProjectToPerson,
			direction: DirectionProjectToPerson,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Classify(tt.query)
			assert.Equal(t, tt.inputType, cl.InputType)
			assert.Equal(t, tt.queryType, cl.QueryType)
			assert.Equal(t, tt.direction, cl.Direction)
		})
	}
}

func TestClassifyNonzeroTieIsMixed(t *testing.T) {
	tables := &Tables{
		PersonIndicators:  []string{"engineer"},
		ProjectIndicators: []string{"project"},
	}
	c := NewClassifier(tables)

	cl := c.Classify("engineer for project")

	assert.Equal(t, InputTypeMixed, cl.InputType)
	assert.Equal(t, QueryTypeSkillMatch, cl.QueryType)
	assert.Equal(t, DirectionBidirectional, cl.Direction)
}

// Input type and direction must agree: person inputs search toward projects,
// project inputs toward people, mixed both ways.
func TestClassifyConsistency(t *testing.T) {
	c := NewClassifier(nil)

	queries := []string{
		"3年経験のJavaエンジニア",
		"Python開発者募集、3年以上",
		"私はReactとTypeScriptの専門家",
		"エンジニア採用、必須スキルはAWS",
		"天気はどうですか",
		"Java",
	}

	for _, q := range queries {
		cl := c.Classify(q)
		switch cl.InputType {
		case InputTypePerson:
			assert.Equal(t, DirectionPersonToProject, cl.Direction, q)
			assert.Equal(t, QueryTypePersonToProject, cl.QueryType, q)
		case InputTypeProject:
			assert.Equal(t, DirectionProjectToPerson, cl.Direction, q)
			assert.Equal(t, QueryTypeProjectToPerson, cl.QueryType, q)
		case InputTypeMixed:
			assert.Equal(t, DirectionBidirectional, cl.Direction, q)
			assert.Equal(t, QueryTypeSkillMatch, cl.QueryType, q)
		case InputTypeUnknown:
			assert.Equal(t, DirectionBidirectional, cl.Direction, q)
			assert.Equal(t, QueryTypeGeneral, cl.QueryType, q)
		}
	}
}

func TestExtractExperienceYears(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		query string
		years int
	}{
		{"5年以上の経験があります", 5},
		{"3年以上", 3},
		{"2年の経験", 2},
		{"4年经验", 4},
		{"7年間の開発", 7},
		{"10年", 10},
		{"経験は問いません", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			cl := c.Classify(tt.query)
			assert.Equal(t, tt.years, cl.ExperienceYears)
		})
	}
}

func TestExtractSkills(t *testing.T) {
	c := NewClassifier(nil)

	cl := c.Classify("VueとSpring Bootでの開発、mysql利用")
	assert.ElementsMatch(t, []string{"vue", "springboot", "mysql"}, cl.Skills)
	assert.Len(t, cl.Keywords, 3)

	cl = c.Classify("パイソンのできる方")
	assert.Equal(t, []string{"python"}, cl.Skills)
}

func TestEnhancedQueryKeepsOriginal(t *testing.T) {
	c := NewClassifier(nil)

	query := "3年経験のJavaエンジニア"
	cl := c.Classify(query)

	require.NotEmpty(t, cl.EnhancedQuery)
	assert.True(t, strings.HasSuffix(cl.EnhancedQuery, query))
	// Person input searches toward project vocabulary.
	assert.Contains(t, cl.EnhancedQuery, "案件")
	assert.Contains(t, cl.EnhancedQuery, "3年以上")
	assert.Contains(t, cl.EnhancedQuery, "ジャバ")
}

func TestFilteredEnhancedQuery(t *testing.T) {
	c := NewClassifier(nil)

	t.Run("person to project", func(t *testing.T) {
		cl := c.Classify("3年経験のJavaエンジニア")
		q := c.FilteredEnhancedQuery(cl)
		assert.Contains(t, q, "java")
		assert.Contains(t, q, "プロジェクト")
		assert.Contains(t, q, "3年以上")
		// Person-side vocabulary must not leak into a project-directed query.
		assert.NotContains(t, q, "プログラマー")
	})

	t.Run("project to person", func(t *testing.T) {
		cl := c.Classify("Python開発者募集")
		q := c.FilteredEnhancedQuery(cl)
		assert.Contains(t, q, "python")
		assert.Contains(t, q, "エンジニア")
		assert.NotContains(t, q, "募集")
	})

	t.Run("skill cap at three", func(t *testing.T) {
		cl := &Classification{
			Skills:    []string{"java", "vue", "react", "python"},
			Direction: DirectionBidirectional,
		}
		q := c.FilteredEnhancedQuery(cl)
		assert.NotContains(t, q, "python")
	})
}

func TestLoadTablesOverridesPartial(t *testing.T) {
	path := t.TempDir() + "/tables.yaml"
	data := []byte("person_indicators:\n  - candidate\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"candidate"}, tables.PersonIndicators)
	// Untouched keys keep their defaults.
	assert.NotEmpty(t, tables.ProjectIndicators)
	assert.NotEmpty(t, tables.SkillKeywords)
}

func TestLoadTablesMissingFile(t *testing.T) {
	_, err := LoadTables("/nonexistent/tables.yaml")
	assert.Error(t, err)
}
