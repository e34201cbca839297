package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables holds the keyword data driving classification, query enhancement,
// bonus scoring, and direction filtering. All lists are plain data so new
// languages and terms are additive configuration changes, not code changes.
//
// Matching is substring containment against these entries, not tokenized
// boundary matching.
type Tables struct {
	// SkillKeywords maps canonical skill identifiers to their spelling
	// variants across scripts (Latin, kana, CJK).
	SkillKeywords map[string][]string `yaml:"skill_keywords"`

	// PersonIndicators and ProjectIndicators drive input-type scoring.
	PersonIndicators  []string `yaml:"person_indicators"`
	ProjectIndicators []string `yaml:"project_indicators"`

	// SelfReferencePhrases add +2 to the person score when present.
	// SolicitationPhrases add +2 to the project score when present.
	SelfReferencePhrases []string `yaml:"self_reference_phrases"`
	SolicitationPhrases  []string `yaml:"solicitation_phrases"`

	// Enhancement vocabularies appended ahead of the original query text.
	ProjectEnhanceTerms  []string `yaml:"project_enhance_terms"`
	PersonEnhanceTerms   []string `yaml:"person_enhance_terms"`
	BalancedEnhanceTerms []string `yaml:"balanced_enhance_terms"`

	// Focused vocabularies for the orchestrator's filtered enhanced query.
	ProjectFocusTerms []string `yaml:"project_focus_terms"`
	PersonFocusTerms  []string `yaml:"person_focus_terms"`

	// Direction bonus terms: +0.15 per match, uncapped.
	DirectionProjectTerms []string `yaml:"direction_project_terms"`
	DirectionPersonTerms  []string `yaml:"direction_person_terms"`

	// Input-type bonus terms: +0.2 when any term matches.
	InputProjectBonusTerms []string `yaml:"input_project_bonus_terms"`
	InputPersonBonusTerms  []string `yaml:"input_person_bonus_terms"`

	// GenericProjectTerms: +0.05 per match inside the capped skill bonus.
	GenericProjectTerms []string `yaml:"generic_project_terms"`

	// Annotation vocabularies for the document text normalizer. Matched
	// substrings are wrapped with tag markers before embedding.
	AnnotationRequirementTerms []string `yaml:"annotation_requirement_terms"`
	AnnotationProjectTerms     []string `yaml:"annotation_project_terms"`

	// Filter tables. SubjectPersonExclusions are authoritative: a subject
	// containing one is excluded outright. SubjectProjectExclusions is the
	// symmetric table for the reverse direction; it ships empty so the
	// default behavior only removes person-leaning noise.
	SubjectPersonExclusions  []string `yaml:"subject_person_exclusions"`
	SubjectProjectExclusions []string `yaml:"subject_project_exclusions"`
	GeneralPersonIndicators  []string `yaml:"general_person_indicators"`
	PersonContentKeywords    []string `yaml:"person_content_keywords"`
	ProjectContentKeywords   []string `yaml:"project_content_keywords"`
}

// LoadTables reads classification tables from a YAML file. Missing keys fall
// back to the defaults, so a file may override only the lists it cares about.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}

	tables := DefaultTables()
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parse tables: %w", err)
	}
	return tables, nil
}

// DefaultTables returns the built-in Japanese/Chinese/English tables.
func DefaultTables() *Tables {
	return &Tables{
		SkillKeywords: map[string][]string{
			"java":       {"Java", "java", "JAVA", "ジャバ", "ジャヴァ"},
			"vue":        {"Vue", "vue", "Vue.js", "vue.js", "Vue3", "vue3", "ビュー"},
			"springboot": {"SpringBoot", "springboot", "Spring Boot", "spring boot", "スプリングブート"},
			"mybatis":    {"MyBatis", "mybatis", "Mybatis", "マイバティス"},
			"react":      {"React", "react", "React.js", "react.js", "リアクト"},
			"angular":    {"Angular", "angular", "アンギュラー"},
			"nodejs":     {"Node.js", "nodejs", "node.js", "Node", "ノード"},
			"python":     {"Python", "python", "パイソン"},
			"javascript": {"JavaScript", "javascript", "JS", "js", "ジャバスクリプト"},
			"typescript": {"TypeScript", "typescript", "TS", "ts", "タイプスクリプト"},
			"mysql":      {"MySQL", "mysql", "マイエスキューエル"},
			"postgresql": {"PostgreSQL", "postgresql", "postgres", "ポストグレ"},
			"redis":      {"Redis", "redis", "レディス"},
			"docker":     {"Docker", "docker", "ドッカー"},
			"kubernetes": {"Kubernetes", "kubernetes", "k8s", "K8s", "クーベルネテス"},
			"aws":        {"AWS", "aws", "Amazon Web Services", "アマゾンウェブサービス"},
			"azure":      {"Azure", "azure", "Microsoft Azure", "アジュール"},
			"gcp":        {"GCP", "gcp", "Google Cloud", "グーグルクラウド"},
		},

		PersonIndicators: []string{
			"程序员", "プログラマー", "开发者", "開発者", "工程师", "エンジニア",
			"技术", "技術", "经验", "経験", "年", "年間", "熟悉", "精通",
			"会", "能", "掌握", "できる", "得意", "専門", "専攻",
			"要員", "社員", "プロパー", "人材", "人員", "従業員", "スタッフ",
			"メンバー", "担当者", "技術者", "開発メンバー", "チームメンバー",
			"経歴", "キャリア", "スキル", "実績", "業務経験", "開発経験",
		},

		ProjectIndicators: []string{
			"项目", "プロジェクト", "案件", "開発案件", "求人", "募集", "招聘",
			"要求", "必要", "需要", "スキル要求", "条件", "資格", "応募",
			"職種", "仕事", "ポジション", "採用", "人材", "人員",
			"募集中", "急募", "即戦力", "経験者", "未経験", "新卒", "中途",
			"正社員", "契約社員", "アルバイト", "パート", "フリーランス",
			"業務委託", "派遣", "常駐", "リモート", "在宅", "テレワーク",
			"開発チーム", "プロジェクトメンバー", "技術要件", "必須スキル",
			"歓迎スキル", "優遇", "給与", "年収", "時給", "単価", "報酬",
		},

		SelfReferencePhrases: []string{"我是", "私は", "本人", "自己"},
		SolicitationPhrases:  []string{"招聘", "求人", "募集", "応募", "採用"},

		ProjectEnhanceTerms: []string{
			"プロジェクト", "案件", "開発", "求人", "募集", "要求", "必要",
			"スキル", "条件", "資格", "採用", "人材", "職種",
		},
		PersonEnhanceTerms: []string{
			"程序员", "プログラマー", "开发者", "開発者", "工程师", "エンジニア",
			"经验", "経験", "技术", "技術", "熟悉", "精通", "専門", "得意",
		},
		BalancedEnhanceTerms: []string{
			"プロジェクト", "案件", "開発", "求人", "募集", "要求", "必要", "スキル",
			"程序员", "プログラマー", "开发者", "開発者", "工程师", "エンジニア",
			"经验", "経験", "技术", "技術",
		},

		ProjectFocusTerms: []string{
			"プロジェクト", "開発案件", "募集", "求人", "採用",
			"必要", "要求", "条件", "資格", "スキル要求",
		},
		PersonFocusTerms: []string{
			"エンジニア", "プログラマー", "開発者", "技術者",
			"経験", "実績", "スキル", "専門", "人材",
		},

		DirectionProjectTerms: []string{
			"プロジェクト", "案件", "募集", "求人", "採用", "開発", "要求", "必要",
		},
		DirectionPersonTerms: []string{
			"プログラマー", "エンジニア", "開発者", "経験", "技術", "専門", "得意", "スキル",
		},

		InputProjectBonusTerms: []string{"プロジェクト", "案件", "募集", "求人"},
		InputPersonBonusTerms:  []string{"プログラマー", "エンジニア", "開発者", "経験"},

		GenericProjectTerms: []string{"プロジェクト", "案件", "開発", "求人", "募集"},

		AnnotationRequirementTerms: []string{
			"スキル", "技術", "技能", "経験", "要求", "必要", "求める", "希望",
		},
		AnnotationProjectTerms: []string{
			"プロジェクト", "案件", "開発", "構築", "システム", "アプリ",
		},

		SubjectPersonExclusions: []string{
			"プロパー", "人材", "要員", "社員", "営業中", "ご紹介",
			"推薦", "候補者", "応募者", "稼働中", "稼働可能", "アサイン", "参画可能",
			"要員情報", "人材情報", "人員情報", "社員情報", "メンバー情報",
			"技術者情報", "エンジニア情報", "開発者情報", "プログラマー情報",
			"人財配信", "弊社直個人", "直個人", "個人情報", "履歴書", "経歴書",
			"人財紹介", "人材紹介", "技術者紹介", "エンジニア紹介", "プログラマー紹介",
			"スキルシート", "技術シート", "経験シート", "プロフィール",
			"即日稼働", "稼働希望", "参画希望", "アサイン希望", "就業希望",
			"転職希望", "求職", "就職活動", "キャリアチェンジ",
			"優秀な", "実力のある", "経験豊富な", "ベテランの", "即戦力の",
			"おすすめの", "推奨の", "イチオシの", "注目の",
			"フリーランス", "直フリーランス", "フリー", "個人事業主", "業務委託",
			"外部パートナー", "協力会社", "外注先", "委託先",
		},

		SubjectProjectExclusions: nil,

		GeneralPersonIndicators: []string{
			"弊社", "営業中", "ご紹介", "推薦", "候補者", "応募者",
			"稼働中", "稼働可能", "アサイン", "参画可能",
			"人財配信", "弊社直個人", "直個人", "個人情報", "履歴書", "経歴書",
			"人財紹介", "人材紹介", "技術者紹介", "エンジニア紹介", "プログラマー紹介",
			"スキルシート", "技術シート", "経験シート", "プロフィール",
			"即日稼働", "稼働希望", "参画希望", "アサイン希望", "就業希望",
			"転職希望", "求職", "就職活動", "キャリアチェンジ",
			"優秀な", "実力のある", "経験豊富な", "ベテランの", "即戦力の",
			"おすすめの", "推奨の", "イチオシの", "注目の",
			"配信", "配属", "派遣", "出向", "常駐", "客先常駐",
			"フリーランス", "直フリーランス", "フリー", "個人事業主", "業務委託",
			"外部パートナー", "協力会社", "外注先", "委託先",
			"見合う案件", "案件ございましたら", "ご紹介いただけます", "案件をお探し",
			"プロジェクトをお探し", "お仕事をお探し", "参画できる案件", "マッチする案件",
			"適した案件", "条件に合う案件", "希望に合う案件",
		},

		PersonContentKeywords: []string{
			"名前", "年齢", "歳", "性別", "男性", "女性", "国籍", "中国籍", "日本籍",
			"最寄駅", "駅", "稼働", "即日", "所属", "正社員", "単価", "万", "精算",
			"実務経験", "年", "ヶ月", "日本語", "N1", "N2", "N3", "状況", "並行営業",
			"推薦理由", "性格", "明るく", "コミュニケーション", "チーム意識",
			"積極的", "継続的", "学び続ける", "意欲", "挑戦", "理解", "把握",
			"要員", "社員", "プロパー", "人材", "人員", "メンバー", "スタッフ",
			"弊社", "営業中", "ご紹介", "紹介", "推薦", "候補者", "応募者",
			"フリーランス", "派遣", "契約社員", "業務委託", "外注", "協力会社",
			"稼働中", "稼働可能", "アサイン", "参画", "常駐", "リモート可",
			"即戦力", "ベテラン", "シニア", "ジュニア", "新人", "若手",
			"経歴", "職歴", "学歴", "資格", "認定", "取得済み",
			"優秀", "真面目", "責任感", "協調性", "リーダーシップ", "向上心",
			"几帳面", "丁寧", "細かい", "気配り", "サポート力", "対応力",
		},

		ProjectContentKeywords: []string{
			"プロジェクト", "開発", "案件", "募集", "求人", "採用", "必要", "要求",
			"条件", "資格", "スキル", "技術", "経験者", "エンジニア", "プログラマー",
			"開発者", "技術者", "業務", "システム", "アプリケーション", "Web",
			"フロントエンド", "バックエンド", "データベース", "インフラ",
		},
	}
}

// SkillVariants returns the spelling variants for a canonical skill, or nil
// when the skill is unknown.
func (t *Tables) SkillVariants(skill string) []string {
	return t.SkillKeywords[skill]
}
