package diagnosis

import "strings"

const (
	TagVideoStreaming = "video-streaming"
	TagGaming         = "gaming"
	TagMusic          = "music"
	TagWork           = "work"
	TagSocial         = "social"

	PreferenceUnlimited = "unlimited"
	PreferenceHighSpeed = "high-speed"
)

type bucketRule struct {
	keyword string
	value   float64
}

// Bucket tables are evaluated top to bottom; the first keyword contained in
// the answer sets the field. Do not reorder.
var (
	dataUsageBuckets = []bucketRule{
		{"5GB 미만", 3},
		{"5GB - 20GB", 12},
		{"20GB - 50GB", 35},
		{"50GB - 100GB", 75},
		{"100GB 이상", 150},
		{"무제한", 150},
	}
	budgetBuckets = []bucketRule{
		{"3만원 이하", 30000},
		{"3-5만원", 40000},
		{"5-7만원", 60000},
		{"7-10만원", 85000},
		{"10만원 이상", 120000},
	}
	ageBuckets = []bucketRule{
		{"10대", 15},
		{"20대", 25},
		{"30대", 35},
		{"40대", 45},
		{"50대", 55},
		{"60대 이상", 65},
	}
)

type patternRule struct {
	keywords   []string
	tag        string
	preference string
}

var patternRules = []patternRule{
	{keywords: []string{"영상", "스트리밍"}, tag: TagVideoStreaming, preference: PreferenceUnlimited},
	{keywords: []string{"게임"}, tag: TagGaming, preference: PreferenceHighSpeed},
	{keywords: []string{"음악"}, tag: TagMusic},
	{keywords: []string{"업무"}, tag: TagWork},
	{keywords: []string{"SNS"}, tag: TagSocial},
}

type numericField int

const (
	numericBudget numericField = iota
	numericDataUsage
	numericAge
)

type numericRule struct {
	below float64
	field numericField
}

// Numbers are classified by magnitude alone. The budget threshold comes first
// and covers every value below 50000, so the data and age rows never fire;
// this matches the behaviour clients already depend on.
var numericRules = []numericRule{
	{below: 50000, field: numericBudget},
	{below: 200, field: numericDataUsage},
	{below: 100, field: numericAge},
}

// Signals is the partial Analysis update produced by a single answer.
type Signals struct {
	DataUsage     *float64
	Budget        *float64
	Age           *int
	UsagePatterns []string
	Preferences   []string
}

// Normalize maps one answer value to signals. It never fails: content that
// matches no rule produces no signal.
func Normalize(value AnswerValue) Signals {
	var s Signals
	switch value.Kind {
	case AnswerText:
		s.applyText(value.Text)
	case AnswerList:
		for _, item := range value.List {
			s.applyText(item)
		}
	case AnswerNumber:
		s.applyNumber(value.Number)
	}
	return s
}

func (s *Signals) applyText(text string) {
	if v, ok := matchBucket(text, dataUsageBuckets); ok {
		s.DataUsage = &v
	}
	if v, ok := matchBucket(text, budgetBuckets); ok {
		s.Budget = &v
	}
	if v, ok := matchBucket(text, ageBuckets); ok {
		age := int(v)
		s.Age = &age
	}
	for _, rule := range patternRules {
		if !containsAny(text, rule.keywords) {
			continue
		}
		s.UsagePatterns = append(s.UsagePatterns, rule.tag)
		if rule.preference != "" {
			s.Preferences = append(s.Preferences, rule.preference)
		}
	}
}

func (s *Signals) applyNumber(n float64) {
	for _, rule := range numericRules {
		if n >= rule.below {
			continue
		}
		switch rule.field {
		case numericBudget:
			s.Budget = &n
		case numericDataUsage:
			s.DataUsage = &n
		case numericAge:
			age := int(n)
			s.Age = &age
		}
		return
	}
}

func matchBucket(text string, buckets []bucketRule) (float64, bool) {
	for _, b := range buckets {
		if strings.Contains(text, b.keyword) {
			return b.value, true
		}
	}
	return 0, false
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
