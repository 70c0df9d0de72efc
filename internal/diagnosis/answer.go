package diagnosis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

type AnswerKind int

const (
	AnswerUnknown AnswerKind = iota
	AnswerText
	AnswerList
	AnswerNumber
)

// AnswerValue is a diagnosis answer: free text, a list of selected options,
// or a number. The kind is decided from the JSON shape.
type AnswerValue struct {
	Kind   AnswerKind
	Text   string
	List   []string
	Number float64
}

func TextAnswer(s string) AnswerValue       { return AnswerValue{Kind: AnswerText, Text: s} }
func ListAnswer(items ...string) AnswerValue { return AnswerValue{Kind: AnswerList, List: items} }
func NumberAnswer(n float64) AnswerValue     { return AnswerValue{Kind: AnswerNumber, Number: n} }

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = AnswerValue{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextAnswer(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return errors.New("list answers may only contain strings")
			}
			items = append(items, s)
		}
		*v = AnswerValue{Kind: AnswerList, List: items}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer value: %s", string(data))
		}
		*v = NumberAnswer(n)
	}
	return nil
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerText:
		return json.Marshal(v.Text)
	case AnswerList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case AnswerNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

const (
	maxTextAnswerLength = 500
	maxListAnswerItems  = 10
	maxNumberAnswer     = 1000000
	maxSessionIDLength  = 100
)

var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidSessionID(id string) bool {
	return len(id) >= 1 && len(id) <= maxSessionIDLength && sessionIDPattern.MatchString(id)
}

// ValidateAnswers checks the shape of every answer before any lookup happens.
func ValidateAnswers(answers []Answer) error {
	if len(answers) == 0 {
		return validationErrorf("at least one answer is required")
	}
	for i, a := range answers {
		if strings.TrimSpace(a.QuestionID) == "" {
			return validationErrorf("answer %d has no question id", i)
		}
		if err := validateValue(a.Value); err != nil {
			return validationErrorf("answer %d: %s", i, err.Error())
		}
	}
	return nil
}

func validateValue(v AnswerValue) error {
	switch v.Kind {
	case AnswerText:
		if strings.TrimSpace(v.Text) == "" {
			return errors.New("text answer is empty")
		}
		if len([]rune(v.Text)) > maxTextAnswerLength {
			return fmt.Errorf("text answer longer than %d characters", maxTextAnswerLength)
		}
	case AnswerList:
		if len(v.List) == 0 {
			return errors.New("multiple choice answer is empty")
		}
		if len(v.List) > maxListAnswerItems {
			return fmt.Errorf("more than %d options selected", maxListAnswerItems)
		}
		for _, item := range v.List {
			if strings.TrimSpace(item) == "" {
				return errors.New("multiple choice answer contains an empty option")
			}
		}
	case AnswerNumber:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) || v.Number < 0 {
			return errors.New("number answer must be a finite value >= 0")
		}
		if v.Number > maxNumberAnswer {
			return errors.New("number answer is too large")
		}
	default:
		return errors.New("answer is missing")
	}
	return nil
}
