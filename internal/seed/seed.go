// Package seed loads the catalog fixtures (diagnosis questions, plans and
// FAQs) shipped with the admin CLI.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"yoplan/internal/diagnosis"
	"yoplan/internal/models/db_models"
	"yoplan/internal/repositories"
)

//go:embed seed.yaml
var defaultSeed []byte

type File struct {
	Questions []Question `yaml:"questions"`
	Plans     []Plan     `yaml:"plans"`
	Faqs      []Faq      `yaml:"faqs"`
}

type Question struct {
	Order    int      `yaml:"order"`
	Question string   `yaml:"question"`
	Type     string   `yaml:"type"`
	Category string   `yaml:"category"`
	Weight   int      `yaml:"weight"`
	Options  []string `yaml:"options"`
	Inactive bool     `yaml:"inactive"`
}

type Plan struct {
	Name       string            `yaml:"name"`
	Category   string            `yaml:"category"`
	Price      string            `yaml:"price"`
	PriceValue int64             `yaml:"priceValue"`
	SalePrice  string            `yaml:"salePrice"`
	PlanSpeed  string            `yaml:"planSpeed"`
	Infos      []string          `yaml:"infos"`
	Benefits   map[string]string `yaml:"benefits"`
	Brands     []string          `yaml:"brands"`
	// Badge is a single label or a list of labels.
	Badge    interface{} `yaml:"badge"`
	MinAge   *int        `yaml:"minAge"`
	MaxAge   *int        `yaml:"maxAge"`
	Inactive bool        `yaml:"inactive"`
}

type Faq struct {
	Question   string   `yaml:"question"`
	Answer     string   `yaml:"answer"`
	Variations []string `yaml:"variations"`
	Keywords   []string `yaml:"keywords"`
	Category   string   `yaml:"category"`
}

// Default returns the fixtures embedded in the binary.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// Parse decodes and validates a seed document. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	var errs []error
	orders := map[int]bool{}
	for i, q := range f.Questions {
		if q.Question == "" {
			errs = append(errs, fmt.Errorf("question %d: text is required", i))
		}
		if orders[q.Order] {
			errs = append(errs, fmt.Errorf("question %d: duplicate order %d", i, q.Order))
		}
		orders[q.Order] = true
		switch diagnosis.QuestionType(q.Type) {
		case diagnosis.QuestionSingle, diagnosis.QuestionMultiple, diagnosis.QuestionRange, diagnosis.QuestionInput:
		default:
			errs = append(errs, fmt.Errorf("question %d: unknown type %q", i, q.Type))
		}
	}
	for i, p := range f.Plans {
		if p.Name == "" || p.PriceValue <= 0 {
			errs = append(errs, fmt.Errorf("plan %d: name and a positive priceValue are required", i))
		}
		if p.MinAge != nil && p.MaxAge != nil && *p.MinAge > *p.MaxAge {
			errs = append(errs, fmt.Errorf("plan %q: minAge is above maxAge", p.Name))
		}
	}
	for i, faq := range f.Faqs {
		if faq.Question == "" || faq.Answer == "" {
			errs = append(errs, fmt.Errorf("faq %d: question and answer are required", i))
		}
	}
	return errors.Join(errs...)
}

type Summary struct {
	Questions int
	Plans     int
	Faqs      int
}

// Seeder upserts fixtures, so running it twice leaves one row per entry.
type Seeder struct {
	catalog repositories.DiagnosisCatalogRepository
	plans   repositories.IPlanRepository
	faqs    repositories.FaqRepositoryInterface
	log     *zap.Logger
}

func NewSeeder(
	catalog repositories.DiagnosisCatalogRepository,
	plans repositories.IPlanRepository,
	faqs repositories.FaqRepositoryInterface,
	log *zap.Logger,
) *Seeder {
	return &Seeder{catalog: catalog, plans: plans, faqs: faqs, log: log}
}

func (s *Seeder) Run(ctx context.Context, f *File) (Summary, error) {
	var sum Summary

	for _, q := range f.Questions {
		row := &db_models.DiagnosisQuestion{
			SortOrder: q.Order,
			Question:  q.Question,
			Type:      q.Type,
			Options:   q.Options,
			Category:  q.Category,
			Weight:    q.Weight,
			IsActive:  !q.Inactive,
		}
		if err := s.catalog.UpsertQuestion(ctx, row); err != nil {
			return sum, fmt.Errorf("upsert question %d: %w", q.Order, err)
		}
		sum.Questions++
	}

	for _, p := range f.Plans {
		row, err := p.toModel()
		if err != nil {
			return sum, err
		}
		if err := s.plans.UpsertByName(ctx, row); err != nil {
			return sum, fmt.Errorf("upsert plan %q: %w", p.Name, err)
		}
		sum.Plans++
	}

	for _, faq := range f.Faqs {
		row := &db_models.Faq{
			Question:   faq.Question,
			Answer:     faq.Answer,
			Variations: faq.Variations,
			Keywords:   faq.Keywords,
			Category:   faq.Category,
		}
		if err := s.faqs.UpsertByQuestion(ctx, row); err != nil {
			return sum, fmt.Errorf("upsert faq %q: %w", faq.Question, err)
		}
		sum.Faqs++
	}

	s.log.Info("seed applied",
		zap.Int("questions", sum.Questions),
		zap.Int("plans", sum.Plans),
		zap.Int("faqs", sum.Faqs))
	return sum, nil
}

func (p Plan) toModel() (*db_models.Plan, error) {
	benefits := p.Benefits
	if benefits == nil {
		benefits = map[string]string{}
	}
	benefitsJSON, err := json.Marshal(benefits)
	if err != nil {
		return nil, fmt.Errorf("plan %q benefits: %w", p.Name, err)
	}

	var badgeJSON []byte
	if p.Badge != nil {
		if badgeJSON, err = json.Marshal(p.Badge); err != nil {
			return nil, fmt.Errorf("plan %q badge: %w", p.Name, err)
		}
	}

	category := p.Category
	if category == "" {
		category = db_models.PlanCategoryOther
	}
	return &db_models.Plan{
		Name:       p.Name,
		Category:   category,
		Price:      p.Price,
		PriceValue: p.PriceValue,
		SalePrice:  p.SalePrice,
		PlanSpeed:  p.PlanSpeed,
		Infos:      p.Infos,
		Benefits:   datatypes.JSON(benefitsJSON),
		Brands:     p.Brands,
		Badge:      datatypes.JSON(badgeJSON),
		MinAge:     p.MinAge,
		MaxAge:     p.MaxAge,
		IsActive:   !p.Inactive,
	}, nil
}
