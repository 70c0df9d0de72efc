package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"yoplan/internal/infra"
	"yoplan/internal/models/db_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/llm"
	"yoplan/pkg/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.Migrate(db))
	return db
}

func newAccountService(db *gorm.DB) *AccountService {
	return NewAccountService(repositories.NewUserRepository(db), utils.NewJWTManager("test-secret", time.Hour), zap.NewNop())
}

func createPlan(t *testing.T, db *gorm.DB, name, category string, price int64, infos ...string) *db_models.Plan {
	t.Helper()
	p := &db_models.Plan{
		Name:       name,
		Category:   category,
		PriceValue: price,
		Infos:      infos,
		Benefits:   datatypes.JSON(`{}`),
		Badge:      datatypes.JSON(`null`),
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createUser(t *testing.T, db *gorm.DB, nickname string, birthYear *int) *db_models.User {
	t.Helper()
	u := &db_models.User{Nickname: nickname, Email: nickname + "@example.com", BirthYear: birthYear, Role: db_models.RoleUser}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createFaq(t *testing.T, db *gorm.DB, question, answer string, variations, keywords []string) *db_models.Faq {
	t.Helper()
	f := &db_models.Faq{Question: question, Answer: answer, Variations: variations, Keywords: keywords}
	require.NoError(t, db.Create(f).Error)
	return f
}

// fakeChat is a scripted llm.ChatClient.
type fakeChat struct {
	mu      sync.Mutex
	reply   string
	chunks  []string
	err     error
	systems []string
	history [][]llm.Message
}

func (f *fakeChat) Provider() string { return "fake" }

func (f *fakeChat) Complete(_ context.Context, system string, history []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systems = append(f.systems, system)
	f.history = append(f.history, history)
	return f.reply, f.err
}

func (f *fakeChat) Stream(_ context.Context, system string, history []llm.Message, onChunk func(string) error) error {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.history = append(f.history, history)
	chunks, err := f.chunks, f.err
	f.mu.Unlock()
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return nil
}

// fakeEmbedder maps texts containing a keyword to a fixed vector.
type fakeEmbedder struct {
	err error
}

func (f fakeEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	if strings.Contains(text, "해지") {
		return pgvector.NewVector([]float32{1, 0}), nil
	}
	return pgvector.NewVector([]float32{0, 1}), nil
}

// fakeEmbeddingRepo scores stored vectors with a dot product.
type fakeEmbeddingRepo struct {
	mu     sync.Mutex
	stored map[string]db_models.FaqEmbedding
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{stored: map[string]db_models.FaqEmbedding{}}
}

func (f *fakeEmbeddingRepo) Upsert(_ context.Context, e db_models.FaqEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[e.FaqID] = e
	return nil
}

func (f *fakeEmbeddingRepo) SearchSimilar(_ context.Context, v pgvector.Vector, threshold float64, limit int) ([]repositories.FaqMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repositories.FaqMatch
	for _, e := range f.stored {
		var dot float64
		a, b := v.Slice(), e.Embedding.Slice()
		for i := range a {
			if i < len(b) {
				dot += float64(a[i] * b[i])
			}
		}
		if dot > threshold {
			out = append(out, repositories.FaqMatch{FaqEmbedding: e, Similarity: dot})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEmbeddingRepo) DeleteAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = map[string]db_models.FaqEmbedding{}
	return nil
}

// recordingSink captures websocket events as "kind:payload" strings.
type recordingSink struct {
	events   []string
	messages []response_models.MessageResponse
	failOn   string
}

func (r *recordingSink) record(kind, payload string) error {
	if kind == r.failOn {
		return errors.New("client gone")
	}
	r.events = append(r.events, kind+":"+payload)
	return nil
}

func (r *recordingSink) Confirmed(msg response_models.MessageResponse) error {
	r.messages = append(r.messages, msg)
	return r.record("confirmed", msg.Content)
}

func (r *recordingSink) Start(messageID string) error { return r.record("start", "") }

func (r *recordingSink) Chunk(text string) error { return r.record("chunk", text) }

func (r *recordingSink) Error(message string) error { return r.record("error", message) }

func (r *recordingSink) End(msg response_models.MessageResponse) error {
	r.messages = append(r.messages, msg)
	return r.record("end", msg.Content)
}
