package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

const aiRequestsCollection = "ai_requests"

type AIRequestLog struct {
	Owner        string
	Origin       string
	Destination  string
	Days         int
	Provider     string
	Model        string
	Prompt       string
	RawResponse  []byte
	Success      bool
	ErrorMessage *string
}

type AIRepository struct {
	db *pgxpool.Pool
}

// NewAIRepository создает репозиторий для AI-запросов.
func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет лог AI-запроса.
func (r *AIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (owner, origin, destination, days, provider, model, prompt, raw_response, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb, $9, $10)`,
		log.Owner,
		log.Origin,
		log.Destination,
		log.Days,
		log.Provider,
		log.Model,
		log.Prompt,
		rawResponseParam(log.RawResponse),
		log.Success,
		log.ErrorMessage,
	)
	if err != nil {
		return persistenceError("log ai request", err)
	}
	return nil
}

type MongoAIRepository struct {
	collection *mongo.Collection
}

type aiRequestDocument struct {
	Owner        string    `bson:"owner"`
	Origin       string    `bson:"origin"`
	Destination  string    `bson:"destination"`
	Days         int       `bson:"days"`
	Provider     string    `bson:"provider"`
	Model        string    `bson:"model"`
	Prompt       string    `bson:"prompt"`
	RawResponse  string    `bson:"raw_response,omitempty"`
	Success      bool      `bson:"success"`
	ErrorMessage *string   `bson:"error_message,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// NewMongoAIRepository создает журнал AI-запросов в MongoDB.
func NewMongoAIRepository(db *mongo.Database) *MongoAIRepository {
	return &MongoAIRepository{collection: db.Collection(aiRequestsCollection)}
}

// LogRequest сохраняет лог AI-запроса.
func (r *MongoAIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	_, err := r.collection.InsertOne(ctx, aiRequestDocument{
		Owner:        log.Owner,
		Origin:       log.Origin,
		Destination:  log.Destination,
		Days:         log.Days,
		Provider:     log.Provider,
		Model:        log.Model,
		Prompt:       log.Prompt,
		RawResponse:  rawResponseParam(log.RawResponse),
		Success:      log.Success,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return persistenceError("log ai request", err)
	}
	return nil
}

// rawResponseParam отбрасывает пустой или невалидный JSON.
func rawResponseParam(raw []byte) string {
	if len(raw) == 0 || !json.Valid(raw) {
		return ""
	}
	return string(raw)
}
