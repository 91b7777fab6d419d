package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"example.com/ai-travel-planner/internal/models"
)

const tripsCollection = "trips"

// MongoTripRepository хранит поездки в коллекции trips.
type MongoTripRepository struct {
	collection *mongo.Collection
}

type tripDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	From         string             `bson:"from"`
	To           string             `bson:"to"`
	Days         int                `bson:"days"`
	Plan         string             `bson:"plan"`
	Images       []string           `bson:"images"`
	LocationInfo bson.D             `bson:"location_info,omitempty"`
	UserEmail    string             `bson:"userEmail,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

// NewMongoTripRepository создает репозиторий поездок в MongoDB.
func NewMongoTripRepository(db *mongo.Database) *MongoTripRepository {
	return &MongoTripRepository{collection: db.Collection(tripsCollection)}
}

// Create сохраняет поездку, назначая ObjectID и время создания.
func (r *MongoTripRepository) Create(ctx context.Context, trip models.Trip) (models.Trip, error) {
	doc, err := toTripDocument(trip)
	if err != nil {
		return trip, err
	}

	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return trip, persistenceError("create trip", err)
	}

	trip.ID = doc.ID.Hex()
	trip.CreatedAt = doc.CreatedAt
	trip.Images = doc.Images

	return trip, nil
}

// List возвращает поездки владельца (или все при пустом owner), новые первыми.
func (r *MongoTripRepository) List(ctx context.Context, owner string) ([]models.Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, ownerFilter(bson.D{}, owner), opts)
	if err != nil {
		return nil, persistenceError("list trips", err)
	}

	var docs []tripDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, persistenceError("list trips", err)
	}

	trips := make([]models.Trip, 0, len(docs))
	for _, doc := range docs {
		trip, err := fromTripDocument(doc)
		if err != nil {
			return nil, persistenceError("decode trip", err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}

// Delete удаляет поездку. Отсутствующий или некорректный id не считается ошибкой.
func (r *MongoTripRepository) Delete(ctx context.Context, id, owner string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	filter := ownerFilter(bson.D{{Key: "_id", Value: objectID}}, owner)
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return persistenceError("delete trip", err)
	}

	return nil
}

func ownerFilter(filter bson.D, owner string) bson.D {
	if owner == "" {
		return filter
	}
	return append(filter, bson.E{Key: "userEmail", Value: owner})
}

func toTripDocument(trip models.Trip) (tripDocument, error) {
	doc := tripDocument{
		From:      trip.From,
		To:        trip.To,
		Days:      int(trip.Days),
		Plan:      trip.Plan,
		Images:    models.NormalizeImages(trip.Images),
		UserEmail: trip.UserEmail,
	}

	trimmed := bytes.TrimSpace(trip.LocationInfo)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return doc, nil
	}

	var info bson.D
	if err := bson.UnmarshalExtJSON(trimmed, false, &info); err != nil {
		return doc, fmt.Errorf("%w: location_info: %v", ErrInvalid, err)
	}
	doc.LocationInfo = info

	return doc, nil
}

func fromTripDocument(doc tripDocument) (models.Trip, error) {
	trip := models.Trip{
		ID:        doc.ID.Hex(),
		From:      doc.From,
		To:        doc.To,
		Days:      models.Days(doc.Days),
		Plan:      doc.Plan,
		Images:    models.NormalizeImages(doc.Images),
		UserEmail: doc.UserEmail,
		CreatedAt: doc.CreatedAt,
	}

	if doc.LocationInfo != nil {
		info, err := bson.MarshalExtJSON(doc.LocationInfo, false, false)
		if err != nil {
			return trip, err
		}
		trip.LocationInfo = json.RawMessage(info)
	}

	return trip, nil
}
