package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-travel-planner/internal/models"
)

// TripRepository хранит поездки в PostgreSQL.
type TripRepository struct {
	db *pgxpool.Pool
}

// NewTripRepository создает репозиторий поездок.
func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{db: db}
}

// Create сохраняет поездку, назначая id и время создания.
func (r *TripRepository) Create(ctx context.Context, trip models.Trip) (models.Trip, error) {
	info, err := locationInfoParam(trip.LocationInfo)
	if err != nil {
		return trip, err
	}

	id := uuid.New()
	trip.ID = id.String()
	trip.Images = models.NormalizeImages(trip.Images)

	err = r.db.QueryRow(ctx,
		`INSERT INTO trips (id, origin, destination, days, plan, images, location_info, user_email)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::json, $8)
		 RETURNING created_at`,
		id, trip.From, trip.To, int(trip.Days), trip.Plan, trip.Images, info, trip.UserEmail,
	).Scan(&trip.CreatedAt)
	if err != nil {
		return trip, persistenceError("create trip", err)
	}

	return trip, nil
}

// List возвращает поездки владельца (или все при пустом owner), новые первыми.
func (r *TripRepository) List(ctx context.Context, owner string) ([]models.Trip, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, origin, destination, days, plan, images, location_info, user_email, created_at
		 FROM trips
		 WHERE ($1 = '' OR user_email = $1)
		 ORDER BY created_at DESC, id DESC`,
		owner,
	)
	if err != nil {
		return nil, persistenceError("list trips", err)
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, persistenceError("scan trip", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list trips", err)
	}

	return trips, nil
}

// Delete удаляет поездку. Отсутствующий или некорректный id не считается ошибкой.
func (r *TripRepository) Delete(ctx context.Context, id, owner string) error {
	tripID, ok := parseTripID(id)
	if !ok {
		return nil
	}

	_, err := r.db.Exec(ctx,
		`DELETE FROM trips WHERE id = $1 AND ($2 = '' OR user_email = $2)`,
		tripID, owner,
	)
	if err != nil {
		return persistenceError("delete trip", err)
	}

	return nil
}

func scanTrip(row pgx.Row) (models.Trip, error) {
	var trip models.Trip
	var id uuid.UUID
	var days int
	var info []byte

	if err := row.Scan(&id, &trip.From, &trip.To, &days, &trip.Plan, &trip.Images, &info, &trip.UserEmail, &trip.CreatedAt); err != nil {
		return trip, err
	}

	trip.ID = id.String()
	trip.Days = models.Days(days)
	trip.Images = models.NormalizeImages(trip.Images)
	if len(info) > 0 {
		trip.LocationInfo = json.RawMessage(info)
	}

	return trip, nil
}

func parseTripID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}

// locationInfoParam возвращает текст JSON для колонки location_info; пустая строка означает NULL.
func locationInfoParam(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	if !json.Valid(trimmed) {
		return "", ErrInvalid
	}
	return string(trimmed), nil
}
