package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibhealth/diabetes-risk/internal/domain/model"
	"github.com/bibhealth/diabetes-risk/internal/domain/valueobject"
	pgutil "github.com/bibhealth/diabetes-risk/pkg/postgres"
)

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	pool *pgxpool.Pool
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{pool: pool}
}

// Save persists a prediction and its raw feature values.
func (r *PredictionRepository) Save(ctx context.Context, prediction *model.Prediction) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO predictions (
				id, prediction, probability_diabetes, probability_no_diabetes,
				risk_percentage, risk_level, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING
		`,
			prediction.ID(),
			prediction.Prediction(),
			prediction.ProbabilityDiabetes(),
			prediction.ProbabilityNoDiabetes(),
			prediction.RiskPercentage(),
			prediction.RiskLevel().String(),
			prediction.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save prediction: %w", err)
		}

		batch := &pgx.Batch{}
		features := prediction.Features()
		for i, name := range valueobject.FeatureNames {
			batch.Queue(`
				INSERT INTO prediction_features (prediction_id, position, name, value)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (prediction_id, position) DO NOTHING
			`, prediction.ID(), i, name, features[i])
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save prediction features: %w", err)
		}

		return nil
	})
}

// FindByID retrieves a prediction by its unique identifier.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Prediction, error) {
	return findByID(ctx, r.pool, id)
}

func findByID(ctx context.Context, q pgutil.Querier, id uuid.UUID) (*model.Prediction, error) {
	var (
		predictionID   uuid.UUID
		prediction     int
		probDiabetes   float64
		probNoDiabetes float64
		riskPercentage float64
		riskLevelStr   string
		createdAt      time.Time
	)

	err := q.QueryRow(ctx, `
		SELECT id, prediction, probability_diabetes, probability_no_diabetes,
			risk_percentage, risk_level, created_at
		FROM predictions
		WHERE id = $1
	`, id).Scan(
		&predictionID, &prediction, &probDiabetes, &probNoDiabetes,
		&riskPercentage, &riskLevelStr, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	features, err := loadFeatures(ctx, q, predictionID)
	if err != nil {
		return nil, err
	}

	return model.Reconstruct(
		predictionID, features,
		probNoDiabetes, probDiabetes,
		prediction, riskPercentage, riskLevel,
		createdAt,
	), nil
}

func loadFeatures(ctx context.Context, q pgutil.Querier, predictionID uuid.UUID) (valueobject.FeatureVector, error) {
	var fv valueobject.FeatureVector

	rows, err := q.Query(ctx,
		`SELECT position, value FROM prediction_features WHERE prediction_id = $1 ORDER BY position`,
		predictionID,
	)
	if err != nil {
		return fv, fmt.Errorf("failed to query prediction features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			value    float64
		)
		if err := rows.Scan(&position, &value); err != nil {
			return fv, fmt.Errorf("failed to scan prediction feature: %w", err)
		}
		if position < 0 || position >= valueobject.FeatureCount {
			return fv, fmt.Errorf("prediction feature position %d out of range", position)
		}
		fv[position] = value
	}
	if err := rows.Err(); err != nil {
		return fv, fmt.Errorf("failed to read prediction features: %w", err)
	}

	return fv, nil
}
