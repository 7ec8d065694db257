package repositories

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mealforge/internal/models/db_models"
)

type SimilarMealRow struct {
	db_models.MealEmbedding
	Similarity float64
}

type MealEmbeddingRepository interface {
	Upsert(embedding db_models.MealEmbedding) error
	DeleteByMealID(mealID uuid.UUID) error
	ListSimilarByVector(accountID uuid.UUID, vector pgvector.Vector, excludeMealID uuid.UUID) ([]SimilarMealRow, error)
}

type mealEmbeddingRepository struct {
	db *gorm.DB
}

func NewMealEmbeddingRepository(db *gorm.DB) MealEmbeddingRepository {
	return &mealEmbeddingRepository{db: db}
}

func (r *mealEmbeddingRepository) Upsert(embedding db_models.MealEmbedding) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "meal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
	}).Create(&embedding).Error
}

func (r *mealEmbeddingRepository) DeleteByMealID(mealID uuid.UUID) error {
	return r.db.Where("meal_id = ?", mealID).Delete(&db_models.MealEmbedding{}).Error
}

func (r *mealEmbeddingRepository) ListSimilarByVector(accountID uuid.UUID, vector pgvector.Vector, excludeMealID uuid.UUID) ([]SimilarMealRow, error) {
	var results []SimilarMealRow

	vecStr := vector.String()

	query := `
        SELECT *, (1 - (embedding <=> $1)) AS similarity
        FROM meal_embeddings
        WHERE account_id = $2
          AND meal_id <> $3
          AND (1 - (embedding <=> $1)) > 0.5
        ORDER BY embedding <=> $1
        LIMIT 10
    `

	err := r.db.Raw(query, vecStr, accountID, excludeMealID).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
