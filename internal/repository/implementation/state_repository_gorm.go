package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-hub-be/internal/model"
	"ai-hub-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StateRepositoryGorm struct {
	db  *gorm.DB
	key string
}

func NewStateRepositoryGorm(db *gorm.DB, key string) contract.StateRepository {
	return &StateRepositoryGorm{db: db, key: key}
}

func (r *StateRepositoryGorm) Load(ctx context.Context) ([]byte, error) {
	var m model.AppState
	err := r.db.WithContext(ctx).First(&m, "key = ?", r.key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contract.ErrStateNotFound
		}
		return nil, fmt.Errorf("load app state row: %w", err)
	}
	return []byte(m.Payload), nil
}

func (r *StateRepositoryGorm) Save(ctx context.Context, raw []byte) error {
	m := model.AppState{
		Key:     r.key,
		Payload: datatypes.JSON(raw),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("save app state row: %w", err)
	}
	return nil
}
