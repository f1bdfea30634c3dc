package db

import (
	"context"
	"errors"

	"github.com/terraincognita07/cyclekit/internal/models"
	"github.com/terraincognita07/cyclekit/internal/services"
	"gorm.io/gorm"
)

type CycleRepository struct {
	database *gorm.DB
}

func NewCycleRepository(database *gorm.DB) *CycleRepository {
	return &CycleRepository{database: database}
}

func (repo *CycleRepository) Create(ctx context.Context, cycle *models.Cycle) error {
	return repo.database.WithContext(ctx).Create(cycle).Error
}

func (repo *CycleRepository) FindByID(ctx context.Context, id string) (models.Cycle, error) {
	var cycle models.Cycle
	if err := repo.database.WithContext(ctx).First(&cycle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cycle{}, services.ErrCycleNotFound
		}
		return models.Cycle{}, err
	}
	return cycle, nil
}

func (repo *CycleRepository) ListByCustomer(ctx context.Context, customerID string) ([]models.Cycle, error) {
	cycles := make([]models.Cycle, 0)
	if err := repo.database.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id ASC").
		Find(&cycles).Error; err != nil {
		return nil, err
	}
	return cycles, nil
}

// Update writes only the named columns of cycle, plus updated_at.
func (repo *CycleRepository) Update(ctx context.Context, cycle *models.Cycle, fields []string) error {
	columns := append(append(make([]string, 0, len(fields)+1), fields...), "updated_at")
	result := repo.database.WithContext(ctx).Model(cycle).Select(columns).Updates(cycle)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrCycleNotFound
	}
	return nil
}

func (repo *CycleRepository) Delete(ctx context.Context, id string) error {
	result := repo.database.WithContext(ctx).Where("id = ?", id).Delete(&models.Cycle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrCycleNotFound
	}
	return nil
}
