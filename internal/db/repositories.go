package db

import (
	"context"

	"github.com/terraincognita07/cyclekit/internal/services"
	"gorm.io/gorm"
)

type Repositories struct {
	database  *gorm.DB
	Cycles    *CycleRepository
	Reminders *ReminderRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		database:  database,
		Cycles:    NewCycleRepository(database),
		Reminders: NewReminderRepository(database),
	}
}

// WithinTransaction hands fn repositories bound to one transaction. Any
// error returned by fn rolls the transaction back.
func (repos *Repositories) WithinTransaction(ctx context.Context, fn func(cycles services.CycleRepository, reminders services.ReminderRepository) error) error {
	return repos.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCycleRepository(tx), NewReminderRepository(tx))
	})
}
