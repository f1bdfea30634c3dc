package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/config"
	"github.com/terraincognita07/cyclekit/internal/db"
	"github.com/terraincognita07/cyclekit/internal/i18n"
	"github.com/terraincognita07/cyclekit/internal/services"
	"gorm.io/gorm"
)

// runtime holds the storage-backed services shared by serve and dispatch.
type runtime struct {
	database  *gorm.DB
	repos     *db.Repositories
	i18n      *i18n.Manager
	cycles    *services.CycleService
	reminders *services.ReminderService
}

func openRuntime(cfg *config.Config, logger *logrus.Logger) (*runtime, error) {
	manager, err := i18n.NewEmbeddedManager(cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("i18n init failed: %w", err)
	}

	database, err := db.OpenSQLite(cfg.DB.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	repos := db.NewRepositories(database)

	options := []services.CycleServiceOption{
		services.WithLocation(cfg.Location()),
		services.WithLogger(logger.WithField("component", "cycles")),
		services.WithReminderMessages(manager.ReminderMessages(manager.DefaultLanguage())),
	}
	if cfg.Store.Atomic {
		options = append(options, services.WithTransactor(repos))
	}

	return &runtime{
		database:  database,
		repos:     repos,
		i18n:      manager,
		cycles:    services.NewCycleService(repos.Cycles, repos.Reminders, options...),
		reminders: services.NewReminderService(repos.Reminders),
	}, nil
}

func (rt *runtime) dispatcher(cfg *config.Config, logger *logrus.Logger) *services.ReminderDispatcher {
	return services.NewReminderDispatcher(
		rt.repos.Reminders,
		services.NewLogNotifier(logger.WithField("component", "notifier")),
		cfg.Dispatch.Batch,
		logger.WithField("component", "dispatcher"),
	)
}

func (rt *runtime) Close() error {
	sqlDB, err := rt.database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
