package application

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/jeswanthsaravanan/smartcampus/chat"
	"github.com/jeswanthsaravanan/smartcampus/config"
	"github.com/jeswanthsaravanan/smartcampus/database"
	"github.com/jeswanthsaravanan/smartcampus/logger"
	"github.com/jeswanthsaravanan/smartcampus/server"
	"github.com/jeswanthsaravanan/smartcampus/store"
)

type Application struct {
	Server *server.Server
	DB     *sqlx.DB
	logger *logger.Logger
}

func NewApplication() *Application {
	return &Application{}
}

func (app *Application) Configure(cfg *config.Config, log *logger.Logger) error {
	app.logger = log

	db, err := database.OpenDB(&cfg.Database)
	if err != nil {
		return err
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return err
	}

	cache := store.NewCache(cfg.Redis.Addr, cfg.Redis.CacheTTL)

	students := database.NewStudentRepository(db)
	timetable := database.NewTimetableRepository(db)
	results := database.NewResultRepository(db)
	attendance := database.NewAttendanceRepository(db)
	daily := database.NewDailyAttendanceRepository(db)
	notes := database.NewNotificationRepository(db)

	adapter := store.NewAdapter(store.Repos{
		Timetable:  timetable,
		Results:    results,
		Attendance: attendance,
		Daily:      daily,
		Notes:      notes,
	}, nil, cache, nil)

	app.Server = server.New(cfg, log, server.Deps{
		DB:    db,
		Cache: cache,
		Source: server.SourceFunc(func(studentID string) chat.RecordStore {
			return adapter.ForStudent(studentID)
		}),
		Students: students,
		Notes:    notes,
		Admin: server.AdminRepos{
			Students:   students,
			Timetable:  timetable,
			Results:    results,
			Attendance: attendance,
			Notes:      notes,
		},
	})

	return nil
}

func (app *Application) Run(ctx context.Context) error {
	defer app.DB.Close()
	return app.Server.Run(ctx)
}
