package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/checks-dashboard/backend/internal/infra/db"
	"github.com/checks-dashboard/backend/internal/integration/persistence/model"
)

var dbOnce sync.Once
var dbMock *Db

// Db is an in-memory sqlite database migrated with the application schema.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
}

// NewDb opens the shared in-memory database once per test binary.
func NewDb() *Db {
	dbOnce.Do(
		func() {
			dbMock = open()
		},
	)
	return dbMock
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := db.Wrap(dbConn).Migrate(); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return &Db{
		DbConn: dbConn,
		models: map[string]any{
			model.CheckModel{}.TableName():        &model.CheckModel{},
			model.RemovedCheckModel{}.TableName(): &model.RemovedCheckModel{},
		},
	}
}

// ClearDB removes every row from the application tables.
func (d *Db) ClearDB() error {
	for table, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}
