package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Db is a shared in-memory sqlite database migrated from the persistence models.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	order  []string
	schema string
}

// NewDb opens the shared database once and migrates the given models. Tables are keyed by their gorm table name.
func NewDb(schema string, models ...any) *Db {
	once.Do(func() {
		db = open(schema, models)
	})
	return db
}

func open(schema string, models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	newDbMock := &Db{
		DbConn: dbConn,
		schema: schema,
		models: make(map[string]any, len(models)),
	}

	for _, m := range models {
		stmt := &gorm.Statement{DB: dbConn}
		if err := stmt.Parse(m); err != nil {
			panic(fmt.Sprintf("failed to parse model %T. err: %s", m, err.Error()))
		}
		newDbMock.models[stmt.Schema.Table] = m
		newDbMock.order = append(newDbMock.order, stmt.Schema.Table)
	}

	if err := newDbMock.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB creates the schema on first use and empties every table.
func (d *Db) ClearDB() error {
	err := d.DbConn.Exec("ATTACH ':memory:' AS " + d.schema).Error
	switch {
	case err == nil:
		if err := d.init(); err != nil {
			return err
		}
	case !strings.Contains(err.Error(), "is already in use"):
		return err
	}

	return d.reset()
}

func (d *Db) init() error {
	for i := len(d.order) - 1; i >= 0; i-- {
		if err := d.DbConn.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", d.order[i])).Error; err != nil {
			return err
		}
	}

	modelList := make([]any, 0, len(d.order))
	for _, table := range d.order {
		modelList = append(modelList, d.models[table])
	}
	if err := d.DbConn.AutoMigrate(modelList...); err != nil {
		return err
	}

	for _, model := range modelList {
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
	}
	return nil
}

func (d *Db) reset() error {
	for i := len(d.order) - 1; i >= 0; i-- {
		model := d.models[d.order[i]]
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to empty %s: %w", d.order[i], err)
		}
	}
	return nil
}

// GetModel returns the model registered for table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
