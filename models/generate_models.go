package models

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Publication{},
		&Application{},
		&Interface{},
		&Parameter{},
		&Download{},
		&Contact{},
	}
}

// GenerateModels migrates the schema, reports column drift and writes gorm/gen query helpers
// to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	db = db.Session(&gorm.Session{
		Logger:                 db.Logger.LogMode(logger.Info),
		SkipDefaultTransaction: true,
	})

	log.Info().Msg("Migrating models...")
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}

	if _, err := ColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}

// ColumnMismatchReport finds, per existing table, the columns no model field maps to. Tables
// that do not exist yet are skipped. Every finding is logged.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := map[string][]string{}
	total := 0

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			log.Info().Str("table", table).Msg("Table does not exist yet")
			continue
		}
		columnTypes, err := db.Migrator().ColumnTypes(table)
		if err != nil {
			return nil, fmt.Errorf("reading columns of %s: %w", table, err)
		}

		known := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			known[name] = true
		}
		var missing []string
		for _, ct := range columnTypes {
			if !known[ct.Name()] {
				missing = append(missing, ct.Name())
			}
		}
		if len(missing) == 0 {
			continue
		}

		sort.Strings(missing)
		report[table] = missing
		total += len(missing)
		log.Warn().Str("table", table).Strs("columns", missing).Msg("Columns not mapped by the model")
	}

	log.Info().Int("mismatched", total).Int("tables", len(report)).Msg("Column mismatch report complete")
	return report, nil
}
