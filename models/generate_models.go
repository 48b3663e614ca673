package models

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Maintenance modes driven by main.go:

  GENERATE_MODELS=true        migrate, print the column report, then write
                              type-safe query helpers to ./generated
  GENERATE_COLUMN_REPORT=true print the column report only

The column report lists database columns that no model field maps to, which
usually means a column was added by hand or a field was renamed:

	=== COLUMN MISMATCH REPORT ===
	--- Table: comments ---
	Found 1 columns not accounted for in model:
	  - legacy_ip
*/

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&BlogPost{},
		&BlogPostTranslation{},
		&Comment{},
		&Suggestion{},
		&PortfolioItem{},
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	// Set up verbose logging for migration
	verboseLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verboseLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Models()...)

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints, per table, the columns that exist in the
// database but not in the model, and returns them keyed by table name.
func GenerateColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	report := make(map[string][]string)
	totalMismatches := 0

	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		if !db.Migrator().HasTable(tableName) {
			fmt.Println("Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error getting columns for table %s: %w", tableName, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		if len(mismatches) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Printf("  - %s\n", col)
			}
			report[tableName] = mismatches
			totalMismatches += len(mismatches)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
	return report, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[strings.ToLower(field)] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[strings.ToLower(col)] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
