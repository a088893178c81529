package schema

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Migrate creates the namespaces, enum types and all registered tables.
// Safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := createNamespaces(db); err != nil {
		return err
	}
	if err := createEnums(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every platform namespace and everything in it. Destructive;
// callers must gate it behind explicit operator confirmation.
func Reset(db *gorm.DB) error {
	for _, ns := range Namespaces() {
		stmt := fmt.Sprintf("DROP SCHEMA IF EXISTS %q CASCADE", ns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("drop schema %s: %w", ns, err)
		}
	}
	return nil
}

// Verify smoke-loads one row from every registered table, proving the table
// exists and its columns scan into the model.
func Verify(db *gorm.DB) error {
	for _, model := range Models() {
		rows := map[string]any{}
		if err := db.Model(model).Limit(1).Find(&rows).Error; err != nil {
			return fmt.Errorf("verify %T: %w", model, err)
		}
	}
	return nil
}

func createNamespaces(db *gorm.DB) error {
	for _, ns := range Namespaces() {
		stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %q", ns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create schema %s: %w", ns, err)
		}
	}
	return nil
}

// createEnums declares each enum type, tolerating reruns. Enum types live in
// the default search path so every namespace's tables can reference them.
func createEnums(db *gorm.DB) error {
	for _, enum := range Enums() {
		if err := db.Exec(enumDDL(enum)).Error; err != nil {
			return fmt.Errorf("create enum %s: %w", enum.Name, err)
		}
	}
	return nil
}

func enumDDL(enum Enum) string {
	quoted := make([]string, len(enum.Values))
	for i, v := range enum.Values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprintf(
		"DO $$ BEGIN CREATE TYPE %s AS ENUM (%s); EXCEPTION WHEN duplicate_object THEN NULL; END $$;",
		enum.Name, strings.Join(quoted, ", "),
	)
}
