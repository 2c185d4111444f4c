package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
)

// MigrateUp applies all pending migrations.
func MigrateUp(connString string) (err error) {
	m, err := GetMigrate(connString)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeMigrate(m))
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateDown rolls back the given number of migrations. A non-positive
// steps value rolls back everything.
func MigrateDown(connString string, steps int) (err error) {
	m, err := GetMigrate(connString)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeMigrate(m))
	}()

	if steps <= 0 {
		err = m.Down()
	} else {
		err = m.Steps(-steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return nil
}

// GetVersion returns the current schema version and whether it is dirty.
func GetVersion(connString string) (version uint, dirty bool, err error) {
	m, err := GetMigrate(connString)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		err = errors.Join(err, closeMigrate(m))
	}()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
