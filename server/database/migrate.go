package database

import (
	"embed"
	"errors"
	"faceboobs/server/internal/models"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrateURL renders a DSN in the URL form golang-migrate requires. GORM
// accepts keyword/value DSNs (the PG*/LOCAL_* fallback path produces one),
// but migrate refuses anything without a scheme.
func migrateURL(dsn string) (string, error) {
	if strings.Contains(dsn, "://") {
		return dsn, nil
	}

	params := make(map[string]string)
	for _, field := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return "", fmt.Errorf("malformed DSN field %q", field)
		}
		params[strings.ToLower(key)] = value
	}

	host := params["host"]
	if host == "" {
		return "", fmt.Errorf("DSN %q has no host", dsn)
	}
	if port := params["port"]; port != "" {
		host = net.JoinHostPort(host, port)
	}

	u := &url.URL{Scheme: "postgres", Host: host, Path: "/" + params["dbname"]}
	if user := params["user"]; user != "" {
		if password := params["password"]; password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}

	query := url.Values{}
	for key, value := range params {
		switch key {
		case "host", "port", "user", "password", "dbname":
			continue
		}
		query.Set(key, value)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// MigrateDatabase applies the versioned SQL migrations and then runs GORM's
// AutoMigrate as a safety net for columns added to the models but not yet
// captured in a migration file.
func MigrateDatabase(db *gorm.DB, dsn string) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		log.Printf("ERROR: Failed to open embedded migrations: %v", err)
		return err
	}

	dbURL, err := migrateURL(dsn)
	if err != nil {
		log.Printf("ERROR: Failed to build migration database URL: %v", err)
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		log.Printf("ERROR: Failed to initialize migrate instance: %v", err)
		return err
	}
	defer m.Close()

	log.Println("Running versioned SQL migrations...")
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Printf("ERROR: Failed to apply SQL migrations: %v", err)
		return err
	}
	log.Println("SQL migrations applied (or already up to date).")

	log.Println("Running GORM migrations...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Story{},
		&models.Purchase{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Message{},
		&models.MediaBlob{},
	)
	if err != nil {
		log.Printf("ERROR: Failed to perform GORM migrations: %v", err)
		return err
	}
	log.Println("GORM migrations executed successfully.")
	return nil
}
