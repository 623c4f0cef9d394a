package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"scheduler/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 20
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type endpoint struct {
	name     string
	username string
	password string
	host     string
	port     string
	dbName   string
	sslMode  string
	timezone string
}

func (e endpoint) dsn() string {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		e.username,
		e.password,
		net.JoinHostPort(e.host, e.port),
		e.dbName,
		e.sslMode,
	)

	if e.timezone != "" {
		dsn += "&timezone=" + e.timezone
	}

	return dsn
}

// New opens the read and write pools. Both point at the same database when no replica is configured.
func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := endpoint{
		name:     "write",
		username: pg.Write.Username,
		password: pg.Write.Password,
		host:     pg.Write.Host,
		port:     pg.Write.Port,
		dbName:   dbName(cfg, pg.Write.Name),
		sslMode:  pg.Write.SSLMode,
		timezone: pg.Write.Timezone,
	}

	read := endpoint{
		name:     "read",
		username: pg.Read.Username,
		password: pg.Read.Password,
		host:     pg.Read.Host,
		port:     pg.Read.Port,
		dbName:   dbName(cfg, pg.Read.Name),
		sslMode:  pg.Read.SSLMode,
		timezone: pg.Read.Timezone,
	}

	writeDB := connect(write, pg.MaxRetry, pg.RetryWaitTime)

	if read.host == "" {
		return &Connection{Read: writeDB, Write: writeDB}
	}

	return &Connection{
		Read:  connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: writeDB,
	}
}

func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

func dbName(cfg *config.Config, baseName string) string {
	return cfg.DB.Postgres.Prefix + baseName
}

func connect(ep endpoint, maxRetry, waitTime int) *sqlx.DB {
	if maxRetry < 1 {
		maxRetry = 1
	}

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", ep.dsn())
		if err == nil {
			log.
				Info().
				Str("name", ep.name).
				Str("host", ep.host).
				Str("port", ep.port).
				Str("dbName", ep.dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", ep.name).
			Str("host", ep.host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	log.Fatal().Str("name", ep.name).Msg("Giving up connecting to database")

	return nil
}
