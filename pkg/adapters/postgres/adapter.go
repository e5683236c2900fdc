package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters/base"
)

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register("postgres", func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter представляет адаптер для работы с PostgreSQL.
// Пул pgxpool отдается в database/sql через stdlib.OpenDBFromPool,
// процедуры вызываются как функции: SELECT * FROM name(...).
type Adapter struct {
	*base.QueryHelper
	pool   *pgxpool.Pool
	schema string
}

// Connect устанавливает подключение к PostgreSQL
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	config, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		config.MaxConns = int32(cfg.MaxConns)
	} else {
		config.MaxConns = 10
	}

	if cfg.MinConns > 0 {
		config.MinConns = int32(cfg.MinConns)
	} else {
		config.MinConns = 2
	}

	a.schema = cfg.Schema
	if a.schema == "" {
		a.schema = "public"
	}
	// Имена функций без схемы ищутся в search_path
	config.ConnConfig.RuntimeParams["search_path"] = a.schema

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.pool = pool
	a.QueryHelper = base.NewQueryHelper(stdlib.OpenDBFromPool(pool), cfg, "postgres", base.FunctionBuilder{})

	log.Info().
		Str("db", "postgres").
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Str("schema", a.schema).
		Msg("connected")
	return nil
}

// NewAdapter создает адаптер с указанной схемой без фабрики
func NewAdapter(ctx context.Context, connString, schema string) (*Adapter, error) {
	adapter := &Adapter{}
	err := adapter.Connect(ctx, adapters.Config{
		Type:   "postgres",
		DSN:    connString,
		Schema: schema,
	})
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// Close закрывает *sql.DB и connection pool
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Close(ctx context.Context) error {
	err := a.QueryHelper.Close()
	if a.pool != nil {
		a.pool.Close()
	}
	return err
}

// GetDatabaseType возвращает тип СУБД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseType() string {
	return "postgres"
}

// GetDatabaseVersion возвращает версию PostgreSQL
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	if a.pool == nil {
		return "", adapters.ErrNotConnected
	}
	var version string
	if err := a.pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Pool возвращает *pgxpool.Pool для прямого доступа
func (a *Adapter) Pool() *pgxpool.Pool {
	return a.pool
}

// Schema возвращает текущую схему
func (a *Adapter) Schema() string {
	return a.schema
}

// GetSchemas возвращает список пользовательских схем в БД
func (a *Adapter) GetSchemas(ctx context.Context) ([]string, error) {
	if a.pool == nil {
		return nil, adapters.ErrNotConnected
	}

	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema')
		ORDER BY schema_name
	`

	rows, err := a.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get schemas: %w", err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema name: %w", err)
		}
		schemas = append(schemas, name)
	}

	return schemas, rows.Err()
}
