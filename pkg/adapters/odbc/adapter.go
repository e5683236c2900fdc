//go:build odbc

// Package odbc provides an adapter for any data source reachable through an
// ODBC driver manager (unixODBC, iODBC, Windows ODBC). Requires cgo, so the
// package is built only with the odbc build tag:
//
//	go build -tags odbc ./...
package odbc

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/alexbrainman/odbc"
	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters/base"
)

// AdapterType идентификатор ODBC адаптера
const AdapterType = "odbc"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter реализует adapters.Adapter поверх ODBC.
// Процедуры вызываются escape-последовательностью {CALL name(?, ?)}.
type Adapter struct {
	*base.QueryHelper
}

// Connect открывает соединение по строке ODBC ("DSN=name;UID=...;PWD=..."
// или "Driver={...};Server=...")
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open("odbc", cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.QueryHelper = base.NewQueryHelper(db, cfg, AdapterType, base.CallBuilder{Escape: true})
	log.Info().Str("db", AdapterType).Msg("connected")
	return nil
}

// Close закрывает соединение
func (a *Adapter) Close(ctx context.Context) error {
	return a.QueryHelper.Close()
}

// GetDatabaseType возвращает тип адаптера
func (a *Adapter) GetDatabaseType() string {
	return AdapterType
}

// GetDatabaseVersion возвращает версию источника данных.
// У ODBC нет общего запроса версии: пробуем распространенные варианты.
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	queries := []string{
		"SELECT @@VERSION",
		"SELECT version()",
		"SELECT sqlite_version()",
	}

	var version string
	for _, q := range queries {
		if err := a.QueryRow(ctx, q, &version); err == nil {
			return version, nil
		}
	}
	return "ODBC", nil
}
