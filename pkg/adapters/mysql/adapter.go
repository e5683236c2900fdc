package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters/base"
)

// AdapterType идентификатор MySQL адаптера
const AdapterType = "mysql"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Adapter реализует adapters.Adapter для MySQL.
// Процедуры вызываются через CALL name(?, ?): каждый SELECT внутри
// процедуры становится отдельным result set ридера.
type Adapter struct {
	*base.QueryHelper
}

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// ParseConfig разбирает DSN и включает опции, без которых ридер
// не может работать с MySQL:
//   - parseTime: DATETIME/TIMESTAMP возвращаются как time.Time
//   - multiStatements: пакет "SELECT ...; SELECT ..." дает несколько result set
func ParseConfig(dsn string) (*mysql.Config, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	config.ParseTime = true
	config.MultiStatements = true
	return config, nil
}

// Connect подключается к MySQL базе данных
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	config, err := ParseConfig(cfg.DSN)
	if err != nil {
		return err
	}

	connector, err := mysql.NewConnector(config)
	if err != nil {
		return fmt.Errorf("failed to create connector: %w", err)
	}

	db := sql.OpenDB(connector)
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.QueryHelper = base.NewQueryHelper(db, cfg, AdapterType, base.CallBuilder{})
	log.Info().Str("db", AdapterType).Str("addr", config.Addr).Str("database", config.DBName).Msg("connected")
	return nil
}

// Close закрывает соединение с базой данных
func (a *Adapter) Close(ctx context.Context) error {
	return a.QueryHelper.Close()
}

// GetDatabaseType возвращает тип адаптера
func (a *Adapter) GetDatabaseType() string {
	return AdapterType
}

// GetDatabaseVersion возвращает версию MySQL
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	var version string
	if err := a.QueryRow(ctx, "SELECT VERSION()", &version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}
