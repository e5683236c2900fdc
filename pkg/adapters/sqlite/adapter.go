package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters/base"
	_ "modernc.org/sqlite"
)

const driverSqlite = "sqlite"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальной фабрике
func init() {
	adapters.Register("sqlite", func() adapters.Adapter {
		return &Adapter{}
	})
}

// Adapter представляет адаптер для работы с SQLite.
// Хранимых процедур нет: ExecProcedure возвращает adapters.ErrProceduresNotSupported.
type Adapter struct {
	*base.QueryHelper
}

// Connect устанавливает подключение к SQLite
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open(driverSqlite, pragmaDSN(cfg.DSN))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Каждое соединение с :memory: - отдельная пустая БД
	if isMemoryDSN(cfg.DSN) {
		db.SetMaxOpenConns(1)
	} else if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.QueryHelper = base.NewQueryHelper(db, cfg, "sqlite", nil)
	log.Info().Str("db", "sqlite").Str("dsn", cfg.DSN).Msg("connected")
	return nil
}

// NewAdapter создает адаптер для файла БД без фабрики
func NewAdapter(ctx context.Context, filePath string) (*Adapter, error) {
	adapter := &Adapter{}
	err := adapter.Connect(ctx, adapters.Config{
		Type: "sqlite",
		DSN:  filePath,
	})
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// Close закрывает соединение с БД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) Close(ctx context.Context) error {
	return a.QueryHelper.Close()
}

// GetDatabaseType возвращает тип СУБД
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseType() string {
	return "sqlite"
}

// GetDatabaseVersion возвращает версию SQLite
// Реализует интерфейс adapters.Adapter
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	var version string
	if err := a.QueryRow(ctx, "SELECT sqlite_version()", &version); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}
	return "SQLite " + version, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// pragmas настраивают соединение для чтения при параллельной записи.
// Драйвер выполняет _pragma параметры DSN на каждом новом соединении пула.
var pragmas = []struct {
	name  string
	value string
}{
	// Ждать освобождения блокировки вместо немедленного SQLITE_BUSY
	{"busy_timeout", "5000"},

	{"foreign_keys", "1"},

	// Cache size: 64 MB кеша (по умолчанию ~2 MB) - важно для больших выборок
	{"cache_size", "-64000"},

	// Temp store в памяти: сортировки и GROUP BY без временных файлов
	{"temp_store", "MEMORY"},
}

// pragmaDSN добавляет к DSN параметры _pragma, которые в нем еще не заданы
func pragmaDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}

	var params []string
	for _, p := range pragmas {
		if strings.Contains(dsn, "_pragma="+p.name+"(") {
			continue
		}
		params = append(params, fmt.Sprintf("_pragma=%s(%s)", p.name, p.value))
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
