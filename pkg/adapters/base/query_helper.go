package base

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader/sqlcursor"
	"github.com/ruslano69/tdtp-rowreader/pkg/security"
)

// QueryHelper содержит общую логику выполнения запросов поверх *sql.DB
// для всех адаптеров: таймаут, safe mode, логирование и сборку ридера
type QueryHelper struct {
	db         *sql.DB
	dbType     string
	timeout    time.Duration
	validator  *security.SQLValidator
	procedures ProcedureBuilder
	cursorOpts []sqlcursor.Option
}

// NewQueryHelper создает QueryHelper.
// procedures == nil означает, что СУБД не поддерживает хранимые процедуры.
// cursorOpts передаются каждому курсору (например, декодер GUID).
func NewQueryHelper(db *sql.DB, cfg adapters.Config, dbType string, procedures ProcedureBuilder, cursorOpts ...sqlcursor.Option) *QueryHelper {
	return &QueryHelper{
		db:         db,
		dbType:     dbType,
		timeout:    cfg.Timeout,
		validator:  security.NewSQLValidator(cfg.SafeMode),
		procedures: procedures,
		cursorOpts: cursorOpts,
	}
}

// DB возвращает *sql.DB для прямого доступа
func (h *QueryHelper) DB() *sql.DB {
	return h.db
}

// Ping проверяет доступность БД
func (h *QueryHelper) Ping(ctx context.Context) error {
	if h == nil || h.db == nil {
		return adapters.ErrNotConnected
	}
	return h.db.PingContext(ctx)
}

// Close закрывает пул соединений
func (h *QueryHelper) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	log.Info().Str("db", h.dbType).Msg("closing connection pool")
	return h.db.Close()
}

// QueryRow выполняет служебный запрос с одним скалярным результатом
func (h *QueryHelper) QueryRow(ctx context.Context, query string, dest any) error {
	if h == nil || h.db == nil {
		return adapters.ErrNotConnected
	}
	return h.db.QueryRowContext(ctx, query).Scan(dest)
}

// Query выполняет запрос и возвращает ридер над всеми его result set
func (h *QueryHelper) Query(ctx context.Context, description, query string, args ...any) (*reader.Reader, error) {
	if h == nil || h.db == nil {
		return nil, adapters.ErrNotConnected
	}
	if err := h.validator.Validate(query); err != nil {
		return nil, err
	}

	return h.open(ctx, description, query, func(ctx context.Context) (*sql.Rows, error) {
		return h.db.QueryContext(ctx, query, args...)
	})
}

// ExecProcedure вызывает хранимую процедуру через ProcedureBuilder диалекта
func (h *QueryHelper) ExecProcedure(ctx context.Context, name string, params ...adapters.Param) (*reader.Reader, error) {
	if h == nil || h.db == nil {
		return nil, adapters.ErrNotConnected
	}
	if h.procedures == nil {
		return nil, fmt.Errorf("%s: %w", h.dbType, adapters.ErrProceduresNotSupported)
	}
	if err := security.ValidateIdentifier(name); err != nil {
		return nil, err
	}
	// Имена параметров попадают в текст вызова (PostgreSQL: name => $1)
	for _, p := range params {
		if bare := p.BareName(); bare != "" {
			if err := security.ValidateIdentifier(bare); err != nil {
				return nil, fmt.Errorf("parameter name: %w", err)
			}
		}
	}

	query, args := h.procedures.BuildCall(name, params)
	return h.open(ctx, name, query, func(ctx context.Context) (*sql.Rows, error) {
		return h.db.QueryContext(ctx, query, args...)
	})
}

// open выполняет run в контексте запроса и оборачивает *sql.Rows в ридер.
// Контекст отменяется при закрытии ридера (или сразу при ошибке).
func (h *QueryHelper) open(ctx context.Context, description, query string, run func(context.Context) (*sql.Rows, error)) (*reader.Reader, error) {
	var (
		queryCtx context.Context
		cancel   context.CancelFunc
	)
	if h.timeout > 0 {
		queryCtx, cancel = context.WithTimeout(ctx, h.timeout)
	} else {
		queryCtx, cancel = context.WithCancel(ctx)
	}

	start := time.Now()
	rows, err := run(queryCtx)
	if err != nil {
		cancel()
		log.Debug().Err(err).Str("db", h.dbType).Str("description", description).Str("query", query).Msg("query failed")
		return nil, fmt.Errorf("failed to execute %s: %w", description, err)
	}

	opts := append([]sqlcursor.Option{sqlcursor.WithCancel(cancel)}, h.cursorOpts...)
	cur, err := sqlcursor.New(rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read result of %s: %w", description, err)
	}

	r, err := reader.New(cur, description)
	if err != nil {
		cur.Close()
		return nil, fmt.Errorf("failed to read result of %s: %w", description, err)
	}

	log.Debug().
		Str("db", h.dbType).
		Str("description", description).
		Str("query", query).
		Dur("elapsed", time.Since(start)).
		Msg("query opened")

	return r, nil
}
