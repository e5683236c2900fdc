package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
	"github.com/ruslano69/tdtp-rowreader/pkg/adapters/base"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader/sqlcursor"
	"github.com/shopspring/decimal"
)

// Compile-time check: Adapter must implement adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Adapter implements the adapters.Adapter interface for Microsoft SQL Server.
type Adapter struct {
	*base.QueryHelper
	schema string

	// Version information
	serverVersion    int    // Major version: 11=2012, 13=2016, 14=2017, 15=2019, 16=2022
	serverVersionStr string // Full version string
	compatLevel      int    // Database compatibility level: 110=2012, 130=2016, etc.
}

func init() {
	adapters.Register(AdapterType, func() adapters.Adapter {
		return &Adapter{}
	})
}

// Connect implements adapters.Adapter interface.
// Connects to MS SQL Server and detects the server version.
func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
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

	a.schema = cfg.Schema
	if err := a.detectVersion(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to detect server version: %w", err)
	}

	a.QueryHelper = base.NewQueryHelper(db, cfg, AdapterType,
		base.ProcedureBuilderFunc(a.buildRPC),
		sqlcursor.WithUUIDDecoder(decodeUniqueIdentifier))

	log.Info().
		Str("db", AdapterType).
		Str("server", a.serverVersionName()).
		Int("compatibility_level", a.compatLevel).
		Msg("connected")
	return nil
}

// detectVersion reads server version and database compatibility level.
func (a *Adapter) detectVersion(ctx context.Context, db *sql.DB) error {
	var version string
	if err := db.QueryRowContext(ctx, "SELECT CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(128))").Scan(&version); err != nil {
		return fmt.Errorf("failed to get server version: %w", err)
	}
	a.serverVersionStr = version
	a.serverVersion = parseServerVersion(version)

	err := db.QueryRowContext(ctx, `
		SELECT compatibility_level
		FROM sys.databases
		WHERE name = DB_NAME()
	`).Scan(&a.compatLevel)
	if err != nil {
		return fmt.Errorf("failed to get compatibility level: %w", err)
	}
	return nil
}

// parseServerVersion parses SQL Server version string to major version number.
// Examples:
//   - "11.0.2100.60" → 11 (SQL Server 2012)
//   - "15.0.2000.5"  → 15 (SQL Server 2019)
func parseServerVersion(version string) int {
	major, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0
	}
	return n
}

// serverVersionName returns human-readable server version name.
func (a *Adapter) serverVersionName() string {
	switch a.serverVersion {
	case 11:
		return "SQL Server 2012"
	case 12:
		return "SQL Server 2014"
	case 13:
		return "SQL Server 2016"
	case 14:
		return "SQL Server 2017"
	case 15:
		return "SQL Server 2019"
	case 16:
		return "SQL Server 2022"
	default:
		return fmt.Sprintf("SQL Server (version %d)", a.serverVersion)
	}
}

// buildRPC returns the bare procedure name: go-mssqldb executes a query
// consisting of a single identifier as an RPC call with named arguments.
func (a *Adapter) buildRPC(name string, params []adapters.Param) (string, []any) {
	if a.schema != "" && !strings.Contains(name, ".") {
		name = a.schema + "." + name
	}

	args := make([]any, len(params))
	for i, p := range params {
		args[i] = sql.Named(p.BareName(), paramValue(p))
	}
	return name, args
}

// paramValue converts a parameter to the go-mssqldb type matching its hint.
// Strings default to NVARCHAR and times to DATETIME2 on the driver side.
func paramValue(p adapters.Param) any {
	switch v := p.Value.(type) {
	case nil:
		return nil
	case string:
		switch p.Type {
		case adapters.ParamVarChar:
			return mssql.VarChar(v)
		case adapters.ParamGUID:
			if id, err := uuid.Parse(v); err == nil {
				return mssql.UniqueIdentifier(id)
			}
		}
		return v
	case time.Time:
		if p.Type == adapters.ParamDateTime {
			return mssql.DateTime1(v)
		}
		return v
	case uuid.UUID:
		return mssql.UniqueIdentifier(v)
	case decimal.Decimal:
		return v.String()
	}
	return p.Value
}

// decodeUniqueIdentifier converts UNIQUEIDENTIFIER bytes, whose first three
// groups are little-endian, to RFC 4122 order.
func decodeUniqueIdentifier(dbType string, raw []byte) (uuid.UUID, error) {
	if !strings.EqualFold(dbType, "UNIQUEIDENTIFIER") {
		return uuid.FromBytes(raw)
	}

	var id mssql.UniqueIdentifier
	if err := id.Scan(raw); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode uniqueidentifier: %w", err)
	}
	return uuid.UUID(id), nil
}

// Close closes the database connection.
func (a *Adapter) Close(ctx context.Context) error {
	return a.QueryHelper.Close()
}

// GetDatabaseType returns the adapter type.
func (a *Adapter) GetDatabaseType() string {
	return AdapterType
}

// GetDatabaseVersion returns the SQL Server version string.
func (a *Adapter) GetDatabaseVersion(ctx context.Context) (string, error) {
	if a.QueryHelper == nil {
		return "", adapters.ErrNotConnected
	}
	return fmt.Sprintf("%s %s (compatibility level %d)", a.serverVersionName(), a.serverVersionStr, a.compatLevel), nil
}
