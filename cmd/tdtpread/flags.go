package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
)

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Query     *string
	Procedure *string
	ReadXLSX  *string

	// Options
	Config      *string
	Description *string
	Params      paramFlags
	Output      *string
	Sheet       *string
	Safe        *bool
	Timeout     *time.Duration

	// Config Creation
	CreateConfig *string

	// Misc
	Debug   *bool
	Version *bool
	Help    *bool
}

// paramFlags collects repeated --param flags: name=value or name:type=value
type paramFlags []adapters.Param

func (p *paramFlags) String() string {
	names := make([]string, len(*p))
	for i, param := range *p {
		names[i] = param.Name
	}
	return strings.Join(names, ",")
}

func (p *paramFlags) Set(s string) error {
	param, err := parseParam(s)
	if err != nil {
		return err
	}
	*p = append(*p, param)
	return nil
}

// parseParam parses "@Name=value" or "@Name:varchar=value".
// An empty value after "=" is passed as an empty string, "NULL" as nil.
func parseParam(s string) (adapters.Param, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return adapters.Param{}, fmt.Errorf("invalid parameter %q: expected name=value", s)
	}

	name, typ, _ := strings.Cut(strings.TrimSpace(key), ":")
	paramType := adapters.ParamAuto
	switch strings.ToLower(typ) {
	case "":
	case "varchar":
		paramType = adapters.ParamVarChar
	case "nvarchar":
		paramType = adapters.ParamNVarChar
	case "datetime":
		paramType = adapters.ParamDateTime
	case "guid", "uuid":
		paramType = adapters.ParamGUID
	default:
		return adapters.Param{}, fmt.Errorf("invalid parameter type %q (use varchar, nvarchar, datetime, guid)", typ)
	}

	var v any = value
	if value == "NULL" {
		v = nil
	}
	return adapters.TypedParam(name, paramType, v), nil
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Query = flag.String("query", "", "Run a SELECT statement (or batch) and print every result set")
	f.Procedure = flag.String("procedure", "", "Run a stored procedure by name (use --param for arguments)")
	f.ReadXLSX = flag.String("read-xlsx", "", "Read an XLSX workbook as result sets, one per sheet (file path)")

	// Options
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Description = flag.String("description", "", "Description used in error messages (default: procedure name or \"query\")")
	flag.Var(&f.Params, "param", "Procedure parameter name[:type]=value, repeatable (type: varchar, nvarchar, datetime, guid)")
	f.Output = flag.String("output", "", "Write result sets to XLSX file instead of stdout")
	f.Sheet = flag.String("sheet", "", "Excel sheet name for --output (default: description)")
	f.Safe = flag.Bool("safe", false, "Allow only read-only statements (overrides config)")
	f.Timeout = flag.Duration("timeout", 0, "Query timeout, e.g. 30s (overrides config)")

	// Config Creation
	f.CreateConfig = flag.String("create-config", "", "Create sample config file: postgres, mssql, mysql, sqlite, odbc")

	// Misc
	f.Debug = flag.Bool("debug", false, "Enable debug logging (queries, timings)")
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show help")

	flag.Parse()
	return f
}
