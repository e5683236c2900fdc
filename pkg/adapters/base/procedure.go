package base

import (
	"fmt"
	"strings"

	"github.com/ruslano69/tdtp-rowreader/pkg/adapters"
)

// ProcedureBuilder строит текст вызова хранимой процедуры и аргументы
// под синтаксис конкретной СУБД. Имя уже проверено security.ValidateIdentifier.
type ProcedureBuilder interface {
	BuildCall(name string, params []adapters.Param) (query string, args []any)
}

// ProcedureBuilderFunc позволяет использовать функцию как ProcedureBuilder
type ProcedureBuilderFunc func(name string, params []adapters.Param) (string, []any)

// BuildCall реализует ProcedureBuilder
func (f ProcedureBuilderFunc) BuildCall(name string, params []adapters.Param) (string, []any) {
	return f(name, params)
}

// CallBuilder - позиционный CALL с плейсхолдерами "?".
// Используется MySQL ("CALL name(?, ?)") и ODBC с escape-синтаксисом
// ("{CALL name(?, ?)}"). Имена параметров игнорируются, важен порядок.
type CallBuilder struct {
	// Escape - оборачивать вызов в ODBC escape-последовательность {...}
	Escape bool
}

// BuildCall реализует ProcedureBuilder
func (b CallBuilder) BuildCall(name string, params []adapters.Param) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
	call := fmt.Sprintf("CALL %s(%s)", name, placeholders)
	if b.Escape {
		call = "{" + call + "}"
	}
	return call, adapters.Values(params)
}

// FunctionBuilder - вызов функции, возвращающей набор строк, через
// SELECT * FROM name(...) с плейсхолдерами $1, $2 (PostgreSQL).
// Если у всех параметров есть имена, используется именованная нотация
// "name => $n", иначе позиционная.
type FunctionBuilder struct{}

// BuildCall реализует ProcedureBuilder
func (FunctionBuilder) BuildCall(name string, params []adapters.Param) (string, []any) {
	named := len(params) > 0
	for _, p := range params {
		if p.BareName() == "" {
			named = false
			break
		}
	}

	args := make([]string, len(params))
	for i, p := range params {
		if named {
			args[i] = fmt.Sprintf("%s => $%d", p.BareName(), i+1)
		} else {
			args[i] = fmt.Sprintf("$%d", i+1)
		}
	}

	return fmt.Sprintf("SELECT * FROM %s(%s)", name, strings.Join(args, ", ")), adapters.Values(params)
}
