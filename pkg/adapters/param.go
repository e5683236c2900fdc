package adapters

import (
	"database/sql"
	"strings"
)

// ParamType - подсказка о типе параметра процедуры.
// Учитывается драйверами, которые различают варианты строковых
// и временных типов (MS SQL); остальные передают значение как есть.
type ParamType string

const (
	// ParamAuto - тип определяет драйвер
	ParamAuto ParamType = ""

	// ParamVarChar - строка в однобайтовой кодировке (VARCHAR вместо NVARCHAR)
	ParamVarChar ParamType = "varchar"

	// ParamNVarChar - Unicode строка
	ParamNVarChar ParamType = "nvarchar"

	// ParamDateTime - DATETIME вместо DATETIME2
	ParamDateTime ParamType = "datetime"

	// ParamGUID - UNIQUEIDENTIFIER / UUID
	ParamGUID ParamType = "guid"
)

// Param - именованный параметр хранимой процедуры
type Param struct {
	// Name - имя параметра, префикс "@" допускается и отбрасывается
	Name string

	// Type - подсказка о типе, ParamAuto по умолчанию
	Type ParamType

	// Value - значение; nil передается как NULL
	Value any
}

// NewParam создает параметр с автоматическим определением типа
func NewParam(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// TypedParam создает параметр с явной подсказкой о типе
func TypedParam(name string, typ ParamType, value any) Param {
	return Param{Name: name, Type: typ, Value: value}
}

// BareName возвращает имя без префикса "@"
func (p Param) BareName() string {
	return strings.TrimPrefix(strings.TrimSpace(p.Name), "@")
}

// Named возвращает параметр в форме database/sql
func (p Param) Named() sql.NamedArg {
	return sql.Named(p.BareName(), p.Value)
}

// Values возвращает значения параметров в исходном порядке
func Values(params []Param) []any {
	values := make([]any, len(params))
	for i, p := range params {
		values[i] = p.Value
	}
	return values
}
