package xlsx

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
)

// cellKind - способ чтения колонки и формат ячейки
type cellKind int

const (
	kindText cellKind = iota
	kindBool
	kindInteger
	kindNumber
	kindDecimal
	kindTime
	kindGUID
)

var timeType = reflect.TypeOf(time.Time{})

// columnKind определяет аксессор по имени типа СУБД, затем по scan type драйвера
func columnKind(r *reader.Reader, ordinal int) cellKind {
	if dbType, err := r.DataTypeNameAt(ordinal); err == nil {
		switch strings.ToUpper(dbType) {
		case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
			return kindDecimal
		case "UNIQUEIDENTIFIER", "UUID":
			return kindGUID
		case "BIT", "BOOL", "BOOLEAN":
			return kindBool
		case "DATE", "DATETIME", "DATETIME2", "SMALLDATETIME", "TIMESTAMP", "TIMESTAMPTZ", "DATETIMEOFFSET":
			return kindTime
		}
	}

	t, err := r.FieldTypeAt(ordinal)
	if err != nil || t == nil {
		return kindText
	}
	if t == timeType {
		return kindTime
	}

	switch t.Kind() {
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return kindInteger
	case reflect.Float32, reflect.Float64:
		return kindNumber
	}
	return kindText
}

// CellValue читает значение колонки текущей строки в виде, пригодном
// для excelize.SetCellValue. NULL возвращается как nil.
func CellValue(r *reader.Reader, name string) (any, error) {
	ordinal, err := r.Ordinal(name)
	if err != nil {
		return nil, err
	}
	return CellValueAt(r, ordinal)
}

// CellValueAt - CellValue по позиции колонки
func CellValueAt(r *reader.Reader, ordinal int) (any, error) {
	return cellValue(r, ordinal, columnKind(r, ordinal))
}

func cellValue(r *reader.Reader, ordinal int, kind cellKind) (any, error) {
	isNull, err := r.IsNullAt(ordinal)
	if err != nil {
		return nil, err
	}
	if isNull {
		return nil, nil
	}

	switch kind {
	case kindBool:
		return r.RequiredBoolAt(ordinal)
	case kindInteger:
		return r.RequiredInt64At(ordinal)
	case kindNumber:
		return r.RequiredFloat64At(ordinal)
	case kindTime:
		return r.RequiredTimeAt(ordinal)
	case kindDecimal:
		d, err := r.RequiredDecimalAt(ordinal)
		if err != nil {
			return nil, err
		}
		return d.InexactFloat64(), nil
	case kindGUID:
		id, err := r.RequiredUUIDAt(ordinal)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	}

	s, err := r.RequiredStringAt(ordinal)
	if errors.Is(err, reader.ErrTypeMismatch) {
		// Колонки без объявленного типа (выражения SQLite) отдают числа и даты
		return fallbackValue(r, ordinal, err)
	}
	return s, err
}

// fallbackValue перебирает числовые и временные аксессоры для колонки,
// значение которой не является строкой
func fallbackValue(r *reader.Reader, ordinal int, cause error) (any, error) {
	if v, err := r.RequiredInt64At(ordinal); err == nil {
		return v, nil
	}
	if v, err := r.RequiredFloat64At(ordinal); err == nil {
		return v, nil
	}
	if v, err := r.RequiredTimeAt(ordinal); err == nil {
		return v, nil
	}
	if v, err := r.RequiredBoolAt(ordinal); err == nil {
		return v, nil
	}
	return nil, cause
}
