// Package convert приводит значения, полученные от драйверов, к скалярным
// типам reader.Cursor.
//
// Драйверы возвращают разные Go типы для одних и тех же SQL типов:
//   - SQLite:     INTEGER → int64 (в т.ч. BOOLEAN), REAL → float64, TEXT → string
//   - MySQL:      текстовый протокол → []byte почти для всего
//   - PostgreSQL: NUMERIC/UUID → string
//   - MS SQL:     DECIMAL/UNIQUEIDENTIFIER → []byte
//   - XLSX:       все ячейки → string
//
// Конвертеры принимают все эти формы, остальное - reader.ErrInvalidCast.
package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/shopspring/decimal"
)

// timeLayouts - форматы дат, которые встречаются в текстовых колонках
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

func castError(v any, target string) error {
	return fmt.Errorf("%w: cannot convert %T to %s", reader.ErrInvalidCast, v, target)
}

// textOf возвращает текстовое представление для string/[]byte
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	}
	return "", false
}

// String принимает только текстовые значения
func String(v any) (string, error) {
	if s, ok := textOf(v); ok {
		return s, nil
	}
	return "", castError(v, "string")
}

// Int64 принимает целые любой разрядности и десятичный текст
func Int64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, castError(v, "int64")
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, castError(v, "int64")
		}
		return int64(t), nil
	}

	if s, ok := textOf(v); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, castError(v, "int64")
		}
		return n, nil
	}
	return 0, castError(v, "int64")
}

// ranged конвертирует в int64 и проверяет диапазон целевого типа
func ranged(v any, lo, hi int64, target string) (int64, error) {
	n, err := Int64(v)
	if err != nil {
		return 0, castError(v, target)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: value %d overflows %s", reader.ErrInvalidCast, n, target)
	}
	return n, nil
}

// Int32 - как Int64 с проверкой диапазона
func Int32(v any) (int32, error) {
	n, err := ranged(v, math.MinInt32, math.MaxInt32, "int32")
	return int32(n), err
}

func Int16(v any) (int16, error) {
	n, err := ranged(v, math.MinInt16, math.MaxInt16, "int16")
	return int16(n), err
}

func Byte(v any) (byte, error) {
	n, err := ranged(v, 0, math.MaxUint8, "byte")
	return byte(n), err
}

// Bool принимает bool, текст strconv.ParseBool и целые (0 = false)
func Bool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if s, ok := textOf(v); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, castError(v, "bool")
		}
		return b, nil
	}
	n, err := Int64(v)
	if err != nil {
		return false, castError(v, "bool")
	}
	return n != 0, nil
}

func Float64(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	}
	if s, ok := textOf(v); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, castError(v, "float64")
		}
		return f, nil
	}
	n, err := Int64(v)
	if err != nil {
		return 0, castError(v, "float64")
	}
	return float64(n), nil
}

func Float32(v any) (float32, error) {
	if f, ok := v.(float32); ok {
		return f, nil
	}
	f, err := Float64(v)
	if err != nil {
		return 0, castError(v, "float32")
	}
	if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: value %g overflows float32", reader.ErrInvalidCast, f)
	}
	return float32(f), nil
}

func Decimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case float32:
		return decimal.NewFromFloat32(t), nil
	}
	if s, ok := textOf(v); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Decimal{}, castError(v, "decimal")
		}
		return d, nil
	}
	n, err := Int64(v)
	if err != nil {
		return decimal.Decimal{}, castError(v, "decimal")
	}
	return decimal.NewFromInt(n), nil
}

// Time принимает time.Time и текст в одном из timeLayouts
func Time(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	s, ok := textOf(v)
	if !ok {
		return time.Time{}, castError(v, "time.Time")
	}

	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, castError(v, "time.Time")
}

// UUID принимает каноническую строку и 16 байт в порядке RFC 4122
func UUID(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case [16]byte:
		return uuid.UUID(t), nil
	case []byte:
		if len(t) == 16 {
			return uuid.FromBytes(t)
		}
		id, err := uuid.ParseBytes(t)
		if err != nil {
			return uuid.Nil, castError(v, "uuid")
		}
		return id, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(t))
		if err != nil {
			return uuid.Nil, castError(v, "uuid")
		}
		return id, nil
	}
	return uuid.Nil, castError(v, "uuid")
}
