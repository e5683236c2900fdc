package reader

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Для каждого типа три аксессора:
//   - X(name, def...)  - NULL → def[0] или zero value
//   - RequiredX(name)  - NULL → *UnexpectedNullError
//   - NullableX(name)  - NULL → sql.Null[T]{Valid: false}
// Ошибка приведения типа во всех вариантах возвращается как *TypeMismatchError.

// ========== Bool ==========

func (r *Reader) Bool(name string, def ...bool) (bool, error) {
	return valueOrDefault(r, name, r.cursor.GetBool, def)
}

func (r *Reader) RequiredBool(name string) (bool, error) {
	return requireValue(r, name, r.cursor.GetBool)
}

func (r *Reader) NullableBool(name string) (sql.Null[bool], error) {
	return nullable(r, name, r.cursor.GetBool)
}

// ========== Byte ==========

func (r *Reader) Byte(name string, def ...byte) (byte, error) {
	return valueOrDefault(r, name, r.cursor.GetByte, def)
}

func (r *Reader) RequiredByte(name string) (byte, error) {
	return requireValue(r, name, r.cursor.GetByte)
}

func (r *Reader) NullableByte(name string) (sql.Null[byte], error) {
	return nullable(r, name, r.cursor.GetByte)
}

// ========== Time ==========

func (r *Reader) Time(name string, def ...time.Time) (time.Time, error) {
	return valueOrDefault(r, name, r.cursor.GetTime, def)
}

func (r *Reader) RequiredTime(name string) (time.Time, error) {
	return requireValue(r, name, r.cursor.GetTime)
}

func (r *Reader) NullableTime(name string) (sql.Null[time.Time], error) {
	return nullable(r, name, r.cursor.GetTime)
}

// ========== Decimal ==========

func (r *Reader) Decimal(name string, def ...decimal.Decimal) (decimal.Decimal, error) {
	return valueOrDefault(r, name, r.cursor.GetDecimal, def)
}

func (r *Reader) RequiredDecimal(name string) (decimal.Decimal, error) {
	return requireValue(r, name, r.cursor.GetDecimal)
}

func (r *Reader) NullableDecimal(name string) (sql.Null[decimal.Decimal], error) {
	return nullable(r, name, r.cursor.GetDecimal)
}

// ========== Float64 ==========

func (r *Reader) Float64(name string, def ...float64) (float64, error) {
	return valueOrDefault(r, name, r.cursor.GetFloat64, def)
}

func (r *Reader) RequiredFloat64(name string) (float64, error) {
	return requireValue(r, name, r.cursor.GetFloat64)
}

func (r *Reader) NullableFloat64(name string) (sql.Null[float64], error) {
	return nullable(r, name, r.cursor.GetFloat64)
}

// ========== Float32 ==========

func (r *Reader) Float32(name string, def ...float32) (float32, error) {
	return valueOrDefault(r, name, r.cursor.GetFloat32, def)
}

func (r *Reader) RequiredFloat32(name string) (float32, error) {
	return requireValue(r, name, r.cursor.GetFloat32)
}

func (r *Reader) NullableFloat32(name string) (sql.Null[float32], error) {
	return nullable(r, name, r.cursor.GetFloat32)
}

// ========== UUID ==========

func (r *Reader) UUID(name string, def ...uuid.UUID) (uuid.UUID, error) {
	return valueOrDefault(r, name, r.cursor.GetUUID, def)
}

func (r *Reader) RequiredUUID(name string) (uuid.UUID, error) {
	return requireValue(r, name, r.cursor.GetUUID)
}

func (r *Reader) NullableUUID(name string) (sql.Null[uuid.UUID], error) {
	return nullable(r, name, r.cursor.GetUUID)
}

// ========== Int16 ==========

func (r *Reader) Int16(name string, def ...int16) (int16, error) {
	return valueOrDefault(r, name, r.cursor.GetInt16, def)
}

func (r *Reader) RequiredInt16(name string) (int16, error) {
	return requireValue(r, name, r.cursor.GetInt16)
}

func (r *Reader) NullableInt16(name string) (sql.Null[int16], error) {
	return nullable(r, name, r.cursor.GetInt16)
}

// ========== Int32 ==========

func (r *Reader) Int32(name string, def ...int32) (int32, error) {
	return valueOrDefault(r, name, r.cursor.GetInt32, def)
}

func (r *Reader) RequiredInt32(name string) (int32, error) {
	return requireValue(r, name, r.cursor.GetInt32)
}

func (r *Reader) NullableInt32(name string) (sql.Null[int32], error) {
	return nullable(r, name, r.cursor.GetInt32)
}

// ========== Int64 ==========

func (r *Reader) Int64(name string, def ...int64) (int64, error) {
	return valueOrDefault(r, name, r.cursor.GetInt64, def)
}

func (r *Reader) RequiredInt64(name string) (int64, error) {
	return requireValue(r, name, r.cursor.GetInt64)
}

func (r *Reader) NullableInt64(name string) (sql.Null[int64], error) {
	return nullable(r, name, r.cursor.GetInt64)
}

// ========== String ==========

func (r *Reader) String(name string, def ...string) (string, error) {
	return valueOrDefault(r, name, r.cursor.GetString, def)
}

func (r *Reader) RequiredString(name string) (string, error) {
	return requireValue(r, name, r.cursor.GetString)
}

func (r *Reader) NullableString(name string) (sql.Null[string], error) {
	return nullable(r, name, r.cursor.GetString)
}

// ========== Char ==========

// Char читает строку, обрезает пробелы и возвращает первый символ.
// NULL и пустая после обрезки строка дают значение по умолчанию.
func (r *Reader) Char(name string, def ...rune) (rune, error) {
	var fallback rune
	if len(def) > 0 {
		fallback = def[0]
	}

	s, err := valueOrDefault(r, name, r.cursor.GetString, nil)
	if err != nil {
		return 0, err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}

// RequiredChar - как Char, но NULL дает *UnexpectedNullError,
// а пустая строка - ErrIndexOutOfRange при взятии первого символа.
func (r *Reader) RequiredChar(name string) (rune, error) {
	s, err := requireValue(r, name, r.cursor.GetString)
	if err != nil {
		return 0, err
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: first character of empty value in column %q", ErrIndexOutOfRange, name)
	}
	c, _ := utf8.DecodeRuneInString(s)
	return c, nil
}

// NullableChar использует Char для не-NULL значений
func (r *Reader) NullableChar(name string) (sql.Null[rune], error) {
	return nullable(r, name, func(int) (rune, error) {
		return r.Char(name)
	})
}
