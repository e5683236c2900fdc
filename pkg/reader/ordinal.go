package reader

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Доступ по позиции колонки. Нужен для обхода всех колонок строки:
// дубликаты и пустые имена через индекс имен недостижимы.
// NULL в RequiredXAt дает *UnexpectedNullError, как в RequiredX.

// FieldName возвращает имя колонки по позиции (может быть пустым)
func (r *Reader) FieldName(ordinal int) (string, error) {
	if err := r.checkOrdinal(ordinal); err != nil {
		return "", err
	}
	return r.names[ordinal], nil
}

func (r *Reader) checkOrdinal(ordinal int) error {
	if ordinal < 0 || ordinal >= len(r.names) {
		return fmt.Errorf("%w: ordinal %d, field count %d", ErrIndexOutOfRange, ordinal, len(r.names))
	}
	return nil
}

// label - имя колонки для сообщений об ошибках; безымянные колонки - "#N"
func (r *Reader) label(ordinal int) string {
	if name := r.names[ordinal]; name != "" {
		return name
	}
	return fmt.Sprintf("#%d", ordinal)
}

func (r *Reader) IsNullAt(ordinal int) (bool, error) {
	if err := r.checkOrdinal(ordinal); err != nil {
		return false, err
	}
	return r.cursor.IsNull(ordinal)
}

func (r *Reader) DataTypeNameAt(ordinal int) (string, error) {
	if err := r.checkOrdinal(ordinal); err != nil {
		return "", err
	}
	return r.cursor.DataTypeName(ordinal)
}

func (r *Reader) FieldTypeAt(ordinal int) (reflect.Type, error) {
	if err := r.checkOrdinal(ordinal); err != nil {
		return nil, err
	}
	return r.cursor.FieldType(ordinal)
}

// requireAt - requireValue без разрешения имени
func requireAt[T any](r *Reader, ordinal int, get func(int) (T, error)) (T, error) {
	var zero T
	if err := r.checkOrdinal(ordinal); err != nil {
		return zero, err
	}

	value, err := get(ordinal)
	if err != nil {
		return zero, r.getError(r.label(ordinal), err)
	}
	return value, nil
}

func (r *Reader) RequiredBoolAt(ordinal int) (bool, error) {
	return requireAt(r, ordinal, r.cursor.GetBool)
}

func (r *Reader) RequiredByteAt(ordinal int) (byte, error) {
	return requireAt(r, ordinal, r.cursor.GetByte)
}

func (r *Reader) RequiredTimeAt(ordinal int) (time.Time, error) {
	return requireAt(r, ordinal, r.cursor.GetTime)
}

func (r *Reader) RequiredDecimalAt(ordinal int) (decimal.Decimal, error) {
	return requireAt(r, ordinal, r.cursor.GetDecimal)
}

func (r *Reader) RequiredFloat64At(ordinal int) (float64, error) {
	return requireAt(r, ordinal, r.cursor.GetFloat64)
}

func (r *Reader) RequiredFloat32At(ordinal int) (float32, error) {
	return requireAt(r, ordinal, r.cursor.GetFloat32)
}

func (r *Reader) RequiredUUIDAt(ordinal int) (uuid.UUID, error) {
	return requireAt(r, ordinal, r.cursor.GetUUID)
}

func (r *Reader) RequiredInt16At(ordinal int) (int16, error) {
	return requireAt(r, ordinal, r.cursor.GetInt16)
}

func (r *Reader) RequiredInt32At(ordinal int) (int32, error) {
	return requireAt(r, ordinal, r.cursor.GetInt32)
}

func (r *Reader) RequiredInt64At(ordinal int) (int64, error) {
	return requireAt(r, ordinal, r.cursor.GetInt64)
}

func (r *Reader) RequiredStringAt(ordinal int) (string, error) {
	return requireAt(r, ordinal, r.cursor.GetString)
}
