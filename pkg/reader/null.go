package reader

import (
	"database/sql"
)

// Общая логика обработки NULL для всех типов.
// get - позиционный геттер курсора (например, cursor.GetInt32).

// valueOrDefault: NULL → def[0] или zero value, без вызова геттера
func valueOrDefault[T any](r *Reader, name string, get func(int) (T, error), def []T) (T, error) {
	var zero T

	ordinal, err := r.Ordinal(name)
	if err != nil {
		return zero, err
	}

	isNull, err := r.cursor.IsNull(ordinal)
	if err != nil {
		return zero, err
	}
	if isNull {
		if len(def) > 0 {
			return def[0], nil
		}
		return zero, nil
	}

	value, err := get(ordinal)
	if err != nil {
		return zero, r.castError(name, err)
	}
	return value, nil
}

// requireValue: геттер вызывается без предварительной проверки NULL
func requireValue[T any](r *Reader, name string, get func(int) (T, error)) (T, error) {
	var zero T

	ordinal, err := r.Ordinal(name)
	if err != nil {
		return zero, err
	}

	value, err := get(ordinal)
	if err != nil {
		return zero, r.getError(name, err)
	}
	return value, nil
}

// nullable: NULL → sql.Null[T]{Valid: false}
func nullable[T any](r *Reader, name string, get func(int) (T, error)) (sql.Null[T], error) {
	ordinal, err := r.Ordinal(name)
	if err != nil {
		return sql.Null[T]{}, err
	}

	isNull, err := r.cursor.IsNull(ordinal)
	if err != nil {
		return sql.Null[T]{}, err
	}
	if isNull {
		return sql.Null[T]{}, nil
	}

	value, err := get(ordinal)
	if err != nil {
		return sql.Null[T]{}, r.castError(name, err)
	}
	return sql.Null[T]{V: value, Valid: true}, nil
}
