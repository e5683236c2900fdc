package reader

import (
	"errors"
	"fmt"
)

// Виды ошибок Reader
var (
	// ErrInvalidArgument - пустое имя колонки
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFieldNotFound - колонка не найдена ни точным, ни регистронезависимым поиском
	ErrFieldNotFound = errors.New("field not found")

	// ErrTypeMismatch - значение колонки нельзя получить в запрошенном типе
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnexpectedNull - NULL в колонке, читаемой через Required* аксессор
	ErrUnexpectedNull = errors.New("unexpected null value")
)

// Ошибки, которыми курсор сигнализирует о проблемах позиционного доступа
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNullValue       = errors.New("data is null")
	ErrInvalidCast     = errors.New("invalid cast")
)

// FieldNotFoundError - колонка с указанным именем отсутствует в текущем result set.
// Сопоставляется и с ErrFieldNotFound, и с ErrIndexOutOfRange: для вызывающего кода
// ошибка выглядит так же, как обращение к несуществующей позиции.
type FieldNotFoundError struct {
	Name string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %q", e.Name)
}

func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound || target == ErrIndexOutOfRange
}

// TypeMismatchError - курсор не смог вернуть значение колонки в запрошенном типе
type TypeMismatchError struct {
	Column      string
	Description string
	Err         error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch reading column %q of %s: %v", e.Column, e.Description, e.Err)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}

// UnexpectedNullError - Required* аксессор встретил NULL
type UnexpectedNullError struct {
	Column      string
	Description string
	Err         error
}

func (e *UnexpectedNullError) Error() string {
	return fmt.Sprintf("unexpected null in column %q of %s: %v", e.Column, e.Description, e.Err)
}

func (e *UnexpectedNullError) Is(target error) bool {
	return target == ErrUnexpectedNull
}

func (e *UnexpectedNullError) Unwrap() error {
	return e.Err
}

// castError оборачивает ошибку приведения типа контекстом колонки.
// Уже обернутые ошибки возвращаются как есть.
func (r *Reader) castError(name string, err error) error {
	var mismatch *TypeMismatchError
	if errors.As(err, &mismatch) {
		return err
	}
	if errors.Is(err, ErrInvalidCast) {
		return &TypeMismatchError{Column: name, Description: r.description, Err: err}
	}
	return err
}

// getError - то же, что castError, плюс NULL → UnexpectedNullError
func (r *Reader) getError(name string, err error) error {
	var null *UnexpectedNullError
	if errors.As(err, &null) {
		return err
	}
	if errors.Is(err, ErrNullValue) {
		return &UnexpectedNullError{Column: name, Description: r.description, Err: err}
	}
	return r.castError(name, err)
}
