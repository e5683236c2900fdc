package reader

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cursor - последовательный курсор по результату запроса с позиционным доступом к полям.
//
// Reader становится единственным владельцем курсора.
// Типизированные геттеры должны оборачивать:
//   - ErrNullValue        - значение в позиции равно NULL
//   - ErrInvalidCast      - значение нельзя привести к запрошенному типу
//   - ErrIndexOutOfRange  - позиция вне диапазона
type Cursor interface {
	// ========== Навигация ==========

	// Next переходит к следующей строке текущего result set
	Next() bool

	// NextResultSet переходит к следующему result set
	NextResultSet() bool

	// Close закрывает курсор
	Close() error

	// IsClosed сообщает, закрыт ли курсор
	IsClosed() bool

	// Depth возвращает глубину вложенности текущей строки
	Depth() int

	// RowsAffected возвращает количество измененных строк (-1 если неизвестно)
	RowsAffected() int64

	// ========== Метаданные ==========

	FieldCount() (int, error)
	FieldName(ordinal int) (string, error)
	IsNull(ordinal int) (bool, error)
	DataTypeName(ordinal int) (string, error)
	FieldType(ordinal int) (reflect.Type, error)

	// ========== Типизированные геттеры ==========

	GetBool(ordinal int) (bool, error)
	GetByte(ordinal int) (byte, error)
	GetTime(ordinal int) (time.Time, error)
	GetDecimal(ordinal int) (decimal.Decimal, error)
	GetFloat64(ordinal int) (float64, error)
	GetFloat32(ordinal int) (float32, error)
	GetUUID(ordinal int) (uuid.UUID, error)
	GetInt16(ordinal int) (int16, error)
	GetInt32(ordinal int) (int32, error)
	GetInt64(ordinal int) (int64, error)
	GetString(ordinal int) (string, error)
}

// errCursor - опциональный интерфейс курсора с отложенной ошибкой итерации (как у *sql.Rows)
type errCursor interface {
	Err() error
}
