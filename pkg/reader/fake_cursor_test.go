package reader

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// resultSet - один result set тестового курсора
type resultSet struct {
	columns []string
	rows    [][]any
}

// fakeCursor - курсор в памяти со счетчиками вызовов
type fakeCursor struct {
	sets   []resultSet
	set    int
	row    int
	closed bool

	closeCalls     int
	fieldNameCalls int
	getterCalls    int
	metaErr        error
}

func newFakeCursor(sets ...resultSet) *fakeCursor {
	return &fakeCursor{sets: sets, row: -1}
}

func (c *fakeCursor) current() resultSet {
	return c.sets[c.set]
}

func (c *fakeCursor) Next() bool {
	if c.row+1 >= len(c.current().rows) {
		c.row = len(c.current().rows)
		return false
	}
	c.row++
	return true
}

func (c *fakeCursor) NextResultSet() bool {
	if c.set+1 >= len(c.sets) {
		return false
	}
	c.set++
	c.row = -1
	return true
}

func (c *fakeCursor) Close() error {
	c.closeCalls++
	c.closed = true
	return nil
}

func (c *fakeCursor) IsClosed() bool      { return c.closed }
func (c *fakeCursor) Depth() int          { return 0 }
func (c *fakeCursor) RowsAffected() int64 { return -1 }

func (c *fakeCursor) FieldCount() (int, error) {
	if c.metaErr != nil {
		return 0, c.metaErr
	}
	return len(c.current().columns), nil
}

func (c *fakeCursor) FieldName(i int) (string, error) {
	c.fieldNameCalls++
	if i < 0 || i >= len(c.current().columns) {
		return "", fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return c.current().columns[i], nil
}

func (c *fakeCursor) value(i int) (any, error) {
	rows := c.current().rows
	if c.row < 0 || c.row >= len(rows) {
		return nil, fmt.Errorf("no current row")
	}
	if i < 0 || i >= len(rows[c.row]) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return rows[c.row][i], nil
}

func (c *fakeCursor) IsNull(i int) (bool, error) {
	v, err := c.value(i)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

func (c *fakeCursor) DataTypeName(i int) (string, error) {
	v, err := c.value(i)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%T", v), nil
}

func (c *fakeCursor) FieldType(i int) (reflect.Type, error) {
	v, err := c.value(i)
	if err != nil {
		return nil, err
	}
	return reflect.TypeOf(v), nil
}

// get возвращает значение строго требуемого типа, как это делает типизированный геттер ADO
func get[T any](c *fakeCursor, i int) (T, error) {
	var zero T
	c.getterCalls++
	v, err := c.value(i)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, fmt.Errorf("column %d: %w", i, ErrNullValue)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T to %T", ErrInvalidCast, v, zero)
	}
	return typed, nil
}

func (c *fakeCursor) GetBool(i int) (bool, error)               { return get[bool](c, i) }
func (c *fakeCursor) GetByte(i int) (byte, error)               { return get[byte](c, i) }
func (c *fakeCursor) GetTime(i int) (time.Time, error)          { return get[time.Time](c, i) }
func (c *fakeCursor) GetDecimal(i int) (decimal.Decimal, error) { return get[decimal.Decimal](c, i) }
func (c *fakeCursor) GetFloat64(i int) (float64, error)         { return get[float64](c, i) }
func (c *fakeCursor) GetFloat32(i int) (float32, error)         { return get[float32](c, i) }
func (c *fakeCursor) GetUUID(i int) (uuid.UUID, error)          { return get[uuid.UUID](c, i) }
func (c *fakeCursor) GetInt16(i int) (int16, error)             { return get[int16](c, i) }
func (c *fakeCursor) GetInt32(i int) (int32, error)             { return get[int32](c, i) }
func (c *fakeCursor) GetInt64(i int) (int64, error)             { return get[int64](c, i) }
func (c *fakeCursor) GetString(i int) (string, error)           { return get[string](c, i) }
