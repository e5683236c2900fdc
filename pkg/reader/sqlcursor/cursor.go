// Package sqlcursor реализует reader.Cursor поверх *sql.Rows.
//
// Значения текущей строки сканируются в []any один раз при Next(),
// типизированные геттеры приводят их через пакет convert.
package sqlcursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader/convert"
	"github.com/shopspring/decimal"
)

// Compile-time check: Cursor должен реализовывать интерфейс reader.Cursor
var _ reader.Cursor = (*Cursor)(nil)

// ErrNoData - обращение к значению без текущей строки
var ErrNoData = errors.New("invalid attempt to read when no data is present")

// UUIDDecoder декодирует 16-байтовое бинарное значение GUID.
// dbType - имя типа колонки в СУБД (например, "UNIQUEIDENTIFIER").
type UUIDDecoder func(dbType string, raw []byte) (uuid.UUID, error)

// Option - функциональная опция курсора
type Option func(*Cursor)

// WithCancel задает функцию отмены контекста запроса, вызываемую при Close
func WithCancel(cancel context.CancelFunc) Option {
	return func(c *Cursor) {
		c.cancel = cancel
	}
}

// WithUUIDDecoder задает декодер бинарных GUID (порядок байт зависит от СУБД)
func WithUUIDDecoder(decoder UUIDDecoder) Option {
	return func(c *Cursor) {
		c.decodeUUID = decoder
	}
}

// Cursor - курсор над *sql.Rows
type Cursor struct {
	rows    *sql.Rows
	columns []*sql.ColumnType
	metaErr error

	values []any // значения текущей строки
	ptrs   []any // указатели на values для Scan
	hasRow bool

	err    error // ошибка Scan
	closed bool

	cancel     context.CancelFunc
	decodeUUID UUIDDecoder
}

// New создает курсор. При ошибке чтения метаданных rows закрываются.
func New(rows *sql.Rows, opts ...Option) (*Cursor, error) {
	c := &Cursor{rows: rows}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.loadColumns(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// loadColumns читает метаданные текущего result set
func (c *Cursor) loadColumns() error {
	columns, err := c.rows.ColumnTypes()
	if err != nil {
		c.metaErr = fmt.Errorf("failed to get column types: %w", err)
		return c.metaErr
	}

	c.columns = columns
	c.metaErr = nil
	c.values = make([]any, len(columns))
	c.ptrs = make([]any, len(columns))
	for i := range c.values {
		c.ptrs[i] = &c.values[i]
	}
	return nil
}

// ========== Навигация ==========

func (c *Cursor) Next() bool {
	c.hasRow = false
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		return false
	}

	clear(c.values)
	if err := c.rows.Scan(c.ptrs...); err != nil {
		c.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}
	c.hasRow = true
	return true
}

func (c *Cursor) NextResultSet() bool {
	c.hasRow = false
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.NextResultSet() {
		return false
	}
	// Ошибка метаданных всплывет в FieldCount
	c.loadColumns()
	return true
}

// Close закрывает rows и отменяет контекст запроса
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.hasRow = false

	err := c.rows.Close()
	if c.cancel != nil {
		c.cancel()
	}
	return err
}

func (c *Cursor) IsClosed() bool {
	return c.closed
}

// Err возвращает ошибку сканирования или итерации
func (c *Cursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

// Depth всегда 0: database/sql не поддерживает вложенные строки
func (c *Cursor) Depth() int {
	return 0
}

// RowsAffected всегда -1: *sql.Rows не сообщает количество измененных строк
func (c *Cursor) RowsAffected() int64 {
	return -1
}

// ========== Метаданные ==========

func (c *Cursor) FieldCount() (int, error) {
	if c.metaErr != nil {
		return 0, c.metaErr
	}
	return len(c.columns), nil
}

func (c *Cursor) column(ordinal int) (*sql.ColumnType, error) {
	if c.metaErr != nil {
		return nil, c.metaErr
	}
	if ordinal < 0 || ordinal >= len(c.columns) {
		return nil, fmt.Errorf("%w: ordinal %d, field count %d", reader.ErrIndexOutOfRange, ordinal, len(c.columns))
	}
	return c.columns[ordinal], nil
}

func (c *Cursor) FieldName(ordinal int) (string, error) {
	col, err := c.column(ordinal)
	if err != nil {
		return "", err
	}
	return col.Name(), nil
}

func (c *Cursor) DataTypeName(ordinal int) (string, error) {
	col, err := c.column(ordinal)
	if err != nil {
		return "", err
	}
	return col.DatabaseTypeName(), nil
}

func (c *Cursor) FieldType(ordinal int) (reflect.Type, error) {
	col, err := c.column(ordinal)
	if err != nil {
		return nil, err
	}
	return col.ScanType(), nil
}

// rawValue возвращает значение текущей строки без проверки на NULL
func (c *Cursor) rawValue(ordinal int) (any, error) {
	if _, err := c.column(ordinal); err != nil {
		return nil, err
	}
	if !c.hasRow {
		return nil, ErrNoData
	}
	return c.values[ordinal], nil
}

func (c *Cursor) IsNull(ordinal int) (bool, error) {
	v, err := c.rawValue(ordinal)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// value возвращает не-NULL значение или ошибку reader.ErrNullValue
func (c *Cursor) value(ordinal int) (any, error) {
	v, err := c.rawValue(ordinal)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("column %d: %w", ordinal, reader.ErrNullValue)
	}
	return v, nil
}

// ========== Типизированные геттеры ==========

func (c *Cursor) GetBool(ordinal int) (bool, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return false, err
	}
	return convert.Bool(v)
}

func (c *Cursor) GetByte(ordinal int) (byte, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Byte(v)
}

func (c *Cursor) GetTime(ordinal int) (time.Time, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return time.Time{}, err
	}
	return convert.Time(v)
}

func (c *Cursor) GetDecimal(ordinal int) (decimal.Decimal, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return convert.Decimal(v)
}

func (c *Cursor) GetFloat64(ordinal int) (float64, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Float64(v)
}

func (c *Cursor) GetFloat32(ordinal int) (float32, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Float32(v)
}

func (c *Cursor) GetUUID(ordinal int) (uuid.UUID, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return uuid.Nil, err
	}

	if raw, ok := v.([]byte); ok && len(raw) == 16 && c.decodeUUID != nil {
		id, err := c.decodeUUID(c.columns[ordinal].DatabaseTypeName(), raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", reader.ErrInvalidCast, err)
		}
		return id, nil
	}
	return convert.UUID(v)
}

func (c *Cursor) GetInt16(ordinal int) (int16, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int16(v)
}

func (c *Cursor) GetInt32(ordinal int) (int32, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int32(v)
}

func (c *Cursor) GetInt64(ordinal int) (int64, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int64(v)
}

func (c *Cursor) GetString(ordinal int) (string, error) {
	v, err := c.value(ordinal)
	if err != nil {
		return "", err
	}
	return convert.String(v)
}
