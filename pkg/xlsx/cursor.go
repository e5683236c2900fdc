package xlsx

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader/convert"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Compile-time check: SheetCursor должен реализовывать интерфейс reader.Cursor
var _ reader.Cursor = (*SheetCursor)(nil)

// ErrNoData - обращение к значению без текущей строки
var ErrNoData = errors.New("invalid attempt to read when no data is present")

var stringType = reflect.TypeOf("")

// SheetCursor - курсор над листами книги Excel.
// Каждый лист - result set, первая строка листа - имена колонок.
// Значения читаются как текст ячеек и приводятся пакетом convert.
type SheetCursor struct {
	file     *excelize.File
	ownsFile bool
	sheets   []string
	sheet    int

	rows    *excelize.Rows
	header  []string
	current []string
	hasRow  bool

	err    error
	closed bool
}

// NewSheetCursor создает курсор над всеми листами открытой книги,
// начиная с первого. Книгу закрывает вызывающий код.
func NewSheetCursor(f *excelize.File) (*SheetCursor, error) {
	c := &SheetCursor{file: f, sheets: f.GetSheetList()}
	if len(c.sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	if err := c.openSheet(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// OpenReader открывает файл и возвращает ридер над его листами.
// Описание ридера - имя файла. Close ридера закрывает файл.
func OpenReader(path string) (*reader.Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	cur, err := NewSheetCursor(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	cur.ownsFile = true

	r, err := reader.New(cur, filepath.Base(path))
	if err != nil {
		cur.Close()
		return nil, err
	}
	return r, nil
}

// openSheet открывает итератор текущего листа и читает строку заголовков
func (c *SheetCursor) openSheet() error {
	name := c.sheets[c.sheet]
	rows, err := c.file.Rows(name)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	c.rows = rows
	c.header = nil

	if rows.Next() {
		header, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read header of sheet %q: %w", name, err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		c.header = header
	}
	return rows.Error()
}

// SheetName возвращает имя текущего листа
func (c *SheetCursor) SheetName() string {
	return c.sheets[c.sheet]
}

// ========== Навигация ==========

func (c *SheetCursor) Next() bool {
	c.hasRow = false
	if c.closed || c.err != nil || c.rows == nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Error()
		return false
	}

	values, err := c.rows.Columns()
	if err != nil {
		c.err = fmt.Errorf("failed to read row: %w", err)
		return false
	}
	c.current = values
	c.hasRow = true
	return true
}

func (c *SheetCursor) NextResultSet() bool {
	c.hasRow = false
	if c.closed || c.err != nil || c.sheet+1 >= len(c.sheets) {
		return false
	}

	if c.rows != nil {
		c.rows.Close()
		c.rows = nil
	}
	c.sheet++
	if err := c.openSheet(); err != nil {
		c.err = err
		return false
	}
	return true
}

// Close закрывает итератор листа и, если курсор открыл файл сам, книгу
func (c *SheetCursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.hasRow = false

	var errs []error
	if c.rows != nil {
		errs = append(errs, c.rows.Close())
	}
	if c.ownsFile {
		errs = append(errs, c.file.Close())
	}
	return errors.Join(errs...)
}

func (c *SheetCursor) IsClosed() bool {
	return c.closed
}

// Err возвращает ошибку чтения листа
func (c *SheetCursor) Err() error {
	return c.err
}

// Depth всегда 0: листы не вложены
func (c *SheetCursor) Depth() int {
	return 0
}

// RowsAffected всегда -1: чтение не изменяет данные
func (c *SheetCursor) RowsAffected() int64 {
	return -1
}

// ========== Метаданные ==========

func (c *SheetCursor) FieldCount() (int, error) {
	return len(c.header), nil
}

func (c *SheetCursor) checkOrdinal(ordinal int) error {
	if ordinal < 0 || ordinal >= len(c.header) {
		return fmt.Errorf("%w: ordinal %d, field count %d", reader.ErrIndexOutOfRange, ordinal, len(c.header))
	}
	return nil
}

func (c *SheetCursor) FieldName(ordinal int) (string, error) {
	if err := c.checkOrdinal(ordinal); err != nil {
		return "", err
	}
	return c.header[ordinal], nil
}

// DataTypeName всегда "TEXT": ячейки читаются как текст
func (c *SheetCursor) DataTypeName(ordinal int) (string, error) {
	if err := c.checkOrdinal(ordinal); err != nil {
		return "", err
	}
	return "TEXT", nil
}

func (c *SheetCursor) FieldType(ordinal int) (reflect.Type, error) {
	if err := c.checkOrdinal(ordinal); err != nil {
		return nil, err
	}
	return stringType, nil
}

// cell возвращает текст ячейки; строки короче заголовка дополняются пустыми
func (c *SheetCursor) cell(ordinal int) (string, error) {
	if err := c.checkOrdinal(ordinal); err != nil {
		return "", err
	}
	if !c.hasRow {
		return "", ErrNoData
	}
	if ordinal >= len(c.current) {
		return "", nil
	}
	return c.current[ordinal], nil
}

// IsNull - пустая ячейка считается NULL
func (c *SheetCursor) IsNull(ordinal int) (bool, error) {
	s, err := c.cell(ordinal)
	if err != nil {
		return false, err
	}
	return s == "", nil
}

func (c *SheetCursor) value(ordinal int) (string, error) {
	s, err := c.cell(ordinal)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("column %d: %w", ordinal, reader.ErrNullValue)
	}
	return s, nil
}

// ========== Типизированные геттеры ==========

func (c *SheetCursor) GetBool(ordinal int) (bool, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return false, err
	}
	return convert.Bool(s)
}

func (c *SheetCursor) GetByte(ordinal int) (byte, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Byte(s)
}

func (c *SheetCursor) GetTime(ordinal int) (time.Time, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return time.Time{}, err
	}
	return convert.Time(s)
}

func (c *SheetCursor) GetDecimal(ordinal int) (decimal.Decimal, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return convert.Decimal(s)
}

func (c *SheetCursor) GetFloat64(ordinal int) (float64, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Float64(s)
}

func (c *SheetCursor) GetFloat32(ordinal int) (float32, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Float32(s)
}

func (c *SheetCursor) GetUUID(ordinal int) (uuid.UUID, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return uuid.Nil, err
	}
	return convert.UUID(s)
}

func (c *SheetCursor) GetInt16(ordinal int) (int16, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int16(s)
}

func (c *SheetCursor) GetInt32(ordinal int) (int32, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int32(s)
}

func (c *SheetCursor) GetInt64(ordinal int) (int64, error) {
	s, err := c.value(ordinal)
	if err != nil {
		return 0, err
	}
	return convert.Int64(s)
}

func (c *SheetCursor) GetString(ordinal int) (string, error) {
	return c.value(ordinal)
}
