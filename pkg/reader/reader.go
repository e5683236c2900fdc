package reader

import (
	"fmt"
	"reflect"

	"golang.org/x/text/cases"
)

// Reader оборачивает Cursor и дает доступ к полям текущей строки по имени колонки
type Reader struct {
	cursor      Cursor
	description string // только для сообщений об ошибках

	index map[string]int // имя → позиция, только для текущего result set
	names []string       // имена колонок текущего result set по позициям

	folder cases.Caser
}

// New создает Reader поверх уже открытого курсора.
// description попадает в сообщения об ошибках (например, имя хранимой процедуры).
func New(cursor Cursor, description string) (*Reader, error) {
	r := &Reader{
		cursor:      cursor,
		description: description,
		folder:      cases.Fold(),
	}
	if err := r.buildIndex(); err != nil {
		return nil, err
	}
	return r, nil
}

// buildIndex заново строит индекс и список имен по метаданным текущего result set
func (r *Reader) buildIndex() error {
	count, err := r.cursor.FieldCount()
	if err != nil {
		return fmt.Errorf("failed to get field count: %w", err)
	}

	names := make([]string, count)
	index := make(map[string]int, count)
	for i := 0; i < count; i++ {
		name, err := r.cursor.FieldName(i)
		if err != nil {
			return fmt.Errorf("failed to get name of field %d: %w", i, err)
		}
		names[i] = name

		// При дубликатах побеждает первое вхождение
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	r.names = names
	r.index = index
	return nil
}

// Description возвращает описание, переданное в New
func (r *Reader) Description() string {
	return r.description
}

// ========== Passthrough ==========

// Read переходит к следующей строке
func (r *Reader) Read() bool {
	return r.cursor.Next()
}

// NextResult переходит к следующему result set и перестраивает индекс имен
func (r *Reader) NextResult() (bool, error) {
	if !r.cursor.NextResultSet() {
		return false, nil
	}
	if err := r.buildIndex(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Reader) IsClosed() bool {
	return r.cursor.IsClosed()
}

func (r *Reader) Depth() int {
	return r.cursor.Depth()
}

func (r *Reader) FieldCount() (int, error) {
	return r.cursor.FieldCount()
}

func (r *Reader) RecordsAffected() int64 {
	return r.cursor.RowsAffected()
}

// Err возвращает ошибку итерации курсора, если курсор ее предоставляет
func (r *Reader) Err() error {
	if ec, ok := r.cursor.(errCursor); ok {
		return ec.Err()
	}
	return nil
}

// Close закрывает курсор, если он еще открыт. Повторный вызов ничего не делает.
func (r *Reader) Close() error {
	if r.cursor.IsClosed() {
		return nil
	}
	return r.cursor.Close()
}

// FieldNames возвращает копию списка имен колонок текущего result set
func (r *Reader) FieldNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// ========== Разрешение имен ==========

// Ordinal возвращает позицию колонки по имени.
// Сначала точный поиск в индексе, затем регистронезависимый проход по списку имен.
// Найденное регистронезависимо имя кешируется в индексе как алиас.
func (r *Reader) Ordinal(name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: column name is empty", ErrInvalidArgument)
	}

	if ordinal, ok := r.index[name]; ok {
		return ordinal, nil
	}

	folded := r.folder.String(name)
	for i, candidate := range r.names {
		if r.folder.String(candidate) == folded {
			r.index[name] = i
			return i, nil
		}
	}

	return -1, &FieldNotFoundError{Name: name}
}

// FieldExists проверяет наличие имени в текущем индексе.
// Регистронезависимый поиск НЕ выполняется (см. документацию пакета).
func (r *Reader) FieldExists(name string) bool {
	_, ok := r.index[name]
	return ok
}

// IsNull сообщает, равно ли значение колонки NULL в текущей строке
func (r *Reader) IsNull(name string) (bool, error) {
	ordinal, err := r.Ordinal(name)
	if err != nil {
		return false, err
	}
	return r.cursor.IsNull(ordinal)
}

// DataTypeName возвращает имя типа колонки в СУБД
func (r *Reader) DataTypeName(name string) (string, error) {
	ordinal, err := r.Ordinal(name)
	if err != nil {
		return "", err
	}
	return r.cursor.DataTypeName(ordinal)
}

// FieldType возвращает Go тип значений колонки
func (r *Reader) FieldType(name string) (reflect.Type, error) {
	ordinal, err := r.Ordinal(name)
	if err != nil {
		return nil, err
	}
	return r.cursor.FieldType(ordinal)
}
