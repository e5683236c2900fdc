package xlsx

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/xuri/excelize/v2"
)

// maxSheetName - ограничение Excel на длину имени листа
const maxSheetName = 31

var datetimeFormat = "yyyy-mm-dd hh:mm:ss"

// styles - ID стилей книги для заголовка и типизированных ячеек
type styles struct {
	header   int
	integer  int
	number   int
	datetime int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	// Встроенные форматы: 1 = "0", 2 = "0.00"
	for _, st := range []struct {
		id  *int
		fmt int
	}{{&s.integer, 1}, {&s.number, 2}} {
		*st.id, err = f.NewStyle(&excelize.Style{NumFmt: st.fmt})
		if err != nil {
			return s, fmt.Errorf("failed to create cell style: %w", err)
		}
	}

	// Дата и время в формате, который SheetCursor читает обратно
	s.datetime, err = f.NewStyle(&excelize.Style{CustomNumFmt: &datetimeFormat})
	if err != nil {
		return s, fmt.Errorf("failed to create datetime style: %w", err)
	}
	return s, nil
}

func (s styles) forKind(kind cellKind) int {
	switch kind {
	case kindInteger:
		return s.integer
	case kindNumber, kindDecimal:
		return s.number
	case kindTime:
		return s.datetime
	}
	return 0
}

// ToXLSX записывает текущий и все последующие result set ридера в файл,
// по одному листу на result set: sheetName, sheetName_2, ...
// Возвращает общее количество записанных строк данных.
//
// Example:
//
//	r, _ := adapter.ExecProcedure(ctx, "dbo.GetOrders")
//	defer r.Close()
//	rows, err := xlsx.ToXLSX(r, "orders.xlsx", "Orders")
func ToXLSX(r *reader.Reader, filePath, sheetName string) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheetName == "" {
		sheetName = r.Description()
	}
	base := SanitizeSheetName(sheetName)

	total := 0
	for set := 1; ; set++ {
		name := base
		if set > 1 {
			suffix := fmt.Sprintf("_%d", set)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}

		if set == 1 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return total, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return total, fmt.Errorf("failed to create sheet: %w", err)
		}

		n, err := WriteSheet(f, name, r)
		if err != nil {
			return total, err
		}
		total += n

		more, err := r.NextResult()
		if err != nil {
			return total, fmt.Errorf("failed to advance result set: %w", err)
		}
		if !more {
			break
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return total, fmt.Errorf("failed to save %s: %w", filePath, err)
	}

	log.Debug().Str("file", filePath).Int("rows", total).Msg("xlsx written")
	return total, nil
}

// WriteSheet записывает оставшиеся строки текущего result set на
// существующий лист: имена колонок в строке 1 и данные начиная со строки 2.
// Колонки читаются по позиции, поэтому дубликаты и пустые имена допустимы.
func WriteSheet(f *excelize.File, sheet string, r *reader.Reader) (int, error) {
	st, err := newStyles(f)
	if err != nil {
		return 0, err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to create stream writer: %w", err)
	}

	names := r.FieldNames()
	kinds := make([]cellKind, len(names))
	header := make([]any, len(names))
	for i, name := range names {
		kinds[i] = columnKind(r, i)
		header[i] = excelize.Cell{StyleID: st.header, Value: name}
	}

	if len(names) > 0 {
		if err := sw.SetColWidth(1, len(names), 15); err != nil {
			return 0, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for r.Read() {
		values := make([]any, len(names))
		for i := range names {
			v, err := cellValue(r, i, kinds[i])
			if err != nil {
				return rows, fmt.Errorf("row %d: %w", rows+1, err)
			}
			values[i] = excelize.Cell{StyleID: st.forKind(kinds[i]), Value: v}
		}

		cell, err := excelize.CoordinatesToCellName(1, rows+2)
		if err != nil {
			return rows, err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return rows, fmt.Errorf("failed to write row %d: %w", rows+1, err)
		}
		rows++
	}
	if err := r.Err(); err != nil {
		return rows, fmt.Errorf("failed to read rows: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return rows, fmt.Errorf("failed to flush sheet: %w", err)
	}
	return rows, nil
}

// SanitizeSheetName убирает символы, запрещенные в именах листов Excel,
// и обрезает имя до 31 символа
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if name == "" {
		return "Sheet1"
	}
	return truncate(name, maxSheetName)
}

// truncate обрезает строку до n рун
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
