// Package xlsx связывает reader.Reader с файлами Excel.
//
// Экспорт: ToXLSX и WriteSheet записывают result set ридера на лист,
// выбирая типизированный аксессор по типу колонки (числа остаются
// числами, даты - датами, GUID и DECIMAL - текстом и числом).
//
// Импорт: SheetCursor реализует reader.Cursor над листами книги.
// Первая строка листа - имена колонок, каждый следующий лист - новый
// result set, пустая ячейка - NULL:
//
//	r, err := xlsx.OpenReader("orders.xlsx")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for r.Read() {
//	    amount, _ := r.Decimal("Amount")
//	    ...
//	}
package xlsx
