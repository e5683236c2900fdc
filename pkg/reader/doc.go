// Package reader предоставляет Reader - обертку над курсором результата запроса
// с доступом к полям по имени колонки.
//
// # Основные возможности
//
// Индекс имен колонок:
//   - строится при создании Reader и полностью перестраивается на каждом NextResult()
//   - при дубликатах имен побеждает первое вхождение
//   - поиск без учета регистра (Unicode case folding) с кешированием найденного алиаса
//
// Типизированные аксессоры для Bool, Byte, Char, Time, Decimal, Float64, Float32,
// UUID, Int16, Int32, Int64, String в трех вариантах:
//   - Bool(name, def...)     - NULL → значение по умолчанию (или zero value)
//   - RequiredBool(name)     - NULL → ошибка ErrUnexpectedNull
//   - NullableBool(name)     - NULL → sql.Null[bool]{Valid: false}
//
// Позиционный доступ (FieldName, IsNullAt, RequiredBoolAt, ...) нужен для обхода
// всех колонок строки, включая дубликаты и колонки без имени.
//
// # Использование
//
//	r, err := reader.New(cursor, "dbo.GetOrders")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for r.Read() {
//	    id, err := r.RequiredInt64("OrderID")
//	    ...
//	    comment, err := r.String("Comment", "(none)")
//	    ...
//	}
//
// # Особенность FieldExists
//
// FieldExists проверяет только текущий кеш индекса и НЕ выполняет поиск без учета
// регистра. Для колонки "OrderID" вызов FieldExists("orderid") вернет false, пока
// имя "orderid" не было хотя бы раз разрешено через Ordinal или аксессор.
// Поведение сохранено намеренно: вызывающий код может на него полагаться.
//
// Reader не потокобезопасен: один экземпляр владеет одним курсором и должен
// использоваться из одной горутины.
package reader
