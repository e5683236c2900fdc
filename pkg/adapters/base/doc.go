// Package base предоставляет общие хелперы для всех адаптеров БД поверх database/sql.
//
// # Основные компоненты
//
// QueryHelper - выполнение запросов и процедур:
//   - Query() - запрос или пакет запросов → reader.Reader
//   - ExecProcedure() - вызов хранимой процедуры → reader.Reader
//   - таймаут запроса живет до Close ридера (sqlcursor.WithCancel)
//   - safe mode через security.SQLValidator
//   - логирование запросов через zerolog (уровень Debug)
//
// ProcedureBuilder - текст вызова процедуры по диалекту:
//   - CallBuilder - CALL name(?, ?) для MySQL, {CALL name(?, ?)} для ODBC
//   - FunctionBuilder - SELECT * FROM name(p => $1) для PostgreSQL
//   - ProcedureBuilderFunc - произвольная функция (MS SQL RPC)
//
// # Использование
//
//	type Adapter struct {
//	    *base.QueryHelper
//	}
//
//	func (a *Adapter) Connect(ctx context.Context, cfg adapters.Config) error {
//	    db, err := sql.Open("mysql", cfg.DSN)
//	    ...
//	    a.QueryHelper = base.NewQueryHelper(db, cfg, "mysql", base.CallBuilder{})
//	    return nil
//	}
//
// Методы Query, ExecProcedure и Ping адаптер получает встраиванием.
package base
