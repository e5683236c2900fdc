// Package security проверяет текст запросов и имена процедур до отправки в СУБД.
package security

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsafeQuery - запрос отклонен в safe mode
var ErrUnsafeQuery = errors.New("query rejected in safe mode")

// ErrInvalidIdentifier - имя процедуры не является допустимым идентификатором
var ErrInvalidIdentifier = errors.New("invalid identifier")

// forbiddenKeywords - операции, запрещенные в safe mode
var forbiddenKeywords = map[string]struct{}{
	// DML
	"INSERT": {}, "UPDATE": {}, "DELETE": {}, "TRUNCATE": {}, "MERGE": {},
	// DDL
	"DROP": {}, "CREATE": {}, "ALTER": {}, "RENAME": {},
	// DCL
	"GRANT": {}, "REVOKE": {},
	"EXECUTE": {}, "EXEC": {}, "CALL": {},
	// SQLite
	"PRAGMA": {}, "ATTACH": {}, "DETACH": {},
	"BEGIN": {}, "COMMIT": {}, "ROLLBACK": {},
	"INTO": {},
}

// identifierPattern - [catalog.][schema.]name
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*){0,2}$`)

// SQLValidator проверяет SQL запросы на соответствие политикам безопасности.
//
// В safe mode каждый оператор пакета должен быть SELECT или WITH,
// без запрещенных ключевых слов и комментариев. Пакет из нескольких
// SELECT разрешен: каждый оператор дает свой result set.
//
// В unsafe mode все запросы разрешены.
type SQLValidator struct {
	safeMode bool
}

// NewSQLValidator создает новый SQL валидатор
func NewSQLValidator(safeMode bool) *SQLValidator {
	return &SQLValidator{
		safeMode: safeMode,
	}
}

// Validate возвращает ошибку, оборачивающую ErrUnsafeQuery, если запрос
// нарушает политику safe mode
func (v *SQLValidator) Validate(sql string) error {
	if !v.safeMode {
		return nil
	}

	if strings.Contains(sql, "--") || strings.Contains(sql, "/*") || strings.Contains(sql, "*/") {
		return fmt.Errorf("%w: SQL comments not allowed", ErrUnsafeQuery)
	}

	statements := splitStatements(sql)
	if len(statements) == 0 {
		return fmt.Errorf("%w: empty query", ErrUnsafeQuery)
	}

	for i, stmt := range statements {
		if err := checkStatement(stmt); err != nil {
			return fmt.Errorf("%w: statement %d: %v", ErrUnsafeQuery, i+1, err)
		}
	}
	return nil
}

// checkStatement проверяет один оператор пакета
func checkStatement(stmt string) error {
	words := strings.FieldsFunc(strings.ToUpper(stripLiterals(stmt)), func(r rune) bool {
		return !(r == '_' || r == '$' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 0x7f)
	})
	if len(words) == 0 {
		return errors.New("empty statement")
	}

	if words[0] != "SELECT" && words[0] != "WITH" {
		return fmt.Errorf("only SELECT and WITH queries allowed, got: %s", words[0])
	}

	for _, w := range words {
		if _, ok := forbiddenKeywords[w]; ok {
			return fmt.Errorf("forbidden keyword '%s'", w)
		}
	}
	return nil
}

// splitStatements делит пакет по ';' вне строковых литералов и
// отбрасывает пустые операторы
func splitStatements(sql string) []string {
	var (
		statements []string
		current    strings.Builder
		quote      rune
	)

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			statements = append(statements, s)
		}
		current.Reset()
	}

	for _, r := range sql {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == ';':
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return statements
}

// stripLiterals заменяет содержимое строковых литералов пробелами,
// чтобы ключевые слова внутри значений не считались операторами
func stripLiterals(stmt string) string {
	var (
		b     strings.Builder
		quote rune
	)
	for _, r := range stmt {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
			continue
		case r == '\'':
			quote = r
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidateIdentifier проверяет имя процедуры или функции перед вызовом.
// Допускаются имена вида name, schema.name и db.schema.name.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// IsSafeMode возвращает текущий режим валидатора
func (v *SQLValidator) IsSafeMode() bool {
	return v.safeMode
}

// SetSafeMode устанавливает режим валидатора
func (v *SQLValidator) SetSafeMode(safeMode bool) {
	v.safeMode = safeMode
}
