package reader

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func ordersSet() resultSet {
	return resultSet{
		columns: []string{"OrderID", "Customer", "Amount"},
		rows: [][]any{
			{int64(1), "ACME", 10.5},
			{int64(2), nil, 20.0},
		},
	}
}

func mustReader(t *testing.T, cur Cursor) *Reader {
	t.Helper()
	r, err := New(cur, "dbo.GetOrders")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

// TestNew_BuildsIndex проверяет, что каждое имя разрешается в свою позицию
func TestNew_BuildsIndex(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	r := mustReader(t, cur)

	count, err := r.FieldCount()
	if err != nil {
		t.Fatalf("FieldCount failed: %v", err)
	}
	names := r.FieldNames()
	if len(names) != count {
		t.Fatalf("Expected %d names, got %d", count, len(names))
	}

	for i, name := range names {
		ordinal, err := r.Ordinal(name)
		if err != nil {
			t.Fatalf("Ordinal(%q) failed: %v", name, err)
		}
		if ordinal != i {
			t.Errorf("Ordinal(%q) = %d, expected %d", name, ordinal, i)
		}
	}

	// Точные попадания не обращаются к курсору
	calls := cur.fieldNameCalls
	for _, name := range names {
		if _, err := r.Ordinal(name); err != nil {
			t.Fatalf("Ordinal(%q) failed: %v", name, err)
		}
	}
	if cur.fieldNameCalls != calls {
		t.Errorf("Exact lookups must not query the cursor, got %d extra FieldName calls", cur.fieldNameCalls-calls)
	}
}

func TestNew_MetadataError(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	cur.metaErr = errors.New("connection lost")

	if _, err := New(cur, "test"); err == nil {
		t.Fatal("Expected error when cursor cannot report metadata")
	}
}

func TestFieldNames_ReturnsCopy(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))

	names := r.FieldNames()
	names[0] = "changed"

	if r.FieldNames()[0] != "OrderID" {
		t.Error("FieldNames must not expose internal slice")
	}
}

func TestOrdinal_EmptyName(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))

	_, err := r.Ordinal("")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
}

// TestOrdinal_CaseInsensitiveAlias проверяет кеширование регистронезависимого алиаса
func TestOrdinal_CaseInsensitiveAlias(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	r := mustReader(t, cur)
	calls := cur.fieldNameCalls

	if r.FieldExists("customer") {
		t.Fatal("Alias must not exist before resolution")
	}
	ordinal, err := r.Ordinal("customer")
	if err != nil {
		t.Fatalf("Ordinal failed: %v", err)
	}
	if ordinal != 1 {
		t.Errorf("Expected 1, got %d", ordinal)
	}
	if !r.FieldExists("customer") {
		t.Fatal("Alias must be cached after resolution")
	}

	// Повторный запрос - точное попадание в кеш, без сканирования
	again, err := r.Ordinal("customer")
	if err != nil {
		t.Fatalf("Ordinal failed: %v", err)
	}
	if again != ordinal {
		t.Errorf("Resolution not idempotent: %d != %d", again, ordinal)
	}
	// Fallback идет по списку имен, построенному в New
	if cur.fieldNameCalls != calls {
		t.Errorf("Resolution must not query the cursor, got %d extra FieldName calls", cur.fieldNameCalls-calls)
	}
}

func TestOrdinal_UnicodeFolding(t *testing.T) {
	r := mustReader(t, newFakeCursor(resultSet{columns: []string{"Ärger", "Größe"}}))

	tests := []struct {
		name     string
		expected int
	}{
		{"ärger", 0},
		{"ÄRGER", 0},
		{"GRÖßE", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordinal, err := r.Ordinal(tt.name)
			if err != nil {
				t.Fatalf("Ordinal(%q) failed: %v", tt.name, err)
			}
			if ordinal != tt.expected {
				t.Errorf("Ordinal(%q) = %d, expected %d", tt.name, ordinal, tt.expected)
			}
		})
	}
}

func TestOrdinal_NotFound(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))

	_, err := r.Ordinal("Missing")
	if !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("Expected ErrFieldNotFound, got %v", err)
	}
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("Field not found must match positional access error")
	}

	var notFound *FieldNotFoundError
	if !errors.As(err, &notFound) || notFound.Name != "Missing" {
		t.Errorf("Expected FieldNotFoundError for Missing, got %v", err)
	}
	if r.FieldExists("Missing") {
		t.Error("Unknown name must not be cached")
	}
}

// TestFieldExists_NoCaseFolding фиксирует асимметрию FieldExists и Ordinal
func TestFieldExists_NoCaseFolding(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))

	if !r.FieldExists("OrderID") {
		t.Error("Expected exact name to exist")
	}
	if r.FieldExists("ORDERID") {
		t.Error("FieldExists must not fold case for names not resolved yet")
	}
	if _, err := r.Ordinal("ORDERID"); err != nil {
		t.Fatalf("Ordinal must fold case: %v", err)
	}
	if !r.FieldExists("ORDERID") {
		t.Error("FieldExists must see alias cached by Ordinal")
	}
}

func TestIndex_DuplicateFirstWins(t *testing.T) {
	r := mustReader(t, newFakeCursor(resultSet{columns: []string{"ID", "Name", "ID"}}))

	ordinal, err := r.Ordinal("ID")
	if err != nil {
		t.Fatalf("Ordinal failed: %v", err)
	}
	if ordinal != 0 {
		t.Errorf("Expected first occurrence 0, got %d", ordinal)
	}
	if len(r.FieldNames()) != 3 {
		t.Errorf("Field list must keep duplicates, got %v", r.FieldNames())
	}
}

// TestNextResult_RebuildsIndex проверяет полную замену индекса при смене result set
func TestNextResult_RebuildsIndex(t *testing.T) {
	second := resultSet{
		columns: []string{"LineID", "Product"},
		rows:    [][]any{{int64(100), "Widget"}},
	}
	r := mustReader(t, newFakeCursor(ordersSet(), second))

	if _, err := r.Ordinal("customer"); err != nil {
		t.Fatalf("Ordinal failed: %v", err)
	}

	ok, err := r.NextResult()
	if err != nil {
		t.Fatalf("NextResult failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected second result set")
	}

	if !reflect.DeepEqual(r.FieldNames(), []string{"LineID", "Product"}) {
		t.Errorf("Unexpected field names: %v", r.FieldNames())
	}
	for _, stale := range []string{"OrderID", "customer", "Customer"} {
		if r.FieldExists(stale) {
			t.Errorf("Stale entry %q survived NextResult", stale)
		}
	}
	if _, err := r.Ordinal("Customer"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound for old column, got %v", err)
	}

	if !r.Read() {
		t.Fatal("Expected row in second result set")
	}
	product, err := r.RequiredString("product")
	if err != nil {
		t.Fatalf("RequiredString failed: %v", err)
	}
	if product != "Widget" {
		t.Errorf("Expected Widget, got %s", product)
	}

	ok, err = r.NextResult()
	if err != nil || ok {
		t.Errorf("Expected no more result sets, got ok=%v err=%v", ok, err)
	}
	if len(r.FieldNames()) != 2 {
		t.Error("Failed NextResult must keep current index")
	}
}

func TestNextResult_MetadataError(t *testing.T) {
	cur := newFakeCursor(ordersSet(), ordersSet())
	r := mustReader(t, cur)

	cur.metaErr = errors.New("broken")
	if _, err := r.NextResult(); err == nil {
		t.Fatal("Expected metadata error")
	}
}

func TestPassthrough(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	r := mustReader(t, cur)

	if r.Depth() != 0 {
		t.Errorf("Expected depth 0, got %d", r.Depth())
	}
	if r.RecordsAffected() != -1 {
		t.Errorf("Expected -1 records affected, got %d", r.RecordsAffected())
	}
	if r.Description() != "dbo.GetOrders" {
		t.Errorf("Unexpected description %q", r.Description())
	}
	if r.Err() != nil {
		t.Errorf("Unexpected error %v", r.Err())
	}

	rows := 0
	for r.Read() {
		rows++
	}
	if rows != 2 {
		t.Errorf("Expected 2 rows, got %d", rows)
	}

	typeName, err := r.DataTypeName("amount")
	if err == nil {
		t.Errorf("Expected error without current row, got %q", typeName)
	}
}

func TestMetadataByName(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))
	r.Read()

	typeName, err := r.DataTypeName("amount")
	if err != nil {
		t.Fatalf("DataTypeName failed: %v", err)
	}
	if typeName != "float64" {
		t.Errorf("Expected float64, got %s", typeName)
	}

	fieldType, err := r.FieldType("OrderID")
	if err != nil {
		t.Fatalf("FieldType failed: %v", err)
	}
	if fieldType != reflect.TypeOf(int64(0)) {
		t.Errorf("Expected int64, got %v", fieldType)
	}

	if _, err := r.IsNull("nope"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound, got %v", err)
	}
}

// TestClose_Idempotent проверяет, что повторное закрытие не закрывает курсор дважды
func TestClose_Idempotent(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	r := mustReader(t, cur)

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
	if cur.closeCalls != 1 {
		t.Errorf("Expected 1 close call, got %d", cur.closeCalls)
	}
	if !r.IsClosed() {
		t.Error("Expected reader to be closed")
	}
}

func TestClose_AlreadyClosedCursor(t *testing.T) {
	cur := newFakeCursor(ordersSet())
	r := mustReader(t, cur)
	cur.closed = true

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if cur.closeCalls != 0 {
		t.Errorf("Closed cursor must not be closed again, got %d calls", cur.closeCalls)
	}
}

func TestErrorMessages(t *testing.T) {
	r := mustReader(t, newFakeCursor(ordersSet()))

	_, err := r.Ordinal("Phantom")
	if !strings.Contains(err.Error(), "Phantom") {
		t.Errorf("Error must name the column: %v", err)
	}
}
