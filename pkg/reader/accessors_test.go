package reader

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accessorCase описывает три аксессора одного типа через замыкания
type accessorCase struct {
	kind     string
	value    any // не-NULL значение в колонке
	fallback any // значение по умолчанию для NULL
	zero     any

	withDefault func(r *Reader, name string, def any) (any, error)
	noDefault   func(r *Reader, name string) (any, error)
	required    func(r *Reader, name string) (any, error)
	nullable    func(r *Reader, name string) (any, bool, error)
}

func accessorCases() []accessorCase {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	return []accessorCase{
		{
			kind: "Bool", value: true, fallback: true, zero: false,
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Bool(n, d.(bool)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Bool(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredBool(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableBool(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Byte", value: byte(200), fallback: byte(9), zero: byte(0),
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Byte(n, d.(byte)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Byte(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredByte(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableByte(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Time", value: ts, fallback: ts.AddDate(1, 0, 0), zero: time.Time{},
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Time(n, d.(time.Time)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Time(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredTime(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableTime(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Decimal", value: decimal.RequireFromString("12.34"), fallback: decimal.NewFromInt(-1), zero: decimal.Decimal{},
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Decimal(n, d.(decimal.Decimal)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Decimal(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredDecimal(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableDecimal(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Float64", value: 3.25, fallback: -1.5, zero: 0.0,
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Float64(n, d.(float64)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Float64(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredFloat64(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableFloat64(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Float32", value: float32(1.5), fallback: float32(2.5), zero: float32(0),
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Float32(n, d.(float32)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Float32(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredFloat32(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableFloat32(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "UUID", value: id, fallback: uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"), zero: uuid.Nil,
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.UUID(n, d.(uuid.UUID)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.UUID(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredUUID(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableUUID(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Int16", value: int16(-7), fallback: int16(42), zero: int16(0),
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Int16(n, d.(int16)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Int16(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredInt16(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableInt16(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Int32", value: int32(123456), fallback: int32(-1), zero: int32(0),
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Int32(n, d.(int32)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Int32(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredInt32(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableInt32(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "Int64", value: int64(1) << 40, fallback: int64(-1), zero: int64(0),
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.Int64(n, d.(int64)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.Int64(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredInt64(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableInt64(n)
				return v.V, v.Valid, err
			},
		},
		{
			kind: "String", value: "hello", fallback: "n/a", zero: "",
			withDefault: func(r *Reader, n string, d any) (any, error) { return r.String(n, d.(string)) },
			noDefault:   func(r *Reader, n string) (any, error) { return r.String(n) },
			required:    func(r *Reader, n string) (any, error) { return r.RequiredString(n) },
			nullable: func(r *Reader, n string) (any, bool, error) {
				v, err := r.NullableString(n)
				return v.V, v.Valid, err
			},
		},
	}
}

// mismatchValue возвращает значение, которое геттер данного типа не примет
func mismatchValue(kind string) any {
	if kind == "String" {
		return int64(5)
	}
	return "not-a-" + strings.ToLower(kind)
}

// singleRow создает Reader на одной строке с колонками Value, Empty, Wrong
func singleRow(t *testing.T, value, wrong any) (*Reader, *fakeCursor) {
	t.Helper()
	cur := newFakeCursor(resultSet{
		columns: []string{"Value", "Empty", "Wrong"},
		rows:    [][]any{{value, nil, wrong}},
	})
	r := mustReader(t, cur)
	if !r.Read() {
		t.Fatal("Expected a row")
	}
	return r, cur
}

func TestAccessors_DefaultOnNull(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.kind, func(t *testing.T) {
			r, cur := singleRow(t, tc.value, mismatchValue(tc.kind))

			got, err := tc.withDefault(r, "empty", tc.fallback)
			if err != nil {
				t.Fatalf("%s with default failed: %v", tc.kind, err)
			}
			if !reflect.DeepEqual(got, tc.fallback) {
				t.Errorf("Expected default %v, got %v", tc.fallback, got)
			}

			got, err = tc.noDefault(r, "Empty")
			if err != nil {
				t.Fatalf("%s without default failed: %v", tc.kind, err)
			}
			if !reflect.DeepEqual(got, tc.zero) {
				t.Errorf("Expected zero value %v, got %v", tc.zero, got)
			}

			if cur.getterCalls != 0 {
				t.Errorf("NULL path must not call typed getter, got %d calls", cur.getterCalls)
			}

			got, err = tc.withDefault(r, "value", tc.fallback)
			if err != nil {
				t.Fatalf("%s on value failed: %v", tc.kind, err)
			}
			if !reflect.DeepEqual(got, tc.value) {
				t.Errorf("Expected %v, got %v", tc.value, got)
			}
		})
	}
}

func TestAccessors_RejectOnNull(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.kind, func(t *testing.T) {
			r, _ := singleRow(t, tc.value, mismatchValue(tc.kind))

			_, err := tc.required(r, "Empty")
			if !errors.Is(err, ErrUnexpectedNull) {
				t.Fatalf("Expected ErrUnexpectedNull, got %v", err)
			}
			if !errors.Is(err, ErrNullValue) {
				t.Error("Original cursor error must be preserved")
			}

			var nullErr *UnexpectedNullError
			if !errors.As(err, &nullErr) {
				t.Fatalf("Expected *UnexpectedNullError, got %T", err)
			}
			if nullErr.Column != "Empty" || nullErr.Description != "dbo.GetOrders" {
				t.Errorf("Unexpected error context: %+v", nullErr)
			}

			got, err := tc.required(r, "VALUE")
			if err != nil {
				t.Fatalf("Required%s failed: %v", tc.kind, err)
			}
			if !reflect.DeepEqual(got, tc.value) {
				t.Errorf("Expected %v, got %v", tc.value, got)
			}
		})
	}
}

func TestAccessors_Nullable(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.kind, func(t *testing.T) {
			r, _ := singleRow(t, tc.value, mismatchValue(tc.kind))

			_, valid, err := tc.nullable(r, "Empty")
			if err != nil {
				t.Fatalf("Nullable%s failed: %v", tc.kind, err)
			}
			if valid {
				t.Error("Expected no value for NULL")
			}

			got, valid, err := tc.nullable(r, "Value")
			if err != nil {
				t.Fatalf("Nullable%s failed: %v", tc.kind, err)
			}
			if !valid || !reflect.DeepEqual(got, tc.value) {
				t.Errorf("Expected present %v, got %v (valid=%v)", tc.value, got, valid)
			}
		})
	}
}

// TestAccessors_TypeMismatch проверяет, что все три варианта сообщают о несовпадении типа
func TestAccessors_TypeMismatch(t *testing.T) {
	for _, tc := range accessorCases() {
		t.Run(tc.kind, func(t *testing.T) {
			r, _ := singleRow(t, tc.value, mismatchValue(tc.kind))

			_, errDefault := tc.noDefault(r, "Wrong")
			_, errRequired := tc.required(r, "Wrong")
			_, _, errNullable := tc.nullable(r, "wrong")

			for variant, c := range map[string]struct {
				err    error
				column string
			}{
				"default":  {errDefault, "Wrong"},
				"required": {errRequired, "Wrong"},
				"nullable": {errNullable, "wrong"},
			} {
				err := c.err
				if !errors.Is(err, ErrTypeMismatch) {
					t.Errorf("%s: expected ErrTypeMismatch, got %v", variant, err)
					continue
				}
				if !errors.Is(err, ErrInvalidCast) {
					t.Errorf("%s: original cause lost: %v", variant, err)
				}
				var mismatch *TypeMismatchError
				if !errors.As(err, &mismatch) {
					t.Errorf("%s: expected *TypeMismatchError, got %T", variant, err)
					continue
				}
				if mismatch.Column != c.column {
					t.Errorf("%s: expected column %q, got %q", variant, c.column, mismatch.Column)
				}
				if mismatch.Description != "dbo.GetOrders" {
					t.Errorf("%s: unexpected description %q", variant, mismatch.Description)
				}
				if !strings.Contains(err.Error(), "dbo.GetOrders") {
					t.Errorf("%s: message must contain description: %v", variant, err)
				}
			}
		})
	}
}

func TestAccessors_UnknownColumn(t *testing.T) {
	r, _ := singleRow(t, int64(1), "x")

	if _, err := r.Int64("Nope", 5); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound, got %v", err)
	}
	if _, err := r.RequiredInt64("Nope"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Expected ErrFieldNotFound, got %v", err)
	}
	if _, err := r.NullableInt64(""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestChar(t *testing.T) {
	cur := newFakeCursor(resultSet{
		columns: []string{"Padded", "Blank", "Missing", "Number", "Cyrillic"},
		rows:    [][]any{{"  Q  ", "", nil, int64(1), " Жук"}},
	})
	r := mustReader(t, cur)
	r.Read()

	t.Run("Trimmed first character", func(t *testing.T) {
		c, err := r.Char("Padded")
		if err != nil {
			t.Fatalf("Char failed: %v", err)
		}
		if c != 'Q' {
			t.Errorf("Expected 'Q', got %q", c)
		}

		c, err = r.RequiredChar("Padded")
		if err != nil || c != 'Q' {
			t.Errorf("Expected 'Q', got %q (%v)", c, err)
		}
	})

	t.Run("Multibyte", func(t *testing.T) {
		c, err := r.Char("cyrillic")
		if err != nil || c != 'Ж' {
			t.Errorf("Expected 'Ж', got %q (%v)", c, err)
		}
	})

	t.Run("Empty uses default", func(t *testing.T) {
		c, err := r.Char("Blank", 'Z')
		if err != nil {
			t.Fatalf("Char failed: %v", err)
		}
		if c != 'Z' {
			t.Errorf("Expected default 'Z', got %q", c)
		}
	})

	t.Run("Null uses default", func(t *testing.T) {
		c, err := r.Char("Missing", 'N')
		if err != nil || c != 'N' {
			t.Errorf("Expected 'N', got %q (%v)", c, err)
		}
		c, err = r.Char("Missing")
		if err != nil || c != 0 {
			t.Errorf("Expected zero rune, got %q (%v)", c, err)
		}
	})

	t.Run("Required empty is positional error", func(t *testing.T) {
		_, err := r.RequiredChar("Blank")
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
		}
	})

	t.Run("Required null", func(t *testing.T) {
		_, err := r.RequiredChar("Missing")
		if !errors.Is(err, ErrUnexpectedNull) {
			t.Errorf("Expected ErrUnexpectedNull, got %v", err)
		}
	})

	t.Run("Type mismatch", func(t *testing.T) {
		_, err := r.Char("Number")
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Expected ErrTypeMismatch, got %v", err)
		}
		_, err = r.NullableChar("Number")
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) || mismatch.Column != "Number" {
			t.Fatalf("Expected single TypeMismatchError for Number, got %v", err)
		}
		if _, ok := mismatch.Err.(*TypeMismatchError); ok {
			t.Error("TypeMismatchError must not be wrapped twice")
		}
	})

	t.Run("Nullable", func(t *testing.T) {
		v, err := r.NullableChar("Missing")
		if err != nil || v.Valid {
			t.Errorf("Expected absent value, got %+v (%v)", v, err)
		}
		v, err = r.NullableChar("Padded")
		if err != nil || !v.Valid || v.V != 'Q' {
			t.Errorf("Expected present 'Q', got %+v (%v)", v, err)
		}
		v, err = r.NullableChar("Blank")
		if err != nil || !v.Valid || v.V != 0 {
			t.Errorf("Expected present zero rune for blank, got %+v (%v)", v, err)
		}
	})
}
