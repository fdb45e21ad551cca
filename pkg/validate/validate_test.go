package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/tienda/pkg/validate"
)

type productInput struct {
	Title    string   `json:"title" validate:"required"`
	Code     string   `json:"code" validate:"required,min=3,max=20"`
	Price    *float64 `json:"price" validate:"required,gt=0"`
	Stock    *int     `json:"stock" validate:"required,gte=0"`
	Category string   `json:"category" validate:"required,in=periféricos|pantallas|audio"`
}

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(74.99),
		Stock:    iptr(0),
		Category: "periféricos",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"title", "code", "price", "stock", "category"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestPointerZeroVersusMissing(t *testing.T) {
	// Stock 0 is present and valid; a nil stock is missing.
	errs := validate.Struct(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(10),
		Stock:    iptr(0),
		Category: "audio",
	})
	if _, ok := errs["stock"]; ok {
		t.Errorf("stock 0 should be valid, got: %v", errs["stock"])
	}

	errs = validate.Struct(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(10),
		Category: "audio",
	})
	if _, ok := errs["stock"]; !ok {
		t.Error("nil stock should fail required")
	}
}

func TestGtRejectsZero(t *testing.T) {
	errs := validate.Struct(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(0),
		Stock:    iptr(1),
		Category: "audio",
	})
	if errs["price"] != "The price must be greater than 0." {
		t.Errorf("unexpected price error: %q", errs["price"])
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(10),
		Stock:    iptr(1),
		Category: "otra",
	})
	if _, ok := errs["category"]; !ok {
		t.Error("expected category in-rule error")
	}
}

func TestFirstReturnsDeclarationOrder(t *testing.T) {
	fe := validate.First(productInput{Code: "TEC-001"})
	if fe == nil {
		t.Fatal("expected a violation")
	}
	if fe.Field != "title" {
		t.Errorf("expected title first, got %s", fe.Field)
	}
}

func TestFirstNilWhenValid(t *testing.T) {
	fe := validate.First(productInput{
		Title:    "Teclado",
		Code:     "TEC-001",
		Price:    f64(10),
		Stock:    iptr(1),
		Category: "audio",
	})
	if fe != nil {
		t.Errorf("expected nil, got %v", fe)
	}
}

func TestMinMaxOnStrings(t *testing.T) {
	type in struct {
		Code string `json:"code" validate:"required,min=3,max=5"`
	}
	if errs := validate.Struct(in{Code: "ab"}); errs["code"] == "" {
		t.Error("expected min length error")
	}
	if errs := validate.Struct(in{Code: "abcdef"}); errs["code"] == "" {
		t.Error("expected max length error")
	}
	if errs := validate.Struct(in{Code: "abcd"}); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}
