package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/estoque/pkg/validate"
)

type productInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=20"`
	Price    string `json:"price"    validate:"required,numeric,gte=0"`
	Quantity string `json:"quantity" validate:"required,integer,gte=0,lte=1000"`
	Category string `json:"category" validate:"nullable,max=10"`
	Role     string `json:"role"     validate:"nullable,in=viewer|editor"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:     "Mouse",
		Price:    "19.90",
		Quantity: "3",
		Category: "", // nullable
		Role:     "editor",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	for _, field := range []string{"name", "price", "quantity"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["category"]; ok {
		t.Error("nullable category should not be reported")
	}
}

func TestNumericRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mouse", Price: "abc", Quantity: "1"})
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to fail numeric")
	}
}

func TestIntegerRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mouse", Price: "1", Quantity: "2.5"})
	if _, ok := errs["quantity"]; !ok {
		t.Error("expected fractional quantity to fail integer")
	}
}

func TestRangeRulesOnStrings(t *testing.T) {
	if errs := validate.Struct(productInput{Name: "Mouse", Price: "-1", Quantity: "1"}); errs["price"] == "" {
		t.Error("expected negative price to fail gte=0")
	}
	if errs := validate.Struct(productInput{Name: "Mouse", Price: "1", Quantity: "1001"}); errs["quantity"] == "" {
		t.Error("expected quantity above 1000 to fail lte")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Age int `json:"age" validate:"required,gte=18,lte=120"`
	}
	if errs := validate.Struct(in{Age: 15}); !validate.HasErrors(errs) {
		t.Error("expected age < 18 to fail")
	}
	if errs := validate.Struct(in{Age: 25}); validate.HasErrors(errs) {
		t.Errorf("expected age 25 to pass, got: %v", errs)
	}
}

func TestLengthRules(t *testing.T) {
	if errs := validate.Struct(productInput{Name: "M", Price: "1", Quantity: "1"}); errs["name"] == "" {
		t.Error("expected single-char name to fail min=2")
	}
	if errs := validate.Struct(productInput{Name: "Mouse", Price: "1", Quantity: "1", Category: "Periféricos e acessórios"}); errs["category"] == "" {
		t.Error("expected long category to fail max=10")
	}
	// length counts runes, not bytes
	if errs := validate.Struct(productInput{Name: "Ação", Price: "1", Quantity: "1", Category: "Eletrônico"}); validate.HasErrors(errs) {
		t.Errorf("expected accented values to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mouse", Price: "1", Quantity: "1", Role: "admin"})
	if _, ok := errs["role"]; !ok {
		t.Error("expected role outside the list to fail")
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Mouse", Price: "abc", Quantity: "1"})
	if got := errs["price"]; got != "The price field must be a number." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestNonStructIsIgnored(t *testing.T) {
	if errs := validate.Struct("not a struct"); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}
