package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/estoque/pkg/validate"
)

// FormValue is a numeric form input that accepts either a JSON number or a
// JSON string, the way HTML inputs submit them.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a number or string, got %s", data)
	}
	*v = FormValue(n.String())
	return nil
}

// normalized trims the value and accepts a decimal comma ("250,50").
func (v FormValue) normalized() FormValue {
	s := strings.TrimSpace(string(v))
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return FormValue(s)
}

// ProductForm holds raw product input from the API, GraphQL or the CLI.
type ProductForm struct {
	Name      string    `json:"name"      validate:"required,max=255"`
	UnitPrice FormValue `json:"unitPrice" validate:"required,numeric,gte=0"`
	Quantity  FormValue `json:"quantity"  validate:"required,integer,gte=0"`
	Category  string    `json:"category"  validate:"nullable,max=100"`
}

// Parse validates the raw input and converts it into ProductFields.
// Anything that is not a finite, non-negative number is rejected rather
// than coerced.
func (f ProductForm) Parse() (ProductFields, error) {
	f.UnitPrice = f.UnitPrice.normalized()
	f.Quantity = f.Quantity.normalized()

	if errs := validate.Struct(f); validate.HasErrors(errs) {
		return ProductFields{}, &ValidationError{Fields: errs}
	}

	price, err := strconv.ParseFloat(string(f.UnitPrice), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return ProductFields{}, &ValidationError{Fields: map[string]string{
			"unitPrice": "The unitPrice field must be a number.",
		}}
	}

	qty, err := strconv.ParseInt(string(f.Quantity), 10, 64)
	if err != nil {
		return ProductFields{}, &ValidationError{Fields: map[string]string{
			"quantity": "The quantity field must be an integer.",
		}}
	}

	fields := ProductFields{
		Name:      f.Name,
		UnitPrice: price,
		Quantity:  qty,
		Category:  f.Category,
	}.Normalize()
	return fields, fields.Validate()
}
