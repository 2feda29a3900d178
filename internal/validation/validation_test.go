package validation

import (
	"errors"
	"reflect"
	"testing"

	"hannas-kitchen/internal/models"
)

func TestValidateItemForm(t *testing.T) {
	tests := []struct {
		name      string
		form      ItemForm
		wantErr   bool
		wantField string
	}{
		{
			name: "valid form",
			form: ItemForm{Name: "Black Forest", Price: "450", Category: "Cake", Tags: "chocolate, cream"},
		},
		{
			name: "veg accepted by catalog",
			form: ItemForm{Name: "Paneer Tikka", Price: "220", Category: "Veg"},
		},
		{
			name:      "missing name",
			form:      ItemForm{Price: "450", Category: "Cake"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "blank name",
			form:      ItemForm{Name: "   ", Price: "450", Category: "Cake"},
			wantErr:   true,
			wantField: "name",
		},
		{
			name:      "missing price",
			form:      ItemForm{Name: "Black Forest", Category: "Cake"},
			wantErr:   true,
			wantField: "price",
		},
		{
			name:      "price not a number",
			form:      ItemForm{Name: "Black Forest", Price: "cheap", Category: "Cake"},
			wantErr:   true,
			wantField: "price",
		},
		{
			name:      "unknown category",
			form:      ItemForm{Name: "Black Forest", Price: "450", Category: "Dessert"},
			wantErr:   true,
			wantField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateItemForm(tt.form)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateItemForm() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateItemForm_Converts(t *testing.T) {
	item, err := ValidateItemForm(ItemForm{Name: "Momos", Price: "120.5", Category: "Non-Veg", Tags: "spicy, veg , new"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Price != 120.5 {
		t.Errorf("Price = %v, want 120.5", item.Price)
	}
	if item.Category != models.CategoryNonVeg {
		t.Errorf("Category = %q", item.Category)
	}
	if !reflect.DeepEqual(item.Tags, []string{"spicy", "veg", "new"}) {
		t.Errorf("Tags = %#v", item.Tags)
	}
}

func TestValidateOrderAgainstCatalog(t *testing.T) {
	catalog := map[string]models.MenuItem{
		"a": {ID: "a", Price: 100},
		"b": {ID: "b", Price: 50},
	}

	tests := []struct {
		name    string
		order   models.Order
		wantErr bool
	}{
		{
			name: "matching total",
			order: models.Order{
				Items:       []models.OrderLine{{ItemID: "a", Quantity: 2}, {ItemID: "b", Quantity: 1}},
				TotalAmount: 250,
			},
		},
		{
			name: "stale total",
			order: models.Order{
				Items:       []models.OrderLine{{ItemID: "a", Quantity: 2}},
				TotalAmount: 150,
			},
			wantErr: true,
		},
		{
			name: "unknown reference",
			order: models.Order{
				Items:       []models.OrderLine{{ItemID: "z", Quantity: 1}},
				TotalAmount: 0,
			},
			wantErr: true,
		},
		{
			name:    "empty order",
			order:   models.Order{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrderAgainstCatalog(tt.order, catalog)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrderAgainstCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}
