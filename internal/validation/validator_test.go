package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	v := New()

	assert.False(t, v.Required("name", ""))
	assert.False(t, v.Required("brand", nil))
	assert.True(t, v.Required("name", "watch"))
	// numeric zero counts as present
	assert.True(t, v.Required("shipping_cost", 0))
	assert.True(t, v.Required("quantity", 0.0))

	assert.False(t, v.Valid())
	assert.Equal(t, "Name is required", v.Errors()["name"])
	assert.Equal(t, "Brand is required", v.Errors()["brand"])
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		check func(v *Validator) bool
		field string
		msg   string
	}{
		{"email bad", func(v *Validator) bool { return v.Email("email", "not-an-email") }, "email", "Invalid email format"},
		{"email empty ok", func(v *Validator) bool { return v.Email("email", "") }, "", ""},
		{"email ok", func(v *Validator) bool { return v.Email("email", "a@b.com") }, "", ""},
		{"min length", func(v *Validator) bool { return v.MinLength("address", "short", 10) }, "address", "Address must be at least 10 characters"},
		{"max length", func(v *Validator) bool { return v.MaxLength("name", "abcdef", 3) }, "name", "Name must not exceed 3 characters"},
		{"positive zero", func(v *Validator) bool { return v.Positive("price", 0, "") }, "price", "Price must be a positive number"},
		{"positive custom msg", func(v *Validator) bool { return v.Positive("total_price", -1, "Total price must be positive") }, "total_price", "Total price must be positive"},
		{"min value", func(v *Validator) bool { return v.Min("shipping_cost", -0.5, 0, "Shipping cost cannot be negative") }, "shipping_cost", "Shipping cost cannot be negative"},
		{"max value", func(v *Validator) bool { return v.Max("discount", 120, 100, "") }, "discount", "Discount must not exceed 100"},
		{"enum member", func(v *Validator) bool { return v.In("status", "pending", []string{"pending", "shipped"}, "") }, "", ""},
		{"enum miss", func(v *Validator) bool { return v.In("status", "unknown", []string{"pending", "shipped"}, "Invalid order status") }, "status", "Invalid order status"},
		{"url bad", func(v *Validator) bool { return v.URL("image_url", "not a url", "") }, "image_url", "Invalid URL format"},
		{"url ok", func(v *Validator) bool { return v.URL("image_url", "https://cdn.example.com/a.png", "") }, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			ok := tt.check(v)
			if tt.field == "" {
				assert.True(t, ok)
				assert.True(t, v.Valid())
				return
			}
			assert.False(t, ok)
			assert.Equal(t, tt.msg, v.Errors()[tt.field])
		})
	}
}

func TestLastMessagePerFieldWins(t *testing.T) {
	v := New()

	v.MinLength("name", "a", 2)
	v.MaxLength("name", "a", 0)

	assert.Len(t, v.Errors(), 1)
	assert.Equal(t, "Name must not exceed 0 characters", v.Errors()["name"])
}

func TestClearAllowsReuse(t *testing.T) {
	v := New()

	v.Required("name", "")
	assert.False(t, v.Valid())
	assert.NotEmpty(t, v.FirstError())

	v.Clear()
	assert.True(t, v.Valid())
	assert.Empty(t, v.Errors())
	assert.Empty(t, v.FirstError())

	// reuse for an independent entity
	v.Required("email", "x@y.com")
	assert.True(t, v.Valid())
}
