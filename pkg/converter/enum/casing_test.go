package enum_test

import (
	"testing"

	"github.com/stackvity/enum-converter/pkg/converter/enum"
	"github.com/stretchr/testify/assert"
)

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"HTTP", "Server"}, enum.SplitWords("HTTPServer"))
	assert.Equal(t, []string{"item", "Count"}, enum.SplitWords("itemCount"))
	assert.Equal(t, []string{"Item1"}, enum.SplitWords("Item1"))
	assert.Equal(t, []string{"v2", "Beta"}, enum.SplitWords("v2Beta"))
	assert.Equal(t, []string{"order", "status"}, enum.SplitWords("order_status"))
	assert.Equal(t, []string{"a", "b"}, enum.SplitWords("--a--b--"))
	assert.Empty(t, enum.SplitWords("__"))
}

func TestApplyCasing(t *testing.T) {
	testCases := []struct {
		casing   enum.Casing
		input    string
		expected string
	}{
		{enum.PascalCase, "order_status", "OrderStatus"},
		{enum.PascalCase, "Item1", "Item1"},
		{enum.PascalCase, "RED", "Red"},
		{enum.CamelCase, "OrderStatus", "orderStatus"},
		{enum.SnakeCase, "OrderStatus", "order_status"},
		{enum.SnakeCase, "HTTPServerError", "http_server_error"},
		{enum.ScreamingSnakeCase, "lightBlue", "LIGHT_BLUE"},
		{enum.KebabCase, "OrderStatus", "order-status"},
		{enum.AsIs, "weird_Name", "weird_Name"},
		{enum.PascalCase, "__", "__"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.casing)+"/"+tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, enum.ApplyCasing(tc.casing, tc.input))
		})
	}
}

// TestApplyCasing_Idempotent ensures casing an already cased identifier is stable.
func TestApplyCasing_Idempotent(t *testing.T) {
	for _, c := range []enum.Casing{enum.PascalCase, enum.CamelCase, enum.SnakeCase, enum.ScreamingSnakeCase, enum.KebabCase} {
		once := enum.ApplyCasing(c, "someHTTPValue2")
		assert.Equal(t, once, enum.ApplyCasing(c, once), "casing %s should be idempotent", c)
	}
}
