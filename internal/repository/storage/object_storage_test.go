package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptObjectPath(t *testing.T) {
	p := ReceiptObjectPath(3, 42, "display")

	require.True(t, strings.HasPrefix(p, "trips/3/expenses/42/"))
	assert.True(t, strings.HasSuffix(p, "_display.jpg"))
	assert.NotEqual(t, p, ReceiptObjectPath(3, 42, "display"))
}

func TestVariantPath(t *testing.T) {
	p := "trips/3/expenses/42/abc_display.jpg"

	assert.Equal(t, "trips/3/expenses/42/abc_thumb.jpg", VariantPath(p, "display", "thumb"))
	assert.Equal(t, "", VariantPath("trips/3/expenses/42/abc.jpg", "display", "thumb"))
	assert.Equal(t, "", VariantPath("_display.jpg", "display", "thumb"))
}
