package http

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("Disabled_ReturnsNil", func(t *testing.T) {
		middleware := createCORSMiddleware(false, "https://testbed.named-data.net", logger)
		assert.Nil(t, middleware)
	})

	t.Run("EnabledWithoutOrigins_ReturnsNil", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "", logger)
		assert.Nil(t, middleware)
	})

	t.Run("EnabledWithOrigins_ReturnsMiddleware", func(t *testing.T) {
		middleware := createCORSMiddleware(
			true, "https://testbed.named-data.net, https://ndncert.named-data.net", logger)
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	t.Run("ParsesCommaSeparated", func(t *testing.T) {
		origins := parseOrigins("https://a.example, https://b.example ,https://c.example")
		assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, origins)
	})

	t.Run("Empty_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})

	t.Run("OnlyWhitespace_ReturnsEmpty", func(t *testing.T) {
		assert.Empty(t, parseOrigins("  ,  "))
	})
}
