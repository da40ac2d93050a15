package service_test

import (
	"strings"
	"testing"

	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSlugGenerator_Generate проверяет форму сгенерированного слага
func TestSlugGenerator_Generate(t *testing.T) {
	gen := service.NewSlugGenerator()

	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	for i := 0; i < 100; i++ {
		slug, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, slug, 7)
		for _, r := range slug {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
	}
}

// TestValidCustomSlug проверяет допустимые формы пользовательского слага
func TestValidCustomSlug(t *testing.T) {
	valid := []string{"abc123", "a", "my-slug", "my_slug", "ABC"}
	for _, slug := range valid {
		assert.True(t, service.ValidCustomSlug(slug), "slug %q", slug)
	}

	invalid := []string{"", "with space", "with/slash", "p@ge", strings.Repeat("a", 33)}
	for _, slug := range invalid {
		assert.False(t, service.ValidCustomSlug(slug), "slug %q", slug)
	}
}
