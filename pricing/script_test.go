package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScript(t *testing.T) {
	vars := map[string]string{
		"customer_name": "Dana",
		"company_name":  "Acme Outdoors",
		"price_2yr":     "150",
	}

	t.Run("SubstitutesKnownVariables", func(t *testing.T) {
		out := RenderScript("Hi {{customer_name}}, this is {{company_name}}. The plan is ${{price_2yr}}.", vars)
		assert.Equal(t, "Hi Dana, this is Acme Outdoors. The plan is $150.", out)
	})

	t.Run("CaseInsensitiveNames", func(t *testing.T) {
		out := RenderScript("Hi {{Customer_Name}} from {{COMPANY_NAME}}", vars)
		assert.Equal(t, "Hi Dana from Acme Outdoors", out)
	})

	t.Run("WhitespaceInsidePlaceholder", func(t *testing.T) {
		out := RenderScript("Hi {{ customer_name }}", vars)
		assert.Equal(t, "Hi Dana", out)
	})

	t.Run("UnknownPlaceholderLeftVerbatim", func(t *testing.T) {
		out := RenderScript("Hi {{customer_name}}, your {{mystery_var}} awaits", vars)
		assert.Equal(t, "Hi Dana, your {{mystery_var}} awaits", out)
	})

	t.Run("RepeatedPlaceholders", func(t *testing.T) {
		out := RenderScript("{{price_2yr}} now, {{price_2yr}} later", vars)
		assert.Equal(t, "150 now, 150 later", out)
	})

	t.Run("NoVariables", func(t *testing.T) {
		tpl := "Plain text with {{anything}}"
		assert.Equal(t, tpl, RenderScript(tpl, nil))
	})
}

func TestScrubStaleBrands(t *testing.T) {
	t.Run("ReplacesStaleBrand", func(t *testing.T) {
		out := ScrubStaleBrands("Thanks for shopping with Old Shop Co!", []string{"Old Shop Co"}, "Acme Outdoors")
		assert.Equal(t, "Thanks for shopping with Acme Outdoors!", out)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		out := ScrubStaleBrands("welcome to OLD SHOP CO", []string{"Old Shop Co"}, "Acme Outdoors")
		assert.Equal(t, "welcome to Acme Outdoors", out)
	})

	t.Run("MultipleStaleTokens", func(t *testing.T) {
		out := ScrubStaleBrands("Old Shop Co and LegacyBrand together", []string{"Old Shop Co", "LegacyBrand"}, "Acme Outdoors")
		assert.Equal(t, "Acme Outdoors and Acme Outdoors together", out)
	})

	t.Run("OwnNameNeverScrubbed", func(t *testing.T) {
		out := ScrubStaleBrands("Acme Outdoors forever", []string{"acme outdoors"}, "Acme Outdoors")
		assert.Equal(t, "Acme Outdoors forever", out)
	})

	t.Run("EmptyStaleList", func(t *testing.T) {
		out := ScrubStaleBrands("untouched", nil, "Acme Outdoors")
		assert.Equal(t, "untouched", out)
	})
}
