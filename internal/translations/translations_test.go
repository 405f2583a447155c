package translations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_KnownLanguages(t *testing.T) {
	for _, lang := range []string{"en", "ru", "ro"} {
		assert.NotEmpty(t, T(lang, "welcome"), lang)
		assert.NotEmpty(t, T(lang, "btn_help"), lang)
	}
	assert.NotEqual(t, T("en", "welcome"), T("ru", "welcome"))
}

func TestT_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, T("en", "btn_help"), T("zz", "btn_help"))
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	assert.Equal(t, "no_such_key", T("en", "no_such_key"))
	assert.Equal(t, "no_such_key", T("zz", "no_such_key"))
}

func TestT_FormatsArgs(t *testing.T) {
	assert.Contains(t, T("en", "my_products_count", 3), "3")
	assert.Contains(t, T("en", "product_saved", "Lamp"), "Lamp")
}

func TestT_AllLanguagesShareKeys(t *testing.T) {
	for lang, table := range tables {
		if lang == "en" {
			continue
		}
		for key := range tables["en"] {
			assert.Contains(t, table, key, "missing %q in %q", key, lang)
		}
	}
}
