package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p>Thanks <b>everyone</b></p><script>alert(1)</script>`)
	assert.Equal(t, `<p>Thanks <b>everyone</b></p>`, out)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "New books", SanitizeText(" <i>New books</i> "))
}
