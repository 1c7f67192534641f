package controllers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

func TestPlainText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Recolección el lunes ", "Recolección el lunes"},
		{"tags", "<b>Hola</b> mundo", "Hola mundo"},
		{"script", "Basura sin recoger <script>alert(1)</script>", "Basura sin recoger"},
		{"entity encoded tag", "&lt;img src=x onerror=alert(1)&gt;", ""},
		{"entity encoded tag with text", "Calle 5 &lt;b&gt;urgente&lt;/b&gt;", "Calle 5 urgente"},
		{"double encoded tag", "a &amp;lt;script&amp;gt;x&amp;lt;/script&amp;gt; b", "a  b"},
		{"ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"comparison", "5 < 6 y 7 > 3", "5 < 6 y 7 > 3"},
		{"apostrophe", "l'escuela", "l'escuela"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := plainText(tc.in)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "<script")
			assert.NotContains(t, got, "<img")
		})
	}
}

func TestPlainTextDiscardsDeepEncoding(t *testing.T) {
	in := "<b>x</b>"
	for i := 0; i < maxDecodePasses+1; i++ {
		in = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(in)
	}
	assert.Empty(t, plainText(in))
}

func TestCleanText(t *testing.T) {
	out, err := cleanText("detalle", "<i>Contenedor</i> lleno", 200)
	require.NoError(t, err)
	assert.Equal(t, "Contenedor lleno", out)

	_, err = cleanText("detalle", "&lt;p&gt;&lt;/p&gt;", 200)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = cleanText("name", strings.Repeat("a", 11), 10)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
