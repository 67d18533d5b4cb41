package validation

import (
	"bytes"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "travel-cms/pkg/errors"
)

type sample struct {
	Title null.String  `validate:"omitempty,not_blank"`
	Date  null.String  `validate:"omitempty,iso_date"`
	Price null.Float64 `validate:"omitempty,gte=0"`
	Email string       `validate:"required,custom_email"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	valid := sample{
		Title: null.StringFrom("Trek"),
		Date:  null.StringFrom("2024-05-01"),
		Price: null.Float64From(10),
		Email: "admin@example.com",
	}
	assert.NoError(t, v.Validate(valid))

	assert.NoError(t, v.Validate(sample{Email: "admin@example.com"}), "пустые null-поля пропускаются")

	cases := map[string]sample{
		"blank title": {Title: null.StringFrom("   "), Email: "admin@example.com"},
		"bad date":    {Date: null.StringFrom("01.05.2024"), Email: "admin@example.com"},
		"neg price":   {Price: null.Float64From(-1), Email: "admin@example.com"},
		"bad email":   {Email: "admin@"},
	}
	for name, c := range cases {
		assert.Error(t, v.Validate(c), name)
	}
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(w, h, color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	data := pngImage(t, 300, 240)
	r := bytes.NewReader(data)
	require.NoError(t, ValidateFile("image", int64(len(data)), r, "gallery"))

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos, "курсор возвращается в начало")
}

func TestValidateFile_Rejects(t *testing.T) {
	small := pngImage(t, 100, 300)
	text := []byte(strings.Repeat("plain text ", 20))

	cases := map[string]struct {
		size int64
		data []byte
	}{
		"too small": {int64(len(small)), small},
		"not image": {int64(len(text)), text},
		"too large": {21 * 1024 * 1024, small},
	}
	for name, c := range cases {
		err := ValidateFile("images1", c.size, bytes.NewReader(c.data), "article")
		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr, name)
		assert.Equal(t, []string{"images1"}, vErr.Fields, name)
	}

	assert.Error(t, ValidateFile("image", 10, bytes.NewReader(small), "unknown"))
}
