package validation

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/foodlog/foodlog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM \u200b"))
	assert.Equal(t, "ana@example.com", NormalizeEmail("\ufeffana@exa\u200dmple.com"))
}

func TestValidateEmailShape(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"ana@example.com", true},
		{"a@b.c", true},
		{"", false},
		{"ana@example", false},
		{"ana example@x.com", false},
		{"@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmailShape(tt.email)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.Error(t, ValidatePassword(string(bytes.Repeat([]byte("a"), 73))))
}

func TestValidateFoodFields(t *testing.T) {
	assert.Error(t, ValidateFoodName("   "))
	assert.NoError(t, ValidateFoodName("Pancakes"))

	meal, err := ValidateMeal("Dinner")
	require.NoError(t, err)
	assert.Equal(t, model.MealDinner, meal)
	_, err = ValidateMeal("dinner")
	assert.Error(t, err)
	_, err = ValidateMeal("")
	assert.Error(t, err)

	date, err := ValidateFoodDate("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2025, date.Year())
	_, err = ValidateFoodDate("01/01/2025")
	assert.Error(t, err)
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateFile(t *testing.T) {
	detected, err := ValidateFile(fileHeader(t, "plate.png", pngMagic), ImageConstraints)
	require.NoError(t, err)
	assert.Equal(t, "image/png", detected)
	assert.Equal(t, "png", ImageExtension(detected))

	_, err = ValidateFile(fileHeader(t, "notes.png", []byte("just text")), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file type")

	_, err = ValidateFile(fileHeader(t, "plate.exe", pngMagic), ImageConstraints)
	assert.ErrorContains(t, err, "invalid file extension")
}
