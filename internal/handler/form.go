package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foodlog/foodlog/internal/service"
	"github.com/foodlog/foodlog/internal/validation"
)

const maxFormMemory = 10 << 20

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// formImage returns the validated image of an optional file field, or nil
// when no file was chosen. The caller must call done once the upload finished.
func formImage(r *http.Request, field string) (img *service.Image, done func(), err error) {
	done = func() {}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, done, nil
	}
	if err != nil {
		return nil, done, err
	}

	closeFile := func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}

	if header.Size == 0 {
		closeFile()
		return nil, done, nil
	}

	contentType, err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		closeFile()
		return nil, done, err
	}

	return &service.Image{File: file, ContentType: contentType}, closeFile, nil
}

// errorMessage shows validation failures as is and hides everything else.
func errorMessage(err error, fallback string) string {
	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Error()
	}
	return fallback
}
