package http

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/service"
	apperrors "github.com/awaisahmed1123/hadeedcart-backend/pkg/errors"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files.
const multipartMemory = 8 << 20

// parseMultipart reads a multipart (or urlencoded) write of at most maxBytes
// and returns its text fields and attached files. Files of one field keep
// their request order.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (url.Values, []service.Attachment, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return r.PostForm, nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, apperrors.InvalidInput(fmt.Sprintf("request body exceeds %d MB", maxBytes>>20))
		}
		return nil, nil, apperrors.InvalidInput("failed to parse multipart form: " + err.Error())
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var attachments []service.Attachment
	for _, field := range slices.Sorted(maps.Keys(r.MultipartForm.File)) {
		for _, fh := range r.MultipartForm.File[field] {
			a, err := readAttachment(field, fh)
			if err != nil {
				return nil, nil, err
			}
			attachments = append(attachments, a)
		}
	}
	return url.Values(r.MultipartForm.Value), attachments, nil
}

func readAttachment(field string, fh *multipart.FileHeader) (service.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Attachment{}, apperrors.InvalidInput(fmt.Sprintf("cannot open %s: %v", field, err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Attachment{}, apperrors.InvalidInput(fmt.Sprintf("cannot read %s: %v", field, err))
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return service.Attachment{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// singleAttachment returns the attachment named field, rejecting any other
// file in the request.
func singleAttachment(attachments []service.Attachment, field string) (*service.Attachment, error) {
	var found *service.Attachment
	for i := range attachments {
		a := &attachments[i]
		if a.Field != field {
			return nil, apperrors.InvalidInput(fmt.Sprintf("unexpected file field %q", a.Field))
		}
		if found != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("only one %s file is allowed", field))
		}
		found = a
	}
	return found, nil
}
