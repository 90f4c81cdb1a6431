// Package bind reads and decodes HTTP request bodies with size caps.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/estoque/config"
)

// ErrTooLarge is returned when a body exceeds its cap.
var ErrTooLarge = errors.New("request body too large")

// maxBodyBytes returns the configured JSON body size limit (default 4 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

func limitErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxErr.Limit)
	}
	return err
}

// JSON decodes r.Body as JSON into dest. The body is capped at
// MAX_BODY_BYTES. Validation is left to the caller so inputs can be
// normalised first.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if err = limitErr(err); errors.Is(err, ErrTooLarge) {
			return err
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Upload returns the uploaded bytes: the multipart part named field for
// multipart/form-data requests, the raw body otherwise. At most limit bytes
// are accepted.
func Upload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, error) {
	// multipart framing adds a little on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return readCapped(r.Body, limit)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("multipart field %q is missing", field)
		}
		if err != nil {
			return nil, limitErr(err)
		}
		if part.FormName() != field {
			_ = part.Close()
			continue
		}
		defer part.Close()
		return readCapped(part, limit)
	}
}

func readCapped(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, limitErr(err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, limit)
	}
	return data, nil
}
