package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bookPayload is the canonical book request body. Clients send it as a
// JSON-encoded string in the "book" part when an image file is attached, and
// as the plain JSON body otherwise; decodeBookRequest normalizes both shapes
// before any workflow logic runs. Identity, ratings and average are never
// read from the client: the struct simply carries no fields for them.
type bookPayload struct {
	Title  string `json:"title" validate:"required,min=1,max=200"`
	Author string `json:"author" validate:"required,min=1,max=200"`
	Year   int    `json:"year" validate:"gte=0"`
	Genre  string `json:"genre" validate:"required,min=1,max=200"`
	// Optional initial grade on create; ignored unless in (0,5].
	Rating int `json:"rating"`
}

func (p *bookPayload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	if y := time.Now().Year(); p.Year > y {
		return fmt.Errorf("year must not be after %d", y)
	}
	return nil
}

// decodeBookRequest returns the canonical payload plus the uploaded image
// file when one was attached. The caller closes the returned file.
func decodeBookRequest(r *http.Request) (*bookPayload, multipart.File, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "multipart/form-data" {
		var p bookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return nil, nil, errors.New("invalid json")
		}
		return &p, nil, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, errors.New("failed to parse multipart form")
	}
	raw := r.FormValue("book")
	if raw == "" {
		return nil, nil, errors.New("missing book field")
	}
	var p bookPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil, errors.New("invalid book JSON")
	}
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return &p, nil, nil
	}
	if err != nil {
		return nil, nil, errors.New("invalid image part")
	}
	return &p, file, nil
}
