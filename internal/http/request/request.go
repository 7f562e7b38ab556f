// Package request turns an incoming add/update request into a validated
// form struct, whatever encoding the client used.
//
// The browser client posts multipart/form-data (it may attach an "image"
// file part that the API ignores); scripts tend to send urlencoded or JSON
// bodies. All three are reduced to url.Values, decoded into the target
// struct by its form:"..." tags and validated by its validate:"..." tags,
// so handlers only ever see a complete, typed form or an error.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/school-records-api/internal/utils/response"
)

var (
	// ErrMalformedBody is returned when the body cannot be read or parsed:
	// broken multipart framing, invalid JSON, or a body over the size cap.
	ErrMalformedBody = errors.New("malformed request body")

	// ErrInvalidID is returned by PathID for a non-integer id segment.
	ErrInvalidID = errors.New("invalid id: must be an integer")
)

// Decoder is safe for concurrent use; build one at startup and share it.
type Decoder struct {
	maxBytes int64
	forms    *form.Decoder
	validate *validator.Validate
}

// NewDecoder returns a Decoder that rejects bodies larger than maxBytes.
func NewDecoder(maxBytes int64) *Decoder {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name ("student_age"), not the Go name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Decoder{
		maxBytes: maxBytes,
		forms:    form.NewDecoder(),
		validate: validate,
	}
}

// Decode reads r's body into dst, a pointer to a struct with form tags,
// and validates it.
//
// Errors are either ErrMalformedBody (wrapped) or
// validator.ValidationErrors listing every failing field.
func (d *Decoder) Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	values, err := d.values(w, r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if err := d.forms.Decode(dst, values); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return d.validate.Struct(dst)
}

func (d *Decoder) values(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, d.maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		// File parts land in r.MultipartForm.File and are never read.
		if err := r.ParseMultipartForm(d.maxBytes); err != nil {
			return nil, err
		}
		return r.PostForm, nil

	case "application/json":
		return jsonValues(r.Body)

	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}
}

// jsonValues flattens a JSON object into url.Values. Numbers keep their
// literal text so 7 and "7" decode the same way; nested values are dropped.
func jsonValues(body io.Reader) (url.Values, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		if errors.Is(err, io.EOF) {
			return url.Values{}, nil
		}
		return nil, err
	}

	values := make(url.Values, len(obj))
	for key, raw := range obj {
		switch v := raw.(type) {
		case string:
			values.Set(key, v)
		case json.Number:
			values.Set(key, v.String())
		case bool:
			values.Set(key, strconv.FormatBool(v))
		}
	}

	return values, nil
}

// WriteDecodeError answers a failed Decode with 400 Bad Request, listing
// the failing fields when the body parsed but was incomplete.
func WriteDecodeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
		return
	}
	response.WriteJSON(w, http.StatusBadRequest, response.GeneralError("Invalid request body", err))
}

// PathID parses the {id} route parameter.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
