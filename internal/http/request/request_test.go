package request

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/school-records-api/internal/types"
)

const testMaxBytes = 1 << 20

func multipartRequest(t *testing.T, method string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDecode_Multipart(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, map[string]string{
		"student_name":    "Ann",
		"student_age":     "7",
		"parent_id":       "1",
		"student_address": "Oak St",
	}, true)

	var f types.StudentForm
	err := NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f)
	require.NoError(t, err)

	assert.Equal(t, types.StudentForm{Name: "Ann", Age: "7", ParentID: "1", Address: "Oak St"}, f)
}

func TestDecode_URLEncoded(t *testing.T) {
	body := url.Values{"parent_name": {"Maria"}}.Encode()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var f types.ParentForm
	require.NoError(t, NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f))
	assert.Equal(t, "Maria", f.Name)
}

func TestDecode_JSONNumbers(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"student_name":"Ann","student_age":7,"parent_id":"1","student_address":"Oak St","extra":{"x":1}}`,
	))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var f types.StudentForm
	require.NoError(t, NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f))
	assert.Equal(t, "7", f.Age)
	assert.Equal(t, "1", f.ParentID)
}

func TestDecode_MissingFields(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, map[string]string{
		"student_name": "Ann",
		"student_age":  "seven",
	}, false)

	var f types.StudentForm
	err := NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]string)
	for _, e := range verrs {
		fields[e.Field()] = e.ActualTag()
	}
	assert.Equal(t, map[string]string{
		"student_age":     "number",
		"parent_id":       "required",
		"student_address": "required",
	}, fields)
}

func TestDecode_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var f types.ParentForm
	err := NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDecode_Malformed(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"parent_name":`))
		req.Header.Set("Content-Type", "application/json")

		var f types.ParentForm
		err := NewDecoder(testMaxBytes).Decode(httptest.NewRecorder(), req, &f)
		assert.ErrorIs(t, err, ErrMalformedBody)
	})

	t.Run("body over limit", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, map[string]string{
			"parent_name": strings.Repeat("x", 4096),
		}, false)

		var f types.ParentForm
		err := NewDecoder(512).Decode(httptest.NewRecorder(), req, &f)
		assert.ErrorIs(t, err, ErrMalformedBody)
	})
}

func TestPathID(t *testing.T) {
	withID := func(id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := PathID(withID("42"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathID(withID("abc"))
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestWriteDecodeError(t *testing.T) {
	dec := NewDecoder(testMaxBytes)

	t.Run("validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		var f types.ParentForm
		err := dec.Decode(httptest.NewRecorder(), req, &f)

		rec := httptest.NewRecorder()
		WriteDecodeError(rec, err)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"status":"error","message":"Missing required fields","error":"field parent_name is required"}`,
			rec.Body.String())
	})

	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteDecodeError(rec, ErrMalformedBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid request body")
	})
}
