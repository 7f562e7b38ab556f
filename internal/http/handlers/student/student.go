// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (store, request decoder)
//  2. Returns a function with the exact signature the router needs
//
//	r.Post("/add", student.New(store, dec))
//	//             ^^^^^^^^^^^^^^^^^^^^^^^
//	//             called ONCE at startup; the returned func runs
//	//             on EVERY incoming request.
package student

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/school-records-api/internal/http/request"
	"github.com/aanand-mishra/school-records-api/internal/pagination"
	"github.com/aanand-mishra/school-records-api/internal/storage"
	"github.com/aanand-mishra/school-records-api/internal/types"
	"github.com/aanand-mishra/school-records-api/internal/utils/response"
)

// ListResponse is the body of GET /api/student/list.
type ListResponse struct {
	Students    []types.Student `json:"students"`
	TotalCount  int64           `json:"totalCount"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
}

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /api/student/list?page=2&limit=10
// Returns one page of students plus pagination metadata.
//
// Success response (200 OK):
//
//	{
//	  "students": [ { "student_id": 11, "student_name": "Ann", ... } ],
//	  "totalCount": 23, "currentPage": 2, "totalPages": 3
//	}
//
// "students" is [] (never null) when the page is past the end.
//
// Error responses:
//
//	400 Bad Request     — negative page or limit < 1
//	501 Not Implemented — database error (kept for existing clients)
//
// ─────────────────────────────────────────────────────────────────────────────
func List(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pagination.ParseParams(r.URL.Query())
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid pagination parameters", err))
			return
		}

		slog.Info("listing students",
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit))

		page, err := pagination.Query[types.Student](r.Context(), params, store.ListStudents)
		if err != nil {
			slog.Error("error listing students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusNotImplemented,
				response.GeneralError("Error fetching students", err))
			return
		}

		response.WriteJSON(w, http.StatusOK, ListResponse{
			Students:    page.Rows,
			TotalCount:  page.TotalCount,
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/student/add
// Creates a student from a multipart, urlencoded or JSON body.
//
// Request fields (all required):
//
//	student_name, student_age, parent_id, student_address
//
// An "image" file part may be present; it is accepted and ignored.
//
// Success response (201 Created):
//
//	{ "status": "ok", "message": "Student inserted successfully", "userId": 1 }
//
// Error responses:
//
//	400 Bad Request  — missing field, non-numeric age/parent_id, bad body
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(store storage.Storage, dec *request.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		student, ok := decodeStudent(w, r, dec)
		if !ok {
			return
		}

		id, err := store.CreateStudent(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error inserting student", err))
			return
		}

		slog.Info("student created", slog.Int64("id", id))

		response.WriteJSON(w, http.StatusCreated, response.Created{
			Status:  response.StatusOK,
			Message: "Student inserted successfully",
			UserID:  id,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/student/update/{id}
// Replaces ALL fields of an existing student; same body as New.
//
// Error responses:
//
//	400 Bad Request  — invalid id or body, as for New
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(store storage.Storage, dec *request.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid student id", err))
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		student, ok := decodeStudent(w, r, dec)
		if !ok {
			return
		}

		err = store.UpdateStudentByID(r.Context(), id, student)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError("Student not found", err))
			return
		}
		if err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error updating student", err))
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Student updated successfully"))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/student/delete/{id}
// Permanently removes a student record from the database.
//
// Error responses:
//
//	400 Bad Request  — invalid id
//	404 Not Found    — no student with that id
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid student id", err))
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		err = store.DeleteStudentByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError("Student not found", err))
			return
		}
		if err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error deleting student", err))
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Student deleted successfully"))
	}
}

// decodeStudent reads and validates the request body. On failure it has
// already written the 400 response and returns ok == false.
func decodeStudent(w http.ResponseWriter, r *http.Request, dec *request.Decoder) (types.Student, bool) {
	var form types.StudentForm
	if err := dec.Decode(w, r, &form); err != nil {
		request.WriteDecodeError(w, err)
		return types.Student{}, false
	}

	student, err := form.Student()
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError("Invalid student fields", err))
		return types.Student{}, false
	}

	return student, true
}
