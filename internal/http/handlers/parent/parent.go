// Package parent contains the HTTP handlers for the Parent resource.
//
// Handlers are factories: each receives its dependencies once at startup
// and returns the http.HandlerFunc the router calls on every request.
// The student package has exactly the same shape.
package parent

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

// ListResponse is the body of GET /api/parent/list.
type ListResponse struct {
	Parents     []types.Parent `json:"parents"`
	TotalCount  int64          `json:"totalCount"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}

// List handles GET /api/parent/list?page=&limit=
//
//	200 OK              — { parents, totalCount, currentPage, totalPages }
//	400 Bad Request     — negative page or limit < 1
//	501 Not Implemented — database error (the status existing clients expect)
func List(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := pagination.ParseParams(r.URL.Query())
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid pagination parameters", err))
			return
		}

		slog.Info("listing parents",
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit))

		page, err := pagination.Query[types.Parent](r.Context(), params, store.ListParents)
		if err != nil {
			slog.Error("error listing parents", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusNotImplemented,
				response.GeneralError("Error fetching parents", err))
			return
		}

		response.WriteJSON(w, http.StatusOK, ListResponse{
			Parents:     page.Rows,
			TotalCount:  page.TotalCount,
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages,
		})
	}
}

// New handles POST /api/parent/add
//
//	201 Created     — { message, userId }
//	400 Bad Request — parent_name missing or unreadable body
//	500 Internal    — database error
func New(store storage.Storage, dec *request.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a parent")

		var form types.ParentForm
		if err := dec.Decode(w, r, &form); err != nil {
			request.WriteDecodeError(w, err)
			return
		}

		id, err := store.CreateParent(r.Context(), form.Parent())
		if err != nil {
			slog.Error("error creating parent", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error inserting parent", err))
			return
		}

		slog.Info("parent created", slog.Int64("id", id))

		response.WriteJSON(w, http.StatusCreated, response.Created{
			Status:  response.StatusOK,
			Message: "Parent inserted successfully",
			UserID:  id,
		})
	}
}

// Update handles PUT /api/parent/update/{id}
//
//	200 OK          — { message }
//	400 Bad Request — bad id, parent_name missing or unreadable body
//	404 Not Found   — no parent with that id
//	500 Internal    — database error
func Update(store storage.Storage, dec *request.Decoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid parent id", err))
			return
		}
		slog.Info("updating a parent", slog.Int64("id", id))

		var form types.ParentForm
		if err := dec.Decode(w, r, &form); err != nil {
			request.WriteDecodeError(w, err)
			return
		}

		err = store.UpdateParentByID(r.Context(), id, form.Parent())
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError("Parent not found", err))
			return
		}
		if err != nil {
			slog.Error("error updating parent",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error updating parent", err))
			return
		}

		slog.Info("parent updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Parent updated successfully"))
	}
}

// Delete handles DELETE /api/parent/delete/{id}
//
//	200 OK          — { message }
//	400 Bad Request — bad id
//	404 Not Found   — no parent with that id
//	500 Internal    — database error
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError("Invalid parent id", err))
			return
		}
		slog.Info("deleting a parent", slog.Int64("id", id))

		err = store.DeleteParentByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError("Parent not found", err))
			return
		}
		if err != nil {
			slog.Error("error deleting parent",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError("Error deleting parent", err))
			return
		}

		slog.Info("parent deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message("Parent deleted successfully"))
	}
}
