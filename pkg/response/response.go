package response

import (
	"encoding/json"
	"net/http"

	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with payload.
func Success(w http.ResponseWriter, payload interface{}) {
	write(w, http.StatusOK, envelope{Status: "success", Payload: payload})
}

// Message sends a 200 JSON response carrying only a human-readable message.
func Message(w http.ResponseWriter, msg string) {
	write(w, http.StatusOK, envelope{Status: "success", Message: msg})
}

// Created sends a 201 JSON response with payload.
func Created(w http.ResponseWriter, payload interface{}) {
	write(w, http.StatusCreated, envelope{Status: "success", Payload: payload})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: "error", Error: message})
}

// NotFound sends a 404 with the given message.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// BadRequest sends a 400 with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// PaginatedEnvelope is the listing response shape: the payload plus the page
// metadata and navigation links, flattened at the top level.
type PaginatedEnvelope struct {
	Status      string      `json:"status"`
	Payload     interface{} `json:"payload"`
	TotalPages  int         `json:"totalPages"`
	PrevPage    *int        `json:"prevPage"`
	NextPage    *int        `json:"nextPage"`
	Page        int         `json:"page"`
	HasPrevPage bool        `json:"hasPrevPage"`
	HasNextPage bool        `json:"hasNextPage"`
	PrevLink    *string     `json:"prevLink"`
	NextLink    *string     `json:"nextLink"`
}

// Paginated sends a 200 response with payload, page metadata and links.
func Paginated(w http.ResponseWriter, payload interface{}, m paginate.Meta, prevLink, nextLink *string) {
	write(w, http.StatusOK, PaginatedEnvelope{
		Status:      "success",
		Payload:     payload,
		TotalPages:  m.TotalPages,
		PrevPage:    m.Prev,
		NextPage:    m.Next,
		Page:        m.Page,
		HasPrevPage: m.HasPrev,
		HasNextPage: m.HasNext,
		PrevLink:    prevLink,
		NextLink:    nextLink,
	})
}
