package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/aTrapDeer/portfolio-backend/internal/auth"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
	"github.com/aTrapDeer/portfolio-backend/internal/uploads"
)

const maxBodyBytes = 1 << 20

// httpError carries a status and the message shown to the client.
type httpError struct {
	status  int
	message string
}

func (e *httpError) Error() string { return e.message }

func errorf(status int, message string) error {
	return &httpError{status: status, message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encoding response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps an error to its status. Anything unrecognised is logged
// and reported as a 500 without detail.
func writeError(w http.ResponseWriter, err error) {
	var (
		herr *httpError
		verr *models.ValidationError
		uerr *uploads.Error
	)
	switch {
	case errors.As(err, &herr):
		writeMessage(w, herr.status, herr.message)
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &uerr):
		writeMessage(w, http.StatusBadRequest, uerr.Message)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, storage.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	default:
		log.Printf("api: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads a JSON body of at most 1 MiB into dst. Syntax and type
// errors become "Invalid <noun> data".
func decode(w http.ResponseWriter, r *http.Request, noun string, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return errorf(http.StatusRequestEntityTooLarge, "Request body too large")
		}
		return models.Invalid(noun)
	}
	return nil
}

func parseID(r *http.Request, noun string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errorf(http.StatusBadRequest, "Invalid "+noun+" id")
	}
	return uint(id), nil
}
