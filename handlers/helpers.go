package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fieldhouse-sports/scheduler-core/repositories"
	"github.com/fieldhouse-sports/scheduler-core/schederr"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message interface{}) {
	_ = writeJSON(w, status, jsonResponse{"error": message}, nil)
}

func serverErrorResponse(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Error("internal server error", zap.Error(err))
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusConflict, message)
}

func forbiddenResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusForbidden, message)
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnauthorized, message)
}

// mapServiceErrorToHTTP maps the scheduler's schederr taxonomy and the
// repositories not-found sentinels to HTTP status codes, the way the
// teacher's handlers/helpers.go mapped its own services sentinel
// errors.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	var configErr *schederr.ConfigError
	var infeasibleErr *schederr.InfeasibleError
	var windowErr *schederr.WindowExceededError
	var concurrencyErr *schederr.ConcurrencyError

	switch {
	case errors.As(err, &configErr):
		badRequestResponse(w, err)
	case errors.As(err, &infeasibleErr):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &windowErr):
		errorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &concurrencyErr):
		conflictResponse(w, err.Error())
	case errors.Is(err, repositories.ErrEventNotFound),
		errors.Is(err, repositories.ErrTeamNotFound),
		errors.Is(err, repositories.ErrFieldNotFound):
		notFoundResponse(w)
	default:
		errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
	}
}

func getURLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func getIntURLParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
