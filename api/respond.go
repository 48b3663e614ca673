package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-blog/errs"
	"github.com/rpupo63/portfolio-blog/services"
)

const genericErrorMessage = "Something went wrong. Try again."

type Responder struct {
	logger   zerolog.Logger
	notifier services.Notifier
}

func NewResponder(logger zerolog.Logger, notifier services.Notifier) Responder {
	return Responder{logger: logger, notifier: notifier}
}

// WriteJSON writes data with a 200 status.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, data)
}

func (r Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// SendErrorNotification forwards an unexpected error to the site owner.
func (r Responder) SendErrorNotification(ctx context.Context, errMsg string) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, "INTERNAL ERROR", errMsg); err != nil {
		r.logger.Error().Err(err).Msg("Error sending error notification")
	}
}

// reportUnexpected logs errors that are not *errs.ApiErr and notifies the
// owner about them. It reports whether err was unexpected.
func (r Responder) reportUnexpected(ctx context.Context, err error) bool {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			r.logger.Error().Msg(apiErr.GetFullError())
		}
		return false
	}
	r.logger.Error().Msg(err.Error())
	r.SendErrorNotification(ctx, err.Error())
	return true
}

func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	if r.reportUnexpected(req.Context(), err) {
		r.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Status:  "error",
			Details: "An unexpected error occurred",
		})
		return
	}

	var apiErr *errs.ApiErr
	errors.As(err, &apiErr)

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}
	if apiErr.StatusCode < http.StatusInternalServerError && apiErr.Cause != nil {
		response.Cause = apiErr.GetFullError()
	}
	r.writeJSON(w, apiErr.StatusCode, response)
}

// RenderHTML executes a page template into a buffer first so a template
// failure still yields a clean 500.
func (r Responder) RenderHTML(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := renderPage(&buf, page, data); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("error rendering template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// RenderError shows the error page with the status carried by err.
func (r Responder) RenderError(w http.ResponseWriter, req *http.Request, err error) {
	status := errs.StatusCode(err)
	message := genericErrorMessage

	if !r.reportUnexpected(req.Context(), err) {
		var apiErr *errs.ApiErr
		errors.As(err, &apiErr)
		switch {
		case errs.IsNotFound(err):
			message = "The page you are looking for does not exist."
		case status < http.StatusInternalServerError:
			message = apiErr.UserMessage()
		}
	}

	r.RenderHTML(w, status, pageError, errorPage{
		layout:  newLayout(req, ""),
		Status:  status,
		Message: message,
	})
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
