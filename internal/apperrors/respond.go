package apperrors

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// Envelope is the canonical error response body.
type Envelope struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message"`
	ErrorType  string       `json:"errorType"`
	Path       string       `json:"path"`
	Method     string       `json:"method"`
	Timestamp  string       `json:"timestamp"`
	StatusCode int          `json:"statusCode"`
	Details    []FieldError `json:"details,omitempty"`
}

// WriteError classifies err and writes the matching envelope. Anything that
// is not an *Error becomes an InternalServerError; outside production the
// underlying cause is included in the message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := As(err)
	if appErr == nil {
		appErr = Internal("Internal server error", err)
	}

	message := appErr.Message
	if appErr.Kind == KindInternal {
		log.Printf("[ERROR] %s %s: %v", r.Method, r.URL.Path, err)
		if viper.GetString("env") == "production" {
			message = "Internal server error"
		} else if appErr.Err != nil {
			message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
	}

	status := appErr.StatusCode()
	body := Envelope{
		Success:    false,
		Message:    message,
		ErrorType:  appErr.Type(),
		Path:       r.URL.Path,
		Method:     r.Method,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		StatusCode: status,
		Details:    appErr.Fields,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
