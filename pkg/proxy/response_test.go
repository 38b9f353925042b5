package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/gateway/pkg/proxy/types"
)

func TestWriteJSONResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		data       interface{}
		wantStatus int
	}{
		{
			name:       "success response",
			statusCode: http.StatusOK,
			data:       map[string]string{"message": "success"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "created response",
			statusCode: http.StatusCreated,
			data:       map[string]string{"id": "123"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteJSONResponse(w, tt.statusCode, tt.data)
			if err != nil {
				t.Errorf("WriteJSONResponse() error = %v", err)
			}

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %v, want %v", w.Code, tt.wantStatus)
			}

			contentType := w.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", contentType)
			}

			var result map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Errorf("Response is not valid JSON: %v", err)
			}
		})
	}
}

func TestWriteErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        *types.ErrorResponse
		wantStatus int
	}{
		{
			name:       "bad request error",
			err:        types.NewInvalidRequestError("Invalid request", "body", types.CodeInvalidJSON),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "method not allowed",
			err:        types.NewMethodNotAllowedError(http.MethodGet),
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "server error",
			err:        types.NewServerError("Internal server error"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "unknown type",
			err: &types.ErrorResponse{
				Error: types.ErrorDetail{Message: "odd", Type: "mystery"},
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			if err := WriteErrorResponse(w, tt.err); err != nil {
				t.Fatalf("WriteErrorResponse() error = %v", err)
			}

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %v, want %v", w.Code, tt.wantStatus)
			}

			var errResp types.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Errorf("Response is not valid JSON: %v", err)
			}

			if errResp.Error.Message != tt.err.Error.Message {
				t.Errorf("Error message = %v, want %v", errResp.Error.Message, tt.err.Error.Message)
			}
		})
	}
}

func TestWriteSSEHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSSEHeaders(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %v, want 200", w.Code)
	}
	if !w.Flushed {
		t.Error("expected headers to be flushed")
	}

	expectedHeaders := map[string]string{
		"Content-Type":      "text/event-stream",
		"Cache-Control":     "no-cache",
		"Connection":        "keep-alive",
		"X-Accel-Buffering": "no",
	}

	for key, want := range expectedHeaders {
		if got := w.Header().Get(key); got != want {
			t.Errorf("Header %s = %v, want %v", key, got, want)
		}
	}
}

func TestHandleError(t *testing.T) {
	reqErr := &RequestError{Message: "bad body", Code: types.CodeInvalidJSON, Param: "body"}

	tests := []struct {
		name     string
		err      error
		wantType string
		wantMsg  string
	}{
		{"request error", reqErr, types.ErrorTypeInvalidRequest, "bad body"},
		{"wrapped request error", errors.Join(errors.New("context"), reqErr), types.ErrorTypeInvalidRequest, "bad body"},
		{"internal error", errors.New("dial tcp 10.0.0.1:9000: refused"), types.ErrorTypeServerError, "An internal error occurred. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := HandleError(tt.err)
			if resp.Error.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", resp.Error.Type, tt.wantType)
			}
			if resp.Error.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}
