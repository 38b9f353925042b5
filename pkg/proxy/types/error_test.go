package types

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestErrorDetail_HTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		resp *ErrorResponse
		want int
	}{
		{"invalid request", NewInvalidRequestError("bad", "body", CodeInvalidJSON), http.StatusBadRequest},
		{"too large", NewInvalidRequestError("big", "body", CodeRequestTooLarge), http.StatusBadRequest},
		{"method not allowed", NewMethodNotAllowedError(http.MethodGet), http.StatusMethodNotAllowed},
		{"server error", NewServerError("boom"), http.StatusInternalServerError},
		{"unknown type", NewErrorResponse("?", "mystery", "", ""), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Error.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorResponse_OmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(NewMethodNotAllowedError(http.MethodPut))
	if err != nil {
		t.Fatal(err)
	}

	want := `{"error":{"message":"method PUT is not allowed","type":"method_not_allowed"}}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
}

func TestUserMessages(t *testing.T) {
	msgs := UserMessages("Say hello")
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Content != "Say hello" {
		t.Errorf("UserMessages() = %+v", msgs)
	}
}
