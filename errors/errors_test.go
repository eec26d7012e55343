package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestUnsupportedParameters_MessageNamesKeys(t *testing.T) {
	err := UnsupportedParameters("set", []string{"bogus", "extra"})
	if err.Code != ErrCodeUnsupportedParameter {
		t.Errorf("unexpected code: %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	for _, key := range []string{"bogus", "extra", "set"} {
		if !strings.Contains(err.Message, key) {
			t.Errorf("message should mention %q: %s", key, err.Message)
		}
	}
}

func TestRetryableCodes(t *testing.T) {
	if !StoreUnavailable("scroll", stderrors.New("down")).Retryable {
		t.Error("store unavailability must be retryable")
	}
	if !NotReady().Retryable {
		t.Error("not-ready must be retryable")
	}
	if UnknownProcessor("nope").Retryable {
		t.Error("unknown processor is a definition bug, not retryable")
	}
	if InvalidPipeline("p1", "broken").Retryable {
		t.Error("invalid pipeline is a definition bug, not retryable")
	}
}

func TestAppError_UnwrapAndAs(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := StoreUnavailable("put", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeStoreUnavailable {
		t.Errorf("expected AppError through wrapping, got %v", wrapped)
	}
	if !IsCode(wrapped, ErrCodeStoreUnavailable) {
		t.Error("IsCode should see through wrapping")
	}
	if IsCode(nil, ErrCodeStoreUnavailable) {
		t.Error("nil is not an AppError")
	}
}

func TestIsConfiguration(t *testing.T) {
	configuration := []*AppError{
		InvalidPipeline("p1", "bad"),
		UnknownProcessor("nope"),
		UnsupportedParameters("set", []string{"x"}),
		MissingField("join", "parent_type"),
	}
	for _, err := range configuration {
		if !IsConfiguration(err) {
			t.Errorf("%s should be a configuration error", err.Code)
		}
	}
	if IsConfiguration(NotReady()) {
		t.Error("not-ready is operational, not configuration")
	}
	if IsConfiguration(stderrors.New("plain")) {
		t.Error("plain errors are not configuration errors")
	}
}

func TestToResponse(t *testing.T) {
	resp := NotFound("pipeline", "p1").ToResponse()
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("unexpected code: %s", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("response message must not be empty")
	}
	if resp.Error.Retryable {
		t.Error("not-found is not retryable")
	}
}
