package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutDerivesDeadline(t *testing.T) {
	var gotDeadline bool
	h := Chain(Timeout(50 * time.Millisecond)).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !gotDeadline {
		t.Fatal("expected downstream context to carry a deadline")
	}
}

func TestTimeoutZeroDisablesMiddleware(t *testing.T) {
	var hadDeadline bool
	h := Chain(Timeout(0)).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if hadDeadline {
		t.Fatal("Timeout(0) should mean no timeout (config.Config default)")
	}
}

func TestTimeoutNeverExtendsExistingDeadline(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var deadline time.Time
	h := Chain(Timeout(time.Hour)).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, _ = r.Context().Deadline()
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(parent)
	h.ServeHTTP(httptest.NewRecorder(), req)

	parentDeadline, _ := parent.Deadline()
	if !deadline.Equal(parentDeadline) {
		t.Fatalf("deadline = %v, want the parent's earlier deadline %v", deadline, parentDeadline)
	}
}
