package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChainOrdersMiddlewaresOutsideIn(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("a"), mark("b")).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "endpoint")
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"a", "b", "endpoint"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestChainNilMiddlewaresIgnored(t *testing.T) {
	if Chain(nil, nil) != nil {
		t.Fatal("Chain of only nils should yield a nil/empty chain")
	}
}

func TestHandlerPanicsOnNilEndpoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil endpoint handler")
		}
	}()
	Chain().Handler(nil)
}
