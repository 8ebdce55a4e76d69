package gql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// confirmAfter serves a GraphQL endpoint that reports the transaction
// as missing for the first n queries, then as confirmed.
func confirmAfter(t *testing.T, n int, txErr string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode query body: %v", err)
		}
		if !strings.Contains(body.Query, "tx(id:") {
			t.Errorf("unexpected query: %s", body.Query)
		}

		if int(calls.Add(1)) <= n {
			fmt.Fprint(w, `{"data":{"tx":null}}`)
			return
		}
		fmt.Fprintf(w, `{"data":{"tx":{"id":"abc","err":%q}}}`, txErr)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestWaitForImmediate(t *testing.T) {
	srv, calls := confirmAfter(t, 0, "")

	c := New(srv.URL, WithInterval(10*time.Millisecond))
	if err := c.WaitFor(context.Background(), "abc"); err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 query, got %d", got)
	}
}

func TestWaitForPolls(t *testing.T) {
	srv, calls := confirmAfter(t, 3, "")

	c := New(srv.URL, WithInterval(5*time.Millisecond))
	if err := c.WaitFor(context.Background(), "abc"); err != nil {
		t.Fatalf("WaitFor: %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("expected 4 queries, got %d", got)
	}
}

func TestWaitForDeadline(t *testing.T) {
	srv, _ := confirmAfter(t, 1_000_000, "")

	c := New(srv.URL, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := c.WaitFor(ctx, "abc")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestWaitForFailedTx(t *testing.T) {
	srv, _ := confirmAfter(t, 0, "out of gas")

	c := New(srv.URL, WithInterval(5*time.Millisecond))
	err := c.WaitFor(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected error for failed transaction")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("failed transaction must not look like a timeout")
	}
	if !strings.Contains(err.Error(), "out of gas") {
		t.Errorf("error should carry the tx failure reason: %v", err)
	}
}

func TestWaitForServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithInterval(5*time.Millisecond))
	if err := c.WaitFor(context.Background(), "abc"); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestWaitForGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"errors":[{"message":"unknown field"}]}`)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	err := c.WaitFor(context.Background(), "abc")
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}
