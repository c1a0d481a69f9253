package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/jmccarv/quip/internal/config"
	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/solver"
)

func newServer(t *testing.T) *Server {
	t.Helper()

	d, err := dictionary.New([]string{"the", "cat", "sat", "mat", "on", "in", "dog", "to"})
	if err != nil {
		t.Fatal(err)
	}
	x, err := dictionary.NewIndex(d, 16)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.TimeLimit = 10
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return New(x, cfg, nil)
}

func do(t *testing.T, s *Server, method, path, body string, out any) int {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestSolve(t *testing.T) {
	s := newServer(t)

	var resp solveResponse
	code := do(t, s, http.MethodPost, "/api/solve",
		`{"ciphertext": "Xqm zbx kbx rw xqm pbx.", "hints": ["z=c k=s", "r=o"]}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if diff := cmp.Diff([]string{"The cat sat on the mat."}, resp.Solutions); diff != "" {
		t.Errorf("solutions (-want +got): %s", diff)
	}
	if resp.ID == "" || resp.TimedOut {
		t.Errorf("response = %+v", resp)
	}
}

func TestSolveNoSolutions(t *testing.T) {
	s := newServer(t)

	var resp solveResponse
	code := do(t, s, http.MethodPost, "/api/solve",
		`{"ciphertext": "qqqq", "frequency": true, "word_block": false}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.Solutions) != 0 || resp.Message == "" {
		t.Errorf("response = %+v, want no solutions and a message", resp)
	}
}

func TestSolveBadRequests(t *testing.T) {
	s := newServer(t)

	bodies := []string{
		`{"ciphertext": "abc 123"}`,
		`{"ciphertext": ""}`,
		`{"ciphertext": "abc", "hints": ["a=bc"]}`,
		`{"ciphertext": "abc", "time_limit": -1}`,
		`{"ciphertext": "abc", "frequency": false, "word_block": false}`,
		`{"ciphertext": `,
	}
	for _, body := range bodies {
		var resp map[string]string
		if code := do(t, s, http.MethodPost, "/api/solve", body, &resp); code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, code)
		}
		if resp["error"] == "" {
			t.Errorf("%s: no error message", body)
		}
	}
}

func TestEncrypt(t *testing.T) {
	s := newServer(t)

	var resp encryptResponse
	code := do(t, s, http.MethodPost, "/api/encrypt", `{"plaintext": "The cat sat on the mat."}`, &resp)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if len(resp.Ciphertext) != len("The cat sat on the mat.") {
		t.Errorf("ciphertext %q has the wrong length", resp.Ciphertext)
	}
	if len(resp.Hint) != 3 || resp.Hint[1] != '=' {
		t.Errorf("hint = %q", resp.Hint)
	}

	if code := do(t, s, http.MethodPost, "/api/encrypt", `{"plaintext": ""}`, nil); code != http.StatusBadRequest {
		t.Errorf("empty plaintext: status = %d, want 400", code)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	var resp struct {
		Status string `json:"status"`
		Words  int    `json:"words"`
	}
	if code := do(t, s, http.MethodGet, "/api/health", "", &resp); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Status != "ok" || resp.Words != 8 {
		t.Errorf("health = %+v", resp)
	}
}

func TestSolveClientGone(t *testing.T) {
	s := newServer(t)

	// Route the solve handler through an app whose requests carry a
	// context that has already been canceled.
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Post("/api/solve", s.solve)

	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(`{"ciphertext": "Xqm zbx kbx rw xqm pbx."}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body solveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.TimedOut {
		t.Errorf("response = %+v, want timed_out", body)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		stopped bool
		failed  error
	}{
		{"nil", nil, false, nil},
		{"timeout", solver.ErrTimeout, true, nil},
		{"canceled", context.Canceled, true, nil},
		{"both attacks stopped", multierr.Append(solver.ErrTimeout, context.Canceled), true, nil},
		{"no time", solver.ErrInvalidBudget, false, solver.ErrInvalidBudget},
		{"timeout and failure", multierr.Append(solver.ErrTimeout, solver.ErrNoAttack), true, solver.ErrNoAttack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stopped, failed := split(tt.err)
			if stopped != tt.stopped {
				t.Errorf("stopped = %v, want %v", stopped, tt.stopped)
			}
			if !errors.Is(failed, tt.failed) {
				t.Errorf("failed = %v, want %v", failed, tt.failed)
			}
		})
	}
}
