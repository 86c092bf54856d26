package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"recoverydesk/internal/allocator"
	"recoverydesk/internal/models"
	"recoverydesk/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func liveProvider() *testutil.Provider {
	return &testutil.Provider{Rec: testutil.NewRecommendation(allocator.Availability{
		models.SegmentLost:      1,
		models.SegmentPaidDue:   2,
		models.SegmentFirstFree: 4,
	}, 3)}
}

func downProvider() *testutil.Provider {
	return &testutil.Provider{Err: errors.New("connection refused")}
}

// withUser injects an authenticated user the way RequireAuth does.
func withUser(u *models.User) fiber.Handler {
	return func(c fiber.Ctx) error {
		if u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}
