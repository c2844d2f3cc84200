package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/handlers"
	"github.com/quantpulse/Trading-Signals-Backend/internal/testutil"
)

// TestInsightHandler_Insights tests the insight endpoint.
//
// WHY: Unlike signal generation, this endpoint must soft-fail: internal
// problems come back as a 200 with a placeholder insight, so only malformed
// input and unknown symbols surface as errors.
func TestInsightHandler_Insights(t *testing.T) {
	decode := func(t *testing.T, w *httptest.ResponseRecorder) handlers.InsightsResponse {
		t.Helper()
		var body handlers.InsightsResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return body
	}

	t.Run("returns templated insights without an advisory client", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewInsightHandler(testutil.NewTestSignalService(t, db))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/insights",
			map[string]string{"symbol": "AAPL", "timeframe": "1W"})
		w := httptest.NewRecorder()

		// Execute
		handler.Insights(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decode(t, w)
		if len(body.Insights) != 3 {
			t.Fatalf("Expected 3 insights, got %d", len(body.Insights))
		}
		if body.Insights[0].Type != "Technical Analysis" {
			t.Errorf("Expected Technical Analysis first, got %q", body.Insights[0].Type)
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewInsightHandler(testutil.NewTestSignalService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/insights", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 on invalid symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewInsightHandler(testutil.NewTestSignalService(t, db))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/insights",
			map[string]string{"symbol": "bad symbol!"})
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown symbol with advisory configured", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewInsightHandler(
			testutil.NewTestSignalServiceWithAdvisor(t, db, testutil.NewMockAdvisorClient()))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/insights",
			map[string]string{"symbol": "NOPE"})
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("advisory failure returns 200 with a System Notice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockAdvisorClient().WithError(errors.New("upstream timeout"))
		handler := handlers.NewInsightHandler(testutil.NewTestSignalServiceWithAdvisor(t, db, mock))
		testutil.NewInstrument().WithSymbol("AAPL").WithPrice(185.50).Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/insights",
			map[string]string{"symbol": "AAPL"})
		w := httptest.NewRecorder()

		handler.Insights(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected degraded 200, got %d", w.Code)
		}
		body := decode(t, w)
		if len(body.Insights) != 1 || body.Insights[0].Type != "System Notice" {
			t.Errorf("Expected System Notice placeholder, got %+v", body.Insights)
		}
	})
}
