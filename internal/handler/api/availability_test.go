//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drivebook/internal/handler/api"
	"drivebook/internal/handler/middleware"
	"drivebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailabilityQueries struct {
	view *queries.DayAvailabilityView
	err  error
}

func (f *fakeAvailabilityQueries) ListSlots(_ context.Context, _ uuid.UUID, _ string) (*queries.DayAvailabilityView, error) {
	return f.view, f.err
}

func availabilityRouter(q queries.AvailabilityQueries) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	handler := api.NewAvailabilityHandler(q)
	router.GET("/instructors/:id/slots", handler.ListSlots)
	return router
}

func TestListSlotsHandler(t *testing.T) {
	instructorID := uuid.New()

	t.Run("returns the day's slots", func(t *testing.T) {
		start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
		router := availabilityRouter(&fakeAvailabilityQueries{
			view: &queries.DayAvailabilityView{
				InstructorID:    instructorID,
				Date:            "2026-09-07",
				SessionDuration: 2 * time.Hour,
				Slots: []queries.SlotView{
					{Start: start, End: start.Add(2 * time.Hour)},
					{Start: start.Add(2 * time.Hour), End: start.Add(4 * time.Hour)},
				},
			},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/instructors/"+instructorID.String()+"/slots?date=2026-09-07", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2026-09-07", resp["date"])
		assert.Equal(t, float64(120), resp["session_duration_minutes"])
		assert.Len(t, resp["slots"], 2)
	})

	t.Run("invalid instructor id", func(t *testing.T) {
		router := availabilityRouter(&fakeAvailabilityQueries{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/instructors/abc/slots?date=2026-09-07", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown instructor", func(t *testing.T) {
		router := availabilityRouter(&fakeAvailabilityQueries{err: queries.ErrInstructorNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/instructors/"+instructorID.String()+"/slots?date=2026-09-07", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		router := availabilityRouter(&fakeAvailabilityQueries{err: queries.ErrInvalidDate})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/instructors/"+instructorID.String()+"/slots?date=yesterday", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
