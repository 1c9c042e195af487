//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"drivebook/internal/pkg/config"
	"drivebook/tests/common/authtest"
	"drivebook/tests/common/dbtest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingE2ETestSuite struct {
	suite.Suite
	pool   *pgxpool.Pool
	router *gin.Engine
	cfg    config.Config

	instructorID uuid.UUID
	studentID    uuid.UUID
}

func TestBookingE2ESuite(t *testing.T) {
	suite.Run(t, new(BookingE2ETestSuite))
}

func (s *BookingE2ETestSuite) SetupSuite() {
	s.pool, s.router, s.cfg = setupE2EEnvironment(s.T())
}

func (s *BookingE2ETestSuite) SetupTest() {
	s.instructorID = dbtest.CreateTestInstructor(s.T(), s.pool, "Instructor "+uuid.NewString()[:8])
	s.studentID = dbtest.CreateTestStudent(s.T(), s.pool, uuid.NewString()+"@example.com")
	dbtest.GrantCredits(s.T(), s.pool, s.studentID, 5, 10)
}

func (s *BookingE2ETestSuite) do(method, path string, studentID uuid.UUID, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authtest.IssueToken(s.T(), s.cfg.JWT.Secret, studentID))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// nextMonday returns the Monday after the upcoming weekend, far enough out
// that notice rules never interfere.
func nextMonday() time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *BookingE2ETestSuite) bookingBody(start time.Time, hours int, planKey string) map[string]any {
	return map[string]any{
		"instructor_id": s.instructorID.String(),
		"start_time":    start.Format(time.RFC3339),
		"end_time":      start.Add(time.Duration(hours) * time.Hour).Format(time.RFC3339),
		"plan_key":      planKey,
	}
}

func (s *BookingE2ETestSuite) TestBookAndDeduct() {
	start := nextMonday().Add(9 * time.Hour)

	w := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.NotEmpty(resp["reservation_id"])
	s.Nil(resp["warnings"])

	sessions, hours, cooldown := dbtest.CreditBalance(s.T(), s.pool, s.studentID)
	s.Equal(int32(4), sessions)
	s.Equal(8.0, hours)
	s.Nil(cooldown, "standard plan sets no cooldown")
}

func (s *BookingE2ETestSuite) TestDoubleBookingRejected() {
	start := nextMonday().Add(9 * time.Hour)

	first := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, first.Code, first.Body.String())

	other := dbtest.CreateTestStudent(s.T(), s.pool, uuid.NewString()+"@example.com")
	dbtest.GrantCredits(s.T(), s.pool, other, 5, 10)

	second := s.do(http.MethodPost, "/api/reservations", other, s.bookingBody(start.Add(time.Hour), 2, "standard"))
	s.Equal(http.StatusConflict, second.Code)
	s.Contains(second.Body.String(), `"source":"internal"`)

	sessions, _, _ := dbtest.CreditBalance(s.T(), s.pool, other)
	s.Equal(int32(5), sessions, "a rejected booking costs nothing")
}

func (s *BookingE2ETestSuite) TestBackToBackBookingsAllowed() {
	start := nextMonday().Add(9 * time.Hour)

	first := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, first.Code, first.Body.String())

	second := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start.Add(2*time.Hour), 2, "standard"))
	s.Equal(http.StatusCreated, second.Code, second.Body.String())
}

func (s *BookingE2ETestSuite) TestIntensiveCooldown() {
	start := nextMonday().Add(9 * time.Hour)

	first := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "intensive"))
	require.Equal(s.T(), http.StatusCreated, first.Code, first.Body.String())

	_, _, cooldown := dbtest.CreditBalance(s.T(), s.pool, s.studentID)
	s.Require().NotNil(cooldown)
	s.WithinDuration(start.Add(2*time.Hour).Add(24*time.Hour), *cooldown, time.Second)

	// Next day is inside the cooldown window
	second := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start.AddDate(0, 0, 1), 2, "intensive"))
	s.Equal(http.StatusConflict, second.Code)
	s.Contains(second.Body.String(), "retry_at")
}

func (s *BookingE2ETestSuite) TestInsufficientCredit() {
	dbtest.GrantCredits(s.T(), s.pool, s.studentID, 0, 10)
	start := nextMonday().Add(9 * time.Hour)

	w := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	s.Equal(http.StatusPaymentRequired, w.Code)
}

func (s *BookingE2ETestSuite) TestInsufficientHoursRejectedBeforeCommit() {
	dbtest.GrantCredits(s.T(), s.pool, s.studentID, 5, 1)
	start := nextMonday().Add(9 * time.Hour)

	w := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	s.Equal(http.StatusPaymentRequired, w.Code)

	sessions, hours, _ := dbtest.CreditBalance(s.T(), s.pool, s.studentID)
	s.Equal(int32(5), sessions, "a rejected booking deducts nothing")
	s.Equal(1.0, hours)

	slots := s.do(http.MethodGet, "/api/instructors/"+s.instructorID.String()+"/slots?date="+start.Format("2006-01-02"), s.studentID, nil)
	s.Require().Equal(http.StatusOK, slots.Code)
	s.Contains(slots.Body.String(), start.Format(time.RFC3339), "the slot was never reserved")
}

// fireConcurrentBookings replays the same window from two goroutines and
// returns the recorders. Everything testify-related stays on the test
// goroutine.
func (s *BookingE2ETestSuite) fireConcurrentBookings(start time.Time, students []uuid.UUID) []*httptest.ResponseRecorder {
	tokens := make([]string, len(students))
	bodies := make([][]byte, len(students))
	for i, id := range students {
		tokens[i] = authtest.IssueToken(s.T(), s.cfg.JWT.Secret, id)
		b, err := json.Marshal(s.bookingBody(start, 2, "standard"))
		s.Require().NoError(err)
		bodies[i] = b
	}

	recorders := make([]*httptest.ResponseRecorder, len(students))
	var wg sync.WaitGroup
	for i := range students {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewReader(bodies[i]))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+tokens[i])
			recorders[i] = httptest.NewRecorder()
			s.router.ServeHTTP(recorders[i], req)
		}(i)
	}
	wg.Wait()
	return recorders
}

func (s *BookingE2ETestSuite) TestSimultaneousOverlappingBookings() {
	start := nextMonday().Add(9 * time.Hour)

	other := dbtest.CreateTestStudent(s.T(), s.pool, uuid.NewString()+"@example.com")
	dbtest.GrantCredits(s.T(), s.pool, other, 5, 10)

	recorders := s.fireConcurrentBookings(start, []uuid.UUID{s.studentID, other})

	codes := []int{recorders[0].Code, recorders[1].Code}
	sort.Ints(codes)
	s.Equal([]int{http.StatusCreated, http.StatusConflict}, codes,
		"exactly one of two simultaneous bookings may win the slot")

	for _, w := range recorders {
		if w.Code == http.StatusConflict {
			s.Contains(w.Body.String(), `"source":"internal"`)
		}
	}
}

func (s *BookingE2ETestSuite) TestSimultaneousBookingsWithLastCredit() {
	start := nextMonday().Add(9 * time.Hour)
	dbtest.GrantCredits(s.T(), s.pool, s.studentID, 1, 10)

	recorders := s.fireConcurrentBookings(start, []uuid.UUID{s.studentID, s.studentID})

	committed := 0
	for _, w := range recorders {
		if w.Code == http.StatusCreated {
			committed++
		}
	}
	s.Equal(1, committed, "the last session credit backs exactly one reservation")

	sessions, _, _ := dbtest.CreditBalance(s.T(), s.pool, s.studentID)
	s.Equal(int32(0), sessions, "balance lands on zero, never negative")
}

func (s *BookingE2ETestSuite) TestCancelFreesTheSlot() {
	start := nextMonday().Add(9 * time.Hour)

	created := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, created.Code, created.Body.String())

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(created.Body.Bytes(), &resp))
	reservationID := resp["reservation_id"].(string)

	cancelled := s.do(http.MethodPost, "/api/reservations/"+reservationID+"/cancel", s.studentID, nil)
	s.Equal(http.StatusNoContent, cancelled.Code)

	// The same window can now be booked again
	rebooked := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	s.Equal(http.StatusCreated, rebooked.Code, rebooked.Body.String())
}

func (s *BookingE2ETestSuite) TestCancelOthersReservationForbidden() {
	start := nextMonday().Add(9 * time.Hour)

	created := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(start, 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, created.Code, created.Body.String())

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(created.Body.Bytes(), &resp))
	reservationID := resp["reservation_id"].(string)

	other := dbtest.CreateTestStudent(s.T(), s.pool, uuid.NewString()+"@example.com")
	w := s.do(http.MethodPost, "/api/reservations/"+reservationID+"/cancel", other, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *BookingE2ETestSuite) TestAvailabilityReflectsBookings() {
	date := nextMonday()
	dateStr := date.Format("2006-01-02")

	before := s.do(http.MethodGet, "/api/instructors/"+s.instructorID.String()+"/slots?date="+dateStr, s.studentID, nil)
	require.Equal(s.T(), http.StatusOK, before.Code, before.Body.String())

	var view struct {
		Slots []struct {
			StartTime time.Time `json:"start_time"`
		} `json:"slots"`
	}
	s.Require().NoError(json.Unmarshal(before.Body.Bytes(), &view))
	s.Require().Len(view.Slots, 4)

	booked := s.do(http.MethodPost, "/api/reservations", s.studentID, s.bookingBody(date.Add(9*time.Hour), 2, "standard"))
	require.Equal(s.T(), http.StatusCreated, booked.Code, booked.Body.String())

	after := s.do(http.MethodGet, "/api/instructors/"+s.instructorID.String()+"/slots?date="+dateStr, s.studentID, nil)
	require.Equal(s.T(), http.StatusOK, after.Code)
	s.Require().NoError(json.Unmarshal(after.Body.Bytes(), &view))
	s.Len(view.Slots, 3)
	for _, slot := range view.Slots {
		s.False(slot.StartTime.Equal(date.Add(9 * time.Hour)))
	}
}

func (s *BookingE2ETestSuite) TestUnauthenticatedRequestRejected() {
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}
