package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spacebook/internal/database"
	"spacebook/internal/middleware"
	"spacebook/internal/modules/availability"
	"spacebook/internal/modules/booking"
	"spacebook/internal/modules/catalog"
	"spacebook/internal/notify"
	jwtsvc "spacebook/internal/pkg/jwt"
	"spacebook/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.Migrate(db))

	spaceRepo := repository.NewSpaceRepository(db)
	cachedSpaces := repository.NewCachedSpaceRepository(spaceRepo, 5*time.Minute)
	bookingRepo := repository.NewBookingRepository(db)
	addonRepo := repository.NewAddonServiceRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	catalogService := catalog.NewService(cachedSpaces)
	catalogHandler := catalog.NewHandler(catalogService)

	calc := booking.NewCalculator(24 * time.Hour)
	bookingService := booking.NewService(bookingRepo, cachedSpaces, addonRepo, notify.NewLogSender(), calc)
	bookingHandler := booking.NewHandler(bookingService)

	availabilityService := availability.NewService(spaceRepo, bookingRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")

	catalogHandler.RegisterPublicRoutes(v1)
	availabilityHandler.RegisterRoutes(v1)

	guest := v1.Group("")
	guest.Use(middleware.OptionalAuth(jwtService))
	bookingHandler.RegisterGuestRoutes(guest)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	{
		bookingHandler.RegisterAuthRoutes(protected)
		catalogHandler.RegisterOwnerRoutes(protected)

		admin := protected.Group("")
		admin.Use(middleware.RequireRole("admin"))
		catalogHandler.RegisterAdminRoutes(admin)
	}

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *E2ETestSuite) token(t *testing.T, userID int64, role string) string {
	tok, err := s.jwtService.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "raw body: %s", w.Body.String())
	return &resp
}

func spaceRequest() map[string]interface{} {
	return map[string]interface{}{
		"name":                         "Downtown Meeting Room",
		"space_type":                   "meeting_room",
		"capacity":                     8,
		"price_per_hour":               20,
		"min_booking_duration_minutes": 30,
		"max_booking_duration_minutes": 480,
		"cancellation_notice_hours":    24,
		"cleaning_duration_minutes":    15,
		"buffer_minutes":               15,
	}
}

func TestFlow_BookingLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.token(t, 1, "owner")
	memberToken := suite.token(t, 2, "member")

	var spaceID float64
	t.Run("owner creates a space", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/spaces", spaceRequest(), ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		require.True(t, resp.Success)
		space := resp.Data["space"].(map[string]interface{})
		spaceID = space["id"].(float64)
	})

	start := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	end := start.Add(2 * time.Hour)

	var bookingID float64
	t.Run("member books the space", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"space_id":         spaceID,
			"start_time":       start.Format(time.RFC3339),
			"end_time":         end.Format(time.RFC3339),
			"number_of_people": 4,
		}, memberToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		bookingID = b["id"].(float64)
		assert.Equal(t, "pending", b["status"])
		assert.Equal(t, 40.0, b["total_price"])
		assert.Len(t, b["booking_code"], 8)
	})

	t.Run("overlapping request is rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"space_id":         spaceID,
			"start_time":       start.Add(time.Hour).Format(time.RFC3339),
			"end_time":         end.Add(time.Hour).Format(time.RFC3339),
			"number_of_people": 2,
		}, memberToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)
	})

	t.Run("availability search hides the booked space", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/availability?availability_start=%s&availability_end=%s",
			start.Format("2006-01-02T15:04:05Z"), end.Format("2006-01-02T15:04:05Z"))
		w := suite.makeRequest("GET", path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		items := resp.Data["items"].([]interface{})
		assert.Empty(t, items)
	})

	t.Run("owner confirms", func(t *testing.T) {
		w := suite.makeRequest("PUT", fmt.Sprintf("/api/v1/bookings/%.0f/status", bookingID), map[string]interface{}{
			"new_status": "confirmed",
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "confirmed", b["status"])
	})

	t.Run("stranger cannot read the booking", func(t *testing.T) {
		w := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%.0f", bookingID), nil, suite.token(t, 55, "member"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("requester cancels outside the notice window", func(t *testing.T) {
		w := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%.0f/cancel", bookingID), map[string]interface{}{
			"reason": "plans changed",
		}, memberToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", b["status"])
	})

	t.Run("the slot frees up after cancellation", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"space_id":         spaceID,
			"start_time":       start.Format(time.RFC3339),
			"end_time":         end.Format(time.RFC3339),
			"number_of_people": 2,
		}, memberToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})
}

func TestFlow_GuestBooking(t *testing.T) {
	suite := setupTestSuite(t)

	ownerToken := suite.token(t, 1, "owner")
	w := suite.makeRequest("POST", "/api/v1/spaces", spaceRequest(), ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseResponse(t, w)
	spaceID := resp.Data["space"].(map[string]interface{})["id"].(float64)

	start := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)

	t.Run("guest books without a token", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"space_id":         spaceID,
			"start_time":       start.Format(time.RFC3339),
			"end_time":         start.Add(time.Hour).Format(time.RFC3339),
			"number_of_people": 2,
			"guest_name":       "Dana",
			"guest_email":      "dana@example.com",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parseResponse(t, w)
		code := resp.Data["booking"].(map[string]interface{})["booking_code"].(string)

		// the code is the guest's handle on the booking
		lookup := suite.makeRequest("GET", "/api/v1/booking-codes/"+code, nil, "")
		assert.Equal(t, http.StatusOK, lookup.Code)
	})

	t.Run("guest without contact details is rejected", func(t *testing.T) {
		w := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"space_id":         spaceID,
			"start_time":       start.Add(5 * time.Hour).Format(time.RFC3339),
			"end_time":         start.Add(6 * time.Hour).Format(time.RFC3339),
			"number_of_people": 2,
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("protected endpoints still demand a token", func(t *testing.T) {
		w := suite.makeRequest("GET", "/api/v1/my/bookings", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
