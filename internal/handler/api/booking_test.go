//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"gearbook/internal/domain/actor"
	"gearbook/internal/handler/api"
	resdto "gearbook/internal/handler/dto/response"
	"gearbook/internal/usecase/commands"
	"gearbook/internal/usecase/queries"
	"gearbook/tests/common/builder"
	"gearbook/tests/common/httptest"
	commandsmock "gearbook/tests/mock/commands"
	queriesmock "gearbook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
	userRole     actor.Role
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()
	s.userRole = actor.RoleRenter

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", s.userRole)
		c.Next()
	}

	s.router.POST("/api/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/api/bookings", authMiddleware, s.handler.ListBookings)
	s.router.GET("/api/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.POST("/api/bookings/:id/confirm", authMiddleware, s.handler.ConfirmBooking)
	s.router.POST("/api/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
	s.router.POST("/api/bookings/:id/complete", authMiddleware, s.handler.CompleteBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) idempotencyHeader() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/api/bookings"

	s.Run("creates booking", func() {
		b := builder.NewBookingBuilder()
		reqBody := b.BuildCreateRequestDTO()
		view := b.BuildView()

		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(&commands.CreateBookingResult{BookingID: view.ID, TotalCents: view.TotalCents}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(view, nil)

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "token", s.idempotencyHeader())

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal("10:00", resp.StartTime)
		s.Equal("14:00", resp.EndTime)
	})

	s.Run("replayed request returns 200", func() {
		b := builder.NewBookingBuilder()
		view := b.BuildView()

		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
			Return(&commands.CreateBookingResult{BookingID: view.ID, TotalCents: view.TotalCents, IsReplayed: true}, nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(view, nil)

		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, b.BuildCreateRequestDTO(), "token", s.idempotencyHeader())
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("missing idempotency key", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, builder.NewBookingBuilder().BuildCreateRequestDTO(), "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "idempotency-key")
	})

	s.Run("malformed idempotency key", func() {
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url,
			builder.NewBookingBuilder().BuildCreateRequestDTO(), "token",
			map[string]string{"Idempotency-Key": "not-a-uuid"})
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "idempotency key")
	})

	s.Run("unauthorized", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, builder.NewBookingBuilder().BuildCreateRequestDTO(), "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "")
	})

	s.Run("invalid body", func() {
		w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url,
			map[string]any{"resource_id": "nope"}, "token", s.idempotencyHeader())
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.Run("command errors map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "resource not found", err: commands.ErrResourceNotFound, expectCode: http.StatusNotFound},
			{name: "resource unavailable", err: commands.ErrResourceUnavailable, expectCode: http.StatusConflict},
			{name: "unapproved provider", err: commands.ErrProviderNotApproved, expectCode: http.StatusConflict},
			{name: "window conflict", err: commands.ErrBookingConflict, expectCode: http.StatusConflict},
			{name: "invalid window", err: commands.ErrInvalidTimeWindow, expectCode: http.StatusBadRequest},
			{name: "key reuse", err: commands.ErrDuplicateRequest, expectCode: http.StatusConflict},
			{name: "in progress", err: commands.ErrIdempotencyInProgress, expectCode: http.StatusConflict},
			{name: "no rate", err: commands.ErrPricingUnavailable, expectCode: http.StatusUnprocessableEntity},
			{name: "db failure", err: commands.ErrDatabaseOperation, expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), s.userID, gomock.Any()).
					Return(nil, tc.err)

				w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url,
					builder.NewBookingBuilder().BuildCreateRequestDTO(), "token", s.idempotencyHeader())
				httptest.AssertErrorResponse(s.T(), w, tc.expectCode, "")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := builder.NewBookingBuilder().BuildView()
	url := "/api/bookings/" + view.ID.String()

	s.Run("returns booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal(view.ResourceName, resp.ResourceName)
	})

	s.Run("access denied", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(nil, queries.ErrBookingViewAccessDenied)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "")
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	url := "/api/bookings"

	s.Run("returns page with next cursor", func() {
		items := []*queries.BookingListItem{
			{ID: uuid.New(), ResourceName: "Scissor Lift 12m", BookedDate: time.Now(), StartMin: 600, EndMin: 840, Status: "pending", TotalCents: 20000, CreatedAt: time.Now()},
		}
		next := &queries.Cursor{After: "opaque-cursor"}

		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.userID, nil, 20).
			Return(items, next, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var resp resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Len(resp.Items, 1)
		s.Require().NotNil(resp.NextCursor)
		s.Equal("opaque-cursor", *resp.NextCursor)
	})

	s.Run("passes cursor through", func() {
		s.mockQueries.EXPECT().ListByRenter(gomock.Any(), s.userID, &queries.Cursor{After: "abc"}, 5).
			Return([]*queries.BookingListItem{}, nil, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=abc&limit=5", nil, "token")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})
}

func (s *BookingHandlerTestSuite) TestTransitions() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("confirm succeeds", func() {
		s.mockCommands.EXPECT().ConfirmBooking(gomock.Any(), commands.ActorFrom(s.userID, s.userRole), view.ID).
			Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+view.ID.String()+"/confirm", nil, "token")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("cancel succeeds", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), commands.ActorFrom(s.userID, s.userRole), view.ID).
			Return(nil)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, s.userRole, view.ID).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+view.ID.String()+"/cancel", nil, "token")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("complete on pending booking conflicts", func() {
		s.mockCommands.EXPECT().CompleteBooking(gomock.Any(), commands.ActorFrom(s.userID, s.userRole), view.ID).
			Return(commands.ErrInvalidTransition)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+view.ID.String()+"/complete", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "")
	})

	s.Run("confirm by wrong actor is forbidden", func() {
		s.mockCommands.EXPECT().ConfirmBooking(gomock.Any(), commands.ActorFrom(s.userID, s.userRole), view.ID).
			Return(commands.ErrBookingAccessDenied)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+view.ID.String()+"/confirm", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusForbidden, "")
	})

	s.Run("unknown booking", func() {
		s.mockCommands.EXPECT().ConfirmBooking(gomock.Any(), commands.ActorFrom(s.userID, s.userRole), view.ID).
			Return(commands.ErrBookingNotFound)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/"+view.ID.String()+"/confirm", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})
}
