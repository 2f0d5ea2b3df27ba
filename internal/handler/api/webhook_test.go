//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"gearbook/internal/handler/api"
	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/usecase/commands"
	"gearbook/tests/common/httptest"
	commandsmock "gearbook/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockCommands)

	// The callback route carries no session; the signature inside the body
	// is the only credential.
	s.router.POST("/api/payments/callback", s.handler.HandleCallback)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

func callbackBody() reqdto.PaymentCallbackRequest {
	return reqdto.PaymentCallbackRequest{
		TransactionID: "txn_123",
		Status:        "success",
		Signature:     "deadbeef",
	}
}

func (s *WebhookHandlerTestSuite) TestHandleCallback() {
	url := "/api/payments/callback"

	s.Run("accepts valid callback", func() {
		body := callbackBody()
		s.mockCommands.EXPECT().HandleCallback(gomock.Any(), body).Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, nil)
	})

	s.Run("missing required fields", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"transaction_id": "txn_123"}, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})

	s.Run("command errors map to status codes", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "bad signature", err: commands.ErrInvalidSignature, expectCode: http.StatusUnauthorized},
			{name: "unknown transaction", err: commands.ErrPaymentNotFound, expectCode: http.StatusNotFound},
			{name: "amount mismatch", err: commands.ErrCallbackAmountBad, expectCode: http.StatusUnprocessableEntity},
			{name: "conflicting terminal report", err: commands.ErrPaymentStateConflict, expectCode: http.StatusConflict},
			{name: "db failure", err: commands.ErrDatabaseOperation, expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := callbackBody()
				s.mockCommands.EXPECT().HandleCallback(gomock.Any(), body).Return(tc.err)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				httptest.AssertErrorResponse(s.T(), w, tc.expectCode, "")
			})
		}
	})
}
