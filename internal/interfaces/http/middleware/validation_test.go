package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	StockID string          `json:"stock_id" binding:"required,uuid"`
	Qty     int64           `json:"qty" binding:"required,gt=0"`
	Price   decimal.Decimal `json:"price" binding:"gte=0"`
}

type orderRequest struct {
	Note  string        `json:"note" binding:"max=5"`
	Lines []lineRequest `json:"lines" binding:"required,min=1,dive"`
}

type detailResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string                 `json:"code"`
		RequestID string                 `json:"request_id"`
		Details   []dto.ValidationDetail `json:"details"`
	} `json:"error"`
}

func newBindRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/orders", func(c *gin.Context) {
		var req orderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func postOrder(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newBindRouter().ServeHTTP(w, req)
	return w
}

func TestHandleBindError(t *testing.T) {
	t.Run("valid body passes", func(t *testing.T) {
		w := postOrder(t, `{"lines":[{"stock_id":"6f1c2f0e-3c55-4a53-9a47-5c1f3b8f2a10","qty":2,"price":"10.50"}]}`)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("validation failures are 422 with JSON paths", func(t *testing.T) {
		w := postOrder(t, `{"note":"too long","lines":[{"stock_id":"nope","qty":0,"price":"-1"}]}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var resp detailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.CodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at most 5 characters", fields["note"])
		assert.Equal(t, "Invalid UUID format", fields["lines[0].stock_id"])
		assert.Equal(t, "This field is required", fields["lines[0].qty"])
		assert.Equal(t, "Must be greater than or equal to 0", fields["lines[0].price"])
	})

	t.Run("empty slice", func(t *testing.T) {
		w := postOrder(t, `{"lines":[]}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Must contain at least 1 entries")
	})

	t.Run("broken JSON is 400", func(t *testing.T) {
		w := postOrder(t, `{"lines":[`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.CodeBadRequest)
	})

	t.Run("wrong type is 400", func(t *testing.T) {
		w := postOrder(t, `{"lines":[{"stock_id":"6f1c2f0e-3c55-4a53-9a47-5c1f3b8f2a10","qty":"two"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "wrong type")
	})
}
