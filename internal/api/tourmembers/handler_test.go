package tourmembers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/ledger"
)

const (
	enrollmentID = "7d3c1d2a-4b7e-4f59-9f3a-2c1b7e0d9a11"
	paymentID    = "1a2b3c4d-5e6f-4a1b-8c9d-0e1f2a3b4c5d"
	packageID    = "0f8e9d7c-6b5a-4c3d-8e2f-1a0b9c8d7e6f"
	memberID     = "9e8d7c6b-5a4f-4e3d-9c2b-1a0f9e8d7c6b"
)

type fakeService struct {
	Service

	err        error
	lastActor  access.Principal
	lastQuery  ListQuery
	lastCreate CreateRequest
	lastPay    PaymentRequest
	lastVer    *int
}

func (f *fakeService) view() *View {
	return &View{ID: enrollmentID, Version: 2, AmountPaid: "700.00", BalanceDue: "300.00", PaymentStatus: ledger.StatusPartial}
}

func (f *fakeService) Create(_ context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	f.lastActor, f.lastCreate = actor, req
	if f.err != nil {
		return nil, f.err
	}
	return f.view(), nil
}

func (f *fakeService) Get(_ context.Context, actor access.Principal, id string) (*View, error) {
	f.lastActor = actor
	if f.err != nil {
		return nil, f.err
	}
	return f.view(), nil
}

func (f *fakeService) List(_ context.Context, actor access.Principal, q ListQuery) ([]View, int64, error) {
	f.lastActor, f.lastQuery = actor, q
	if f.err != nil {
		return nil, 0, f.err
	}
	return []View{*f.view()}, 21, nil
}

func (f *fakeService) AddPayment(_ context.Context, actor access.Principal, id string, req PaymentRequest) (*View, error) {
	f.lastPay = req
	if f.err != nil {
		return nil, f.err
	}
	return f.view(), nil
}

func (f *fakeService) DeletePayment(_ context.Context, actor access.Principal, id, pid string, expectedVersion *int) (*View, error) {
	f.lastVer = expectedVersion
	if f.err != nil {
		return nil, f.err
	}
	return f.view(), nil
}

func (f *fakeService) Stats(context.Context) (*Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := toStats(ledger.NewTotals())
	return &s, nil
}

func newRouter(svc Service, p access.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, p)
		c.Next()
	})
	r.GET("/tour-members", h.List)
	r.GET("/tour-members/stats", h.Stats)
	r.GET("/tour-members/:id", h.Get)
	r.POST("/tour-members", h.Create)
	r.POST("/tour-members/:id/payments", h.AddPayment)
	r.DELETE("/tour-members/:id/payments/:paymentId", h.DeletePayment)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var staff = access.Principal{UserID: "u-staff", Role: access.RoleStaff}

func TestCreateReturns201(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodPost, "/tour-members",
		`{"memberId":"`+memberID+`","packageId":"`+packageID+`","extra":{"room":"twin"},
		  "image":{"originalName":"a.jpg","url":"https://cdn.example.com/a.jpg","mimetype":"image/jpeg","size":10}}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "PARTIAL", body["data"].(map[string]any)["paymentStatus"])
	assert.Equal(t, "https://cdn.example.com/a.jpg", svc.lastCreate.Image.URL)
	assert.Equal(t, staff, svc.lastActor)
}

func TestCreateValidation(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodPost, "/tour-members", `{"memberId":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", decode(t, w)["code"])
}

func TestCreateCapacityExceeded(t *testing.T) {
	svc := &fakeService{err: apperr.New(apperr.CapacityExceeded, "tour package is full: 1 of 1 seats booked")}
	w := do(newRouter(svc, staff), http.MethodPost, "/tour-members",
		`{"memberId":"`+memberID+`","packageId":"`+packageID+`"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "CAPACITY_EXCEEDED", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestGetRejectsBadID(t *testing.T) {
	w := do(newRouter(&fakeService{}, staff), http.MethodGet, "/tour-members/123", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNotFound(t *testing.T) {
	svc := &fakeService{err: apperr.NotFoundf("tour member not found")}
	w := do(newRouter(svc, staff), http.MethodGet, "/tour-members/"+enrollmentID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "tour member not found", decode(t, w)["message"])
}

func TestListParsesFilters(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodGet,
		"/tour-members?page=3&limit=10&packageId="+packageID+"&paymentStatus=partial&search=ann", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ListQuery{
		Page: 3, Limit: 10, PackageID: packageID, PaymentStatus: ledger.StatusPartial, Search: "ann",
	}, svc.lastQuery)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, map[string]any{"page": 3.0, "limit": 10.0, "total": 21.0, "totalPages": 3.0}, data["pagination"])
}

func TestListRejectsBadPaging(t *testing.T) {
	w := do(newRouter(&fakeService{}, staff), http.MethodGet, "/tour-members?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPaymentKeepsExactAmount(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodPost, "/tour-members/"+enrollmentID+"/payments",
		`{"amount":"300.10","method":"cash","expectedVersion":1}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.lastPay.Amount)
	assert.Equal(t, "300.1", svc.lastPay.Amount.String())
	assert.Equal(t, 1, *svc.lastPay.ExpectedVersion)
}

func TestAddPaymentStoreTimeout(t *testing.T) {
	svc := &fakeService{err: apperr.FromDB(context.DeadlineExceeded, "tour member")}
	w := do(newRouter(svc, staff), http.MethodPost, "/tour-members/"+enrollmentID+"/payments", `{"amount":10}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPSTREAM_FAILURE", decode(t, w)["code"])
}

func TestDeletePaymentVersion(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodDelete,
		"/tour-members/"+enrollmentID+"/payments/"+paymentID+"?expectedVersion=4", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.lastVer)
	assert.Equal(t, 4, *svc.lastVer)

	svc = &fakeService{}
	w = do(newRouter(svc, staff), http.MethodDelete, "/tour-members/"+enrollmentID+"/payments/"+paymentID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, svc.lastVer)
}

func TestStatsRouteWinsOverID(t *testing.T) {
	w := do(newRouter(&fakeService{}, staff), http.MethodGet, "/tour-members/stats", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "0.00", data["totalExpected"])
}
