package packages

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
)

const packageID = "0f8e9d7c-6b5a-4c3d-8e2f-1a0b9c8d7e6f"

type fakeService struct {
	Service

	err        error
	lastQuery  ListQuery
	lastCreate CreateRequest
	lastUpdate UpdateRequest
	lastIDs    []string
	lastActor  access.Principal
}

func (f *fakeService) Create(_ context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	f.lastActor, f.lastCreate = actor, req
	if f.err != nil {
		return nil, f.err
	}
	return &View{ID: packageID, PackageName: req.PackageName, TourPrice: req.TourPrice.StringFixed(2), TotalSeat: req.TotalSeat}, nil
}

func (f *fakeService) Update(_ context.Context, _ access.Principal, id string, req UpdateRequest) (*View, error) {
	f.lastUpdate = req
	if f.err != nil {
		return nil, f.err
	}
	return &View{ID: id}, nil
}

func (f *fakeService) Delete(context.Context, string) error { return f.err }

func (f *fakeService) BulkDelete(_ context.Context, ids []string) (*BulkDeleteResult, error) {
	f.lastIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return &BulkDeleteResult{DeletedCount: int64(len(ids))}, nil
}

func (f *fakeService) List(_ context.Context, q ListQuery) ([]View, int64, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, 0, f.err
	}
	return []View{{ID: packageID}}, 1, nil
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, access.Principal{UserID: "u-admin", Role: access.RoleAdmin})
		c.Next()
	})
	r.GET("/tour-packages", h.List)
	r.POST("/tour-packages", h.Create)
	r.POST("/tour-packages/bulk-delete", h.BulkDelete)
	r.PUT("/tour-packages/:id", h.Update)
	r.DELETE("/tour-packages/:id", h.Delete)
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

func code(t *testing.T, w *httptest.ResponseRecorder) any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out["code"]
}

func TestCreatePackage(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc), http.MethodPost, "/tour-packages",
		`{"packageName":"Bali","tourPrice":"1000.50","totalSeat":20,"desc":"ten days"}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "1000.5", svc.lastCreate.TourPrice.String())
	assert.Equal(t, "ten days", svc.lastCreate.Description)
	assert.Equal(t, "u-admin", svc.lastActor.UserID)
}

func TestCreatePackageRequiresSeats(t *testing.T) {
	w := do(newRouter(&fakeService{}), http.MethodPost, "/tour-packages",
		`{"packageName":"Bali","tourPrice":"1000","totalSeat":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", code(t, w))
}

func TestUpdateShrinkBelowBookings(t *testing.T) {
	svc := &fakeService{err: apperr.New(apperr.CapacityExceeded, "cannot reduce seats to 1: 2 already booked")}
	w := do(newRouter(svc), http.MethodPut, "/tour-packages/"+packageID, `{"totalSeat":1}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CAPACITY_EXCEEDED", code(t, w))
	require.NotNil(t, svc.lastUpdate.TotalSeat)
	assert.Equal(t, 1, *svc.lastUpdate.TotalSeat)
}

func TestDeleteReferencedPackage(t *testing.T) {
	svc := &fakeService{err: apperr.Conflictf("tour package is still referenced by other records")}
	w := do(newRouter(svc), http.MethodDelete, "/tour-packages/"+packageID, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", code(t, w))
}

func TestBulkDeleteValidatesIDs(t *testing.T) {
	w := do(newRouter(&fakeService{}), http.MethodPost, "/tour-packages/bulk-delete", `{"packageIds":["x"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(newRouter(&fakeService{}), http.MethodPost, "/tour-packages/bulk-delete", `{"packageIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc := &fakeService{}
	w = do(newRouter(svc), http.MethodPost, "/tour-packages/bulk-delete", `{"packageIds":["`+packageID+`"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{packageID}, svc.lastIDs)
}

func TestListParsesFilters(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc), http.MethodGet,
		"/tour-packages?packageName=bal&minPrice=100&maxPrice=2000.5&minSeats=2&sortBy=tourPrice&sortOrder=asc", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	q := svc.lastQuery
	assert.Equal(t, "bal", q.PackageName)
	assert.Equal(t, "100", q.MinPrice.String())
	assert.Equal(t, "2000.5", q.MaxPrice.String())
	require.NotNil(t, q.MinSeats)
	assert.Equal(t, 2, *q.MinSeats)
	assert.Nil(t, q.MaxSeats)
	assert.Equal(t, "tourPrice", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
}

func TestListRejectsBadNumbers(t *testing.T) {
	w := do(newRouter(&fakeService{}), http.MethodGet, "/tour-packages?minPrice=cheap", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(newRouter(&fakeService{}), http.MethodGet, "/tour-packages?maxSeats=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderClause(t *testing.T) {
	got, err := orderClause("", "")
	require.NoError(t, err)
	assert.Equal(t, "created_at DESC, id DESC", got)

	got, err = orderClause("tourPrice", "ASC")
	require.NoError(t, err)
	assert.Equal(t, "tour_price ASC, id ASC", got)

	_, err = orderClause("tour_price; DROP TABLE users", "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = orderClause("packageName", "sideways")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
