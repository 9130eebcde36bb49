package members

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
	domainmembers "tour-backoffice/internal/domain/members"
)

const (
	memberID = "9e8d7c6b-5a4f-4e3d-9c2b-1a0f9e8d7c6b"
	userID   = "3c2b1a0f-9e8d-4c6b-8a4f-3e2d1c0b9a8f"
)

type fakeService struct {
	Service

	err        error
	lastActor  access.Principal
	lastQuery  ListQuery
	lastCreate CreateRequest
	lastUser   string
}

func (f *fakeService) Create(_ context.Context, actor access.Principal, req CreateRequest) (*View, error) {
	f.lastActor, f.lastCreate = actor, req
	if f.err != nil {
		return nil, f.err
	}
	v := toView(memberFixture(), nil)
	return &v, nil
}

func (f *fakeService) Get(_ context.Context, actor access.Principal, _ string) (*View, error) {
	f.lastActor = actor
	if f.err != nil {
		return nil, f.err
	}
	v := toView(memberFixture(), nil)
	return &v, nil
}

func (f *fakeService) List(_ context.Context, q ListQuery) ([]View, int64, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, 0, f.err
	}
	return []View{toView(memberFixture(), nil)}, 1, nil
}

func (f *fakeService) ByUser(_ context.Context, actor access.Principal, userID string) ([]View, error) {
	f.lastActor, f.lastUser = actor, userID
	if f.err != nil {
		return nil, f.err
	}
	return []View{}, nil
}

func (f *fakeService) Delete(context.Context, string) error { return f.err }

func newRouter(svc Service, p access.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetPrincipal(c, p)
		c.Next()
	})
	r.GET("/members", h.List)
	r.GET("/members/user/:userId", h.ByUser)
	r.GET("/members/:id", h.Get)
	r.POST("/members", h.Create)
	r.DELETE("/members/:id", h.Delete)
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

func TestCreateMember(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodPost, "/members", `{
		"name":"Ann","mobileNo":"0123",
		"documents":[{"originalName":"passport.pdf","url":"https://cdn.example.com/p.pdf","mimetype":"application/pdf","size":2048}],
		"login":{"email":"ann@example.com","password":"secret123"}
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, svc.lastCreate.Documents, 1)
	assert.Equal(t, "passport.pdf", svc.lastCreate.Documents[0].OriginalName)
	require.NotNil(t, svc.lastCreate.Login)
	assert.Equal(t, "ann@example.com", svc.lastCreate.Login.Email)

	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, []any{}, data["enrollments"])
}

func TestCreateMemberValidation(t *testing.T) {
	r := newRouter(&fakeService{}, staff)

	w := do(r, http.MethodPost, "/members", `{"mobileNo":"0123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "name is required")

	w = do(r, http.MethodPost, "/members", `{"name":"Ann","documents":[{"originalName":"a","url":"not a url","mimetype":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	docs := make([]string, MaxDocuments+1)
	for i := range docs {
		docs[i] = `{"originalName":"a","url":"https://cdn.example.com/a","mimetype":"x"}`
	}
	w = do(r, http.MethodPost, "/members", `{"name":"Ann","documents":[`+strings.Join(docs, ",")+`]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMembersFilters(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodGet, "/members?name=ann&mobileNo=012&userId="+userID+"&page=2&limit=5", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ListQuery{Page: 2, Limit: 5, Name: "ann", MobileNo: "012", UserID: userID}, svc.lastQuery)

	w = do(newRouter(svc, staff), http.MethodGet, "/members?createdById=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMemberPassesActor(t *testing.T) {
	member := access.Principal{UserID: userID, Role: access.RoleMember}
	svc := &fakeService{err: apperr.NotFoundf("member not found")}
	w := do(newRouter(svc, member), http.MethodGet, "/members/"+memberID, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, member, svc.lastActor)
}

func TestByUser(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, staff), http.MethodGet, "/members/user/"+userID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, userID, svc.lastUser)

	svc = &fakeService{err: apperr.Forbiddenf("members of another user are not accessible")}
	w = do(newRouter(svc, access.Principal{UserID: "other", Role: access.RoleMember}), http.MethodGet, "/members/user/"+userID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["code"])
}

func TestDeleteReferencedMember(t *testing.T) {
	svc := &fakeService{err: apperr.Conflictf("member is still referenced by other records")}
	w := do(newRouter(svc, staff), http.MethodDelete, "/members/"+memberID, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w)["code"])
}

func memberFixture() domainmembers.Member {
	return domainmembers.Member{ID: memberID, Name: "Ann", MobileNo: "0123"}
}
