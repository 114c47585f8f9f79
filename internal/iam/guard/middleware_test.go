package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"escola-gestao/internal/iam/domain/model"
	"escola-gestao/internal/iam/resolver"
	"escola-gestao/internal/iam/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	res resolver.Resolution
}

func (f *fakeResolver) Resolve(_ context.Context, _ string, _ url.Values) resolver.Resolution {
	return f.res
}

type fakeStore struct {
	snap session.Snapshot
}

func (f *fakeStore) SignIn(_ context.Context, _, _ string) (session.Login, error) {
	return session.Login{}, session.ErrInvalidCredentials
}
func (f *fakeStore) SignOut(_ context.Context, _ string) error { return nil }
func (f *fakeStore) Snapshot(_ context.Context, _ string) (session.Snapshot, error) {
	return f.snap, nil
}
func (f *fakeStore) RefreshProfile(_ context.Context, _ string) (session.Snapshot, error) {
	return f.snap, nil
}
func (f *fakeStore) Subscribe(_ func(session.Event)) func() { return func() {} }

func newProtectedRouter(res resolver.Resolution, snap session.Snapshot, req RouteRequirement) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := NewGuard(&fakeResolver{res: res}, &fakeStore{snap: snap})
	r.GET("/dashboard", g.Protect(req), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestProtectRedirecionaNavegadorPara302(t *testing.T) {
	r := newProtectedRouter(resolved(escolaA), session.Snapshot{}, Requires())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard?ref=promo", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginRoute+"?ref=promo", w.Header().Get("Location"))
}

func TestProtectUsaHXRedirectParaHTMX(t *testing.T) {
	r := newProtectedRouter(resolved(escolaA), session.Snapshot{}, Requires())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, LoginRoute, w.Header().Get("HX-Redirect"))
}

func TestProtectRenderizaQuandoAutorizado(t *testing.T) {
	snap := snapshotFor(model.RoleAdmin, &escolaA.UUID, false)
	r := newProtectedRouter(resolved(escolaA), snap, Requires(model.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestProtectRespondeLoadingCom202(t *testing.T) {
	snap := snapshotFor(model.RoleAdmin, &escolaA.UUID, false)
	snap.Profile = nil
	snap.Loading = true
	r := newProtectedRouter(resolved(escolaA), snap, Requires())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestProtectTenantInvalido(t *testing.T) {
	r := newProtectedRouter(resolver.Resolution{State: resolver.StateNotFound}, session.Snapshot{}, Requires())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r = newProtectedRouter(resolver.Resolution{State: resolver.StateLoadError}, session.Snapshot{}, Requires())
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
