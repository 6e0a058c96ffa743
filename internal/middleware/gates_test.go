package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/lensfolio/backoffice/internal/auth"
	"github.com/lensfolio/backoffice/internal/database/testutil"
	"github.com/lensfolio/backoffice/internal/middleware"
	"github.com/lensfolio/backoffice/internal/models"
	"github.com/lensfolio/backoffice/internal/rbac"
	"github.com/lensfolio/backoffice/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gateFixture struct {
	db       *gorm.DB
	resolver *rbac.Resolver
	jwt      *iauth.JWTService
	audit    *services.AuditService
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	resolver, err := rbac.NewResolver(db)
	require.NoError(t, err)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret-used-only-in-tests",
		Issuer:         "backoffice-test",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	return &gateFixture{db: db, resolver: resolver, jwt: jwtSvc, audit: audit}
}

func (f *gateFixture) createUser(t *testing.T, email string) models.User {
	t.Helper()
	user := models.User{Name: email, Email: email, Password: "x", IsActive: true}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *gateFixture) grantRole(t *testing.T, user models.User, name string) {
	t.Helper()
	role := models.Role{Name: name}
	require.NoError(t, f.db.FirstOrCreate(&role, models.Role{Name: name}).Error)
	require.NoError(t, f.db.Model(&user).Association("Roles").Append(&role))
}

func (f *gateFixture) grantPermission(t *testing.T, user models.User, key string) {
	t.Helper()
	perm := models.Permission{Key: key, Name: key, Module: "test"}
	require.NoError(t, f.db.FirstOrCreate(&perm, models.Permission{Key: key}).Error)
	require.NoError(t, f.db.Model(&user).Association("DirectPermissions").Append(&perm))
}

func (f *gateFixture) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)
	return token
}

func (f *gateFixture) router(gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{middleware.Auth(f.jwt)}, gates...)
	handlers := append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/guarded", handlers...)
	return r
}

func performRequest(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	f := newGateFixture(t)
	r := f.router()

	w := performRequest(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeError(t, w)
	require.False(t, body.Success)
	require.Equal(t, "UNAUTHORIZED", body.Error.Code)
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequireRole(f.resolver, f.audit, rbac.RoleSuperAdmin, rbac.RoleAdmin))

	admin := f.createUser(t, "admin@example.com")
	f.grantRole(t, admin, rbac.RoleAdmin)

	w := performRequest(r, f.tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleDeniesWithAllowList(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequireRole(f.resolver, f.audit, rbac.RoleSuperAdmin))

	editor := f.createUser(t, "editor@example.com")
	f.grantRole(t, editor, rbac.RoleEditor)

	w := performRequest(r, f.tokenFor(t, editor))
	require.Equal(t, http.StatusForbidden, w.Code)

	body := decodeError(t, w)
	require.Equal(t, "FORBIDDEN", body.Error.Code)
	require.Equal(t, []any{rbac.RoleSuperAdmin}, body.Error.Details["required_roles"])
}

func TestRequirePermissionUsesEffectiveSet(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequirePermission(f.resolver, f.audit, rbac.PermProjectsView))

	// Role-derived grant satisfies the gate.
	viaRole := f.createUser(t, "role@example.com")
	role := models.Role{Name: "ProjectViewers"}
	require.NoError(t, f.db.Create(&role).Error)
	perm := models.Permission{Key: rbac.PermProjectsView, Name: "View projects", Module: "projects"}
	require.NoError(t, f.db.Create(&perm).Error)
	require.NoError(t, f.db.Model(&role).Association("Permissions").Append(&perm))
	require.NoError(t, f.db.Model(&viaRole).Association("Roles").Append(&role))

	w := performRequest(r, f.tokenFor(t, viaRole))
	require.Equal(t, http.StatusOK, w.Code)

	// Direct grant satisfies it just the same.
	viaDirect := f.createUser(t, "direct@example.com")
	require.NoError(t, f.db.Model(&viaDirect).Association("DirectPermissions").Append(&perm))

	w = performRequest(r, f.tokenFor(t, viaDirect))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniesWithAllowList(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequirePermission(f.resolver, f.audit, rbac.PermRolesManage))

	user := f.createUser(t, "plain@example.com")
	f.grantPermission(t, user, rbac.PermRolesView)

	w := performRequest(r, f.tokenFor(t, user))
	require.Equal(t, http.StatusForbidden, w.Code)

	body := decodeError(t, w)
	require.Equal(t, []any{rbac.PermRolesManage}, body.Error.Details["required_permissions"])
}

func TestNestedGatesComposeAsConjunction(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(
		middleware.RequireRole(f.resolver, f.audit, rbac.RoleSuperAdmin),
		middleware.RequirePermission(f.resolver, f.audit, rbac.PermRolesManage),
	)

	// Role without the permission is stopped at the second gate.
	roleOnly := f.createUser(t, "roleonly@example.com")
	f.grantRole(t, roleOnly, rbac.RoleSuperAdmin)

	w := performRequest(r, f.tokenFor(t, roleOnly))
	require.Equal(t, http.StatusForbidden, w.Code)

	// Both grants pass.
	both := f.createUser(t, "both@example.com")
	f.grantRole(t, both, rbac.RoleSuperAdmin)
	f.grantPermission(t, both, rbac.PermRolesManage)

	w = performRequest(r, f.tokenFor(t, both))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleIgnoresDirectPermissionGrants(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequireRole(f.resolver, f.audit, rbac.RoleSuperAdmin, rbac.RoleAdmin))

	// Direct grants satisfy permission gates only. A user holding every
	// admin permission but no role membership stays outside the role gate.
	user := f.createUser(t, "grants-only@example.com")
	f.grantPermission(t, user, rbac.PermRolesManage)
	f.grantPermission(t, user, rbac.PermUsersManage)

	w := performRequest(r, f.tokenFor(t, user))
	require.Equal(t, http.StatusForbidden, w.Code)

	body := decodeError(t, w)
	require.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestDeniedRequestLandsOnAuditTrail(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequirePermission(f.resolver, f.audit, rbac.PermRolesManage))

	user := f.createUser(t, "denied@example.com")

	w := performRequest(r, f.tokenFor(t, user))
	require.Equal(t, http.StatusForbidden, w.Code)

	var logs []models.AuditLog
	require.NoError(t, f.db.Where("action = ?", "authz.denied").Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "denied", logs[0].Result)
	require.NotNil(t, logs[0].UserID)
	require.Equal(t, user.ID, *logs[0].UserID)
	require.Contains(t, string(logs[0].Details), rbac.PermRolesManage)

	// An allowed pass leaves no denial record behind.
	f.grantPermission(t, user, rbac.PermRolesManage)
	w = performRequest(r, f.tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Where("action = ?", "authz.denied").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGateTreatsDeletedUserAsUnauthenticated(t *testing.T) {
	f := newGateFixture(t)
	r := f.router(middleware.RequirePermission(f.resolver, f.audit, rbac.PermProjectsView))

	user := f.createUser(t, "ghost@example.com")
	token := f.tokenFor(t, user)
	require.NoError(t, f.db.Delete(&models.User{}, "id = ?", user.ID).Error)

	w := performRequest(r, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
