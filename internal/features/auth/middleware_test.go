package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/pkg/jwt"
)

type fakeAccountSource struct {
	user  *User
	owner *Owner
	admin *Admin
}

func (f *fakeAccountSource) GetUserByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeAccountSource) GetOwnerByID(_ context.Context, id primitive.ObjectID) (*Owner, error) {
	if f.owner != nil && f.owner.ID == id {
		return f.owner, nil
	}
	return nil, nil
}

func (f *fakeAccountSource) GetAdminByID(_ context.Context, id primitive.ObjectID) (*Admin, error) {
	if f.admin != nil && f.admin.ID == id {
		return f.admin, nil
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpireHours: 1}
}

func issueToken(t *testing.T, id primitive.ObjectID, role string) string {
	t.Helper()
	token, err := jwt.GenerateToken(id.Hex(), role, "test-secret", time.Hour)
	require.NoError(t, err)
	return token
}

func userRouter(src AccountSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", NewUserMiddleware(src, testConfig()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	msg, _ := payload["message"].(string)
	return msg
}

func TestUserGuard_NoHeader(t *testing.T) {
	r := userRouter(&fakeAccountSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	require.Equal(t, "authorization required", errorMessage(t, w.Body.Bytes()))
}

func TestUserGuard_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	token := issueToken(t, id, RoleUser)
	r := userRouter(&fakeAccountSource{user: &User{ID: id, Token: token}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}

func TestUserGuard_Banned(t *testing.T) {
	id := primitive.NewObjectID()
	token := issueToken(t, id, RoleUser)
	r := userRouter(&fakeAccountSource{user: &User{ID: id, Token: token, Banned: true}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	require.Equal(t, "account is banned", errorMessage(t, w.Body.Bytes()))
}

func TestUserGuard_StaleSession(t *testing.T) {
	// A newer login stored a different token; the old one must stop working.
	id := primitive.NewObjectID()
	oldToken := issueToken(t, id, RoleUser)
	newToken := issueToken(t, primitive.NewObjectID(), RoleUser)
	r := userRouter(&fakeAccountSource{user: &User{ID: id, Token: newToken}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+oldToken)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestAdminGuard_RejectsUserToken(t *testing.T) {
	id := primitive.NewObjectID()
	token := issueToken(t, id, RoleUser)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	src := &fakeAccountSource{admin: &Admin{ID: id, Token: token}}
	r.GET("/admin", NewAdminMiddleware(src, testConfig()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestAdminGuard_Valid(t *testing.T) {
	id := primitive.NewObjectID()
	token := issueToken(t, id, RoleAdmin)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	src := &fakeAccountSource{admin: &Admin{ID: id, Token: token}}
	r.GET("/admin", NewAdminMiddleware(src, testConfig()), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}
