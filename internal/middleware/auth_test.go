package middleware

import (
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/token"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail map[string]*model.User
}

func (r *stubUserRepo) Create(context.Context, *model.User) error { return nil }

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetByUsername(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) UpdateRefreshToken(context.Context, uint, string) error { return nil }

func (r *stubUserRepo) RotateRefreshToken(context.Context, uint, string, string) (bool, error) {
	return false, nil
}

func (r *stubUserRepo) UpdateAvatar(context.Context, uint, string) error { return nil }

func (r *stubUserRepo) MarkVerified(context.Context, uint) error { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newAuthRouter(tokens *token.Service, users repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(tokens, users), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	tokens := token.NewService("test-secret", 150*60, 7*24*3600, 24*3600)
	users := &stubUserRepo{byEmail: map[string]*model.User{
		"alice@x.com": {ID: 1, Username: "alice01", Email: "alice@x.com"},
	}}
	router := newAuthRouter(tokens, users)

	do := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid access token", func(t *testing.T) {
		access, err := tokens.IssueAccessToken("alice@x.com")
		require.NoError(t, err)

		rec := do("Bearer " + access)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "alice@x.com")
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Token abc").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage").Code)
	})

	t.Run("refresh token rejected on access routes", func(t *testing.T) {
		refresh, err := tokens.IssueRefreshToken("alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+refresh).Code)
	})

	t.Run("unknown subject", func(t *testing.T) {
		access, err := tokens.IssueAccessToken("ghost@x.com")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, do("Bearer "+access).Code)
	})
}
