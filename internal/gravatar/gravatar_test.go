package gravatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewService()
	svc.baseURL = server.URL

	url, err := svc.AvatarURL(context.Background(), "Alice@X.com ")
	require.NoError(t, err)
	assert.Contains(t, url, server.URL)

	// Hash is computed over the trimmed, lowercased address.
	assert.Equal(t, "/77df0c091681b71e32b643dc62e4a567", requestedPath)
}

func TestAvatarURLNotRegistered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService()
	svc.baseURL = server.URL

	_, err := svc.AvatarURL(context.Background(), "nobody@x.com")
	assert.Error(t, err)
}
