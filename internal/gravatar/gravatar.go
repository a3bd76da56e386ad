package gravatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client looks up avatar URLs for email addresses. Implementations are
// best-effort: callers swallow lookup failures.
type Client interface {
	AvatarURL(ctx context.Context, email string) (string, error)
}

// Service resolves avatars against the public Gravatar endpoint.
type Service struct {
	baseURL string
	client  *http.Client
}

// NewService returns a Gravatar client with a short request timeout so a
// slow lookup never stalls signup.
func NewService() *Service {
	return &Service{
		baseURL: "https://www.gravatar.com/avatar",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// AvatarURL returns the Gravatar image URL for email, or an error when no
// image is registered for that address.
func (s *Service) AvatarURL(ctx context.Context, email string) (string, error) {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	url := fmt.Sprintf("%s/%s?s=250&d=404", s.baseURL, hex.EncodeToString(sum[:]))

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("no gravatar image for %s (status %d)", email, resp.StatusCode)
	}
	return url, nil
}
