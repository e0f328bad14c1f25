package subscription_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emaillist/subscription"
	"github.com/dmitrymomot/emaillist/token"
)

func TestService_UnsubscribeURL(t *testing.T) {
	t.Parallel()

	signer := token.New("test-secret")
	svc, err := subscription.New(
		subscription.Config{SiteURL: "https://example.com/"},
		subscription.NewMemoryStore(),
		signer,
		&sendRecorder{},
	)
	require.NoError(t, err)

	link := svc.UnsubscribeURL(subscription.ForEmail("guest@example.com"), "weekly news")

	assert.True(t, strings.HasPrefix(link, "https://example.com/unsubscribe/"))
	assert.True(t, strings.HasSuffix(link, "/"))

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	parts := strings.Split(strings.Trim(parsed.EscapedPath(), "/"), "/")
	require.Len(t, parts, 4)
	assert.Equal(t, "unsubscribe", parts[0])

	addr, err := url.PathUnescape(parts[1])
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", addr)

	tok, err := url.PathUnescape(parts[2])
	require.NoError(t, err)
	assert.True(t, signer.Verify(tok), "embedded token must verify")

	listName, err := url.PathUnescape(parts[3])
	require.NoError(t, err)
	assert.Equal(t, "weekly news", listName)
}

func TestService_ConfirmURL(t *testing.T) {
	t.Parallel()

	signer := token.New("test-secret")
	svc, err := subscription.New(
		subscription.Config{SiteURL: "https://example.com"},
		subscription.NewMemoryStore(),
		signer,
		&sendRecorder{},
	)
	require.NoError(t, err)

	link := svc.ConfirmURL("guest@example.com", "news")
	assert.True(t, strings.HasPrefix(link, "https://example.com/confirm/"))
	assert.Contains(t, link, "/news/")
}
