package revalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	resource string
	auth     string
}

func frontend(t *testing.T, status int) (*httptest.Server, func() []received) {
	t.Helper()
	var mu sync.Mutex
	var got []received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Resource string `json:"resource"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		got = append(got, received{resource: body.Resource, auth: r.Header.Get("Authorization")})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []received {
		mu.Lock()
		defer mu.Unlock()
		return append([]received(nil), got...)
	}
}

func TestClientSend(t *testing.T) {
	srv, got := frontend(t, http.StatusOK)
	c := New(srv.URL, "s3cret")

	require.NoError(t, c.Send(context.Background(), "skills"))

	reqs := got()
	require.Len(t, reqs, 1)
	assert.Equal(t, "skills", reqs[0].resource)

	token, ok := strings.CutPrefix(reqs[0].auth, "Bearer ")
	require.True(t, ok)
	claims, err := Verify(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "skills", claims.Subject)

	_, err = Verify(token, "other")
	assert.Error(t, err)
}

func TestClientSendStatus(t *testing.T) {
	srv, _ := frontend(t, http.StatusUnauthorized)
	c := New(srv.URL, "s3cret")

	err := c.Send(context.Background(), "profile")
	assert.ErrorContains(t, err, "401")
}

func TestClientNotifyWait(t *testing.T) {
	srv, got := frontend(t, http.StatusOK)
	c := New(srv.URL, "s3cret")

	c.Notify("articles")
	c.Notify("pricing")
	c.Wait()

	var names []string
	for _, r := range got() {
		names = append(names, r.resource)
	}
	assert.ElementsMatch(t, []string{"articles", "pricing"}, names)
}

func TestNotifyFailureIsSwallowed(t *testing.T) {
	c := New("http://127.0.0.1:1/unreachable", "s3cret")
	c.Notify("skills")
	c.Wait()
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	n.Notify("skills")
}
