package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")

type fakeTracker struct {
	tasksBody string
	userCode  int
	authURL   string
	hits      map[string]int
}

func (f *fakeTracker) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/", func(w http.ResponseWriter, r *http.Request) {
		f.hits["user"]++
		if f.userCode != 0 {
			w.WriteHeader(f.userCode)
			fmt.Fprint(w, "nope")
			return
		}
		fmt.Fprintf(w, `{"address":%q,"points":42,"registered":true}`, testAddr.Hex())
	})
	mux.HandleFunc("/api/tasks/", func(w http.ResponseWriter, r *http.Request) {
		f.hits["tasks"]++
		fmt.Fprint(w, f.tasksBody)
	})
	mux.HandleFunc("/api/auth/", func(w http.ResponseWriter, r *http.Request) {
		f.hits["auth"]++
		fmt.Fprintf(w, `{"url":%q}`, f.authURL)
	})
	return mux
}

func newTracker(t *testing.T, f *fakeTracker) *Client {
	f.hits = map[string]int{}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", zerolog.Nop())
}

func TestUserInfo(t *testing.T) {
	c := newTracker(t, &fakeTracker{})
	u, err := c.UserInfo(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.Points)
	assert.True(t, u.Registered)
}

func TestVerifyWithoutSwapTask(t *testing.T) {
	f := &fakeTracker{tasksBody: `{"tasks":{"bridge":true}}`}
	c := newTracker(t, f)

	called := false
	_, err := c.Verify(context.Background(), testAddr, func(string) error { called = true; return nil })
	require.NoError(t, err)
	assert.False(t, called)
	assert.Zero(t, f.hits["auth"])
}

func TestVerifySwapTaskAsksForAuthorization(t *testing.T) {
	f := &fakeTracker{tasksBody: `{"tasks":{"swap":false}}`, authURL: "https://x.example/oauth?state=1"}
	c := newTracker(t, f)

	var got string
	_, err := c.Verify(context.Background(), testAddr, func(url string) error { got = url; return nil })
	require.NoError(t, err)
	assert.Equal(t, "https://x.example/oauth?state=1", got)
	assert.Equal(t, 1, f.hits["auth"])
}

func TestVerifyAbortsOnUserError(t *testing.T) {
	f := &fakeTracker{userCode: http.StatusBadGateway}
	c := newTracker(t, f)

	_, err := c.Verify(context.Background(), testAddr, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Zero(t, f.hits["tasks"])
}

func TestVerifyAbortsWhenOperatorDeclines(t *testing.T) {
	f := &fakeTracker{tasksBody: `{"tasks":{"swap":true}}`, authURL: "https://x.example"}
	c := newTracker(t, f)

	declined := errors.New("declined")
	_, err := c.Verify(context.Background(), testAddr, func(string) error { return declined })
	assert.ErrorIs(t, err, declined)
}

func TestAuthURLEmpty(t *testing.T) {
	f := &fakeTracker{tasksBody: `{"tasks":{"swap":true}}`}
	c := newTracker(t, f)

	_, err := c.Verify(context.Background(), testAddr, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty authorization url")
}

func TestBadJSON(t *testing.T) {
	f := &fakeTracker{tasksBody: `{not json`}
	c := newTracker(t, f)
	_, err := c.TaskStatus(context.Background(), testAddr)
	require.Error(t, err)
}
