package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotAgent
}

func TestExtractTag(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "compact json", body: `{"url":"x","tag_name":"v2.0.0","name":"Release"}`, want: "v2.0.0"},
		{name: "first occurrence wins", body: `{"tag_name":"v1.0.0","assets":[{"tag_name":"v9"}]}`, want: "v1.0.0"},
		{name: "no key", body: `{"name":"v2.0.0"}`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
		{name: "unterminated", body: `{"tag_name":"v2.0.0`, wantErr: true},
		{name: "key at end", body: `{"tag_name":`, wantErr: true},
		{name: "whitespace shifts the scan", body: `{"tag_name": "v2.0.0"}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTag(tt.body)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errdefs.IsType(err, errdefs.ErrTypeUpdateCheck))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNewerOrdinal(t *testing.T) {
	tests := []struct {
		remote, local string
		want          bool
	}{
		{"v2.0.0", "v1.5.0", true},
		{"v1.5.0", "v1.5.0", false},
		{"v1.4.9", "v1.5.0", false},
		// Lexical ordering: "v10.0" sorts before "v9.0".
		{"v10.0", "v9.0", false},
	}

	for _, tt := range tests {
		got, err := IsNewer(tt.remote, tt.local, CompareOrdinal)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.remote, tt.local)
	}
}

func TestIsNewerSemver(t *testing.T) {
	got, err := IsNewer("v10.0", "v9.0", CompareSemver)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = IsNewer("v1.5.0", "v1.5.0", CompareSemver)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = IsNewer("latest", "v1.0.0", CompareSemver)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Run("newer release", func(t *testing.T) {
		srv, agent := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0","draft":false}`)
		c := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second)

		res, err := c.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Available)
		assert.Equal(t, "v2.0.0", res.Remote)
		assert.Equal(t, "v1.5.0", res.Local)
		assert.Equal(t, "BBDInstaller", *agent)
	})

	t.Run("same release", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusOK, `{"tag_name":"v1.5.0"}`)
		c := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second)

		res, err := c.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusOK, `{"message":"Not Found"}`)
		c := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second)

		res, err := c.Check(context.Background())
		assert.Error(t, err)
		assert.False(t, res.Available)
	})

	t.Run("http error", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusForbidden, `{"tag_name":"v9.9.9"}`)
		c := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second)

		_, err := c.Check(context.Background())
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"tag_name":"v9.9.9"}`))
		}))
		defer srv.Close()
		c := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", 20*time.Millisecond)

		_, err := c.Check(context.Background())
		assert.Error(t, err)
	})
}

func TestCmd(t *testing.T) {
	t.Run("reports available update", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0"}`)
		msg := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second).Cmd()()

		avail, ok := msg.(AvailableMsg)
		require.True(t, ok)
		assert.Equal(t, "v2.0.0", avail.Result.Remote)
	})

	t.Run("swallows failures", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusOK, `garbage`)
		msg := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second).Cmd()()
		assert.Nil(t, msg)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		msg := NewChecker("http://127.0.0.1:1/releases/latest", "BBDInstaller", "v1.5.0", time.Second).Cmd()()
		assert.Nil(t, msg)
	})

	t.Run("up to date", func(t *testing.T) {
		srv, _ := releaseServer(t, http.StatusOK, `{"tag_name":"v1.5.0"}`)
		msg := NewChecker(srv.URL, "BBDInstaller", "v1.5.0", time.Second).Cmd()()
		assert.Nil(t, msg)
	})
}
