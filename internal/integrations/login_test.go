package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)

		var creds map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "mindsdb", creds["username"])
		assert.Equal(t, "secret", creds["password"])

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestLoginMindsDB(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{name: "token field", status: http.StatusOK, body: `{"token":"tok-1"}`, want: "tok-1"},
		{name: "session fallback", status: http.StatusOK, body: `{"session":"sess-1"}`, want: "sess-1"},
		{name: "token preferred", status: http.StatusOK, body: `{"token":"tok-2","session":"sess-2"}`, want: "tok-2"},
		{name: "empty values", status: http.StatusOK, body: `{"token":""}`, wantErr: true},
		{name: "empty body", status: http.StatusOK, body: ``, wantErr: true},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail":"bad credentials"}`, wantErr: true},
		{name: "malformed", status: http.StatusOK, body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := loginServer(t, tt.status, tt.body)
			defer srv.Close()

			got, err := LoginMindsDB(context.Background(), srv.Client(), srv.URL+"/", "mindsdb", "secret")
			if tt.wantErr {
				require.Error(t, err)
				var loginErr *LoginError
				assert.True(t, errors.As(err, &loginErr))
				assert.Equal(t, srv.URL+"/api/login", loginErr.URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoginMindsDB_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := LoginMindsDB(context.Background(), http.DefaultClient, url, "u", "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &LoginError{}))
}
