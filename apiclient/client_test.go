package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/lectures/", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"l1"},{"id":"l2"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	var out []map[string]string
	require.NoError(t, c.Get(context.Background(), "/lectures/?user_id=u1", &out))
	require.Len(t, out, 2)
	assert.Equal(t, "l2", out[1]["id"])
}

func TestClient_ErrorDetailBecomesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"X"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/solver/", map[string]string{"question": ""}, nil)
	require.Error(t, err)
	assert.Equal(t, "X", err.Error())
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestClient_UnparsableErrorBodyUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}))
	defer srv.Close()

	for name, call := range map[string]func(c *Client) error{
		"get":    func(c *Client) error { return c.Get(context.Background(), "/x", nil) },
		"post":   func(c *Client) error { return c.Post(context.Background(), "/x", nil, nil) },
		"form":   func(c *Client) error { return c.PostForm(context.Background(), "/x", NewForm(), nil) },
		"delete": func(c *Client) error { return c.Delete(context.Background(), "/x", nil) },
		"patch":  func(c *Client) error { return c.Patch(context.Background(), "/x", nil, nil) },
	} {
		t.Run(name, func(t *testing.T) {
			err := call(New(srv.URL))
			require.Error(t, err)
			assert.Equal(t, "Internal Server Error", err.Error())
		})
	}
}

func TestClient_ErrorBodyVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"validation list", `{"detail":[{"loc":["body","x"],"msg":"field required"}]}`, "field required"},
		{"gotrue msg", `{"code":400,"msg":"Invalid login credentials"}`, "Invalid login credentials"},
		{"oauth description", `{"error":"invalid_grant","error_description":"Refresh token expired"}`, "Refresh token expired"},
		{"json without message", `{"ok":false}`, "API error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := New(srv.URL).Get(context.Background(), "/", nil)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestClient_PatchEncodesParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/lectures/l1/move", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := New(srv.URL).Patch(context.Background(), "/lectures/l1/move", url.Values{"subject_id": {"s2"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, "s2", gotQuery.Get("subject_id"))
}

func TestClient_PostFormSendsFieldsAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("user_id"))
		f, hdr, err := r.FormFile("audio")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "recording.webm", hdr.Filename)
		assert.Equal(t, "abc", string(data))
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "T"})
	}))
	defer srv.Close()

	form := NewForm().AddField("user_id", "u1").AddFile("audio", "recording.webm", strings.NewReader("abc"))
	var out map[string]string
	require.NoError(t, New(srv.URL).PostForm(context.Background(), "/lectures/from-recording", form, &out))
	assert.Equal(t, "T", out["title"])
}

func TestClient_HeadersAndBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithHeader("apikey", "anon"))
	require.NoError(t, c.Post(context.Background(), "/auth/v1/logout", nil, nil, WithBearer("tok")))
}

func TestNew_DefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("  ").BaseURL())
}
