package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/userboard/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", Token: "secret", HTTP: srv.Client()})
}

func TestFetchUsers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[{"id":1,"name":"Leanne Graham","email":"Sincere@april.biz","username":"Bret"}]`))
	})

	users, err := c.FetchUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.User{{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"}}, users)
}

func TestFetchTodosKeepsArrivalOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"title":"c","completed":true,"userId":2},{"id":1,"title":"a","completed":false,"userId":1}]`))
	})

	todos, err := c.FetchTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, 3, todos[0].ID)
	assert.True(t, todos[0].Completed)
	assert.Equal(t, 1, todos[1].ID)
}

func TestFetchPostsByUserSendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("userId"))
		w.Write([]byte(`[{"id":31,"title":"t","body":"b","userId":4}]`))
	})

	posts, err := c.FetchPostsByUser(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []model.Post{{ID: 31, Title: "t", Body: "b", UserID: 4}}, posts)
}

func TestUpdatePostSendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/posts/7", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		var p model.Post
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "new title", p.Title)
		json.NewEncoder(w).Encode(p)
	})

	got, err := c.UpdatePost(context.Background(), model.Post{ID: 7, Title: "new title", Body: "b", UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
}

func TestDeletePost(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/posts/7", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.DeletePost(context.Background(), 7))
	assert.True(t, called)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusInternalServerError, ErrNetwork},
		{http.StatusBadGateway, ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.status)
			})
			_, err := c.UpdatePost(context.Background(), model.Post{ID: 1})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tc.status, gerr.Status)
			assert.Equal(t, "update post", gerr.Op)
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url})
	_, err := c.FetchUsers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestMalformedBodyIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})
	_, err := c.FetchTodos(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.FetchUsers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Op: "delete post", Status: 500, Kind: ErrNetwork}
	assert.Equal(t, "delete post: network error (status 500)", err.Error())
}
