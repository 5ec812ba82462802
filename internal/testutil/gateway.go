// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/idilsaglam/userboard/internal/gateway"
	"github.com/idilsaglam/userboard/internal/model"
)

// FakeGateway is an in-memory gateway.Gateway that records calls.
// Set a Fail* field to make the matching call return a network error.
type FakeGateway struct {
	mu sync.Mutex

	Users []model.User
	Todos []model.Todo
	Posts []model.Post

	FailUsers  bool
	FailTodos  bool
	FailPosts  bool
	FailUpdate bool
	FailDelete bool

	// Block, when non-nil, is received from before FetchUsers returns.
	Block chan struct{}

	Calls   map[string]int
	Deleted []int
	Updated []model.Post
}

var _ gateway.Gateway = (*FakeGateway)(nil)

func (f *FakeGateway) record(op string) {
	if f.Calls == nil {
		f.Calls = map[string]int{}
	}
	f.Calls[op]++
}

// CallCount returns how many times op was invoked.
func (f *FakeGateway) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[op]
}

// TotalCalls returns the number of gateway calls of any kind.
func (f *FakeGateway) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func netErr(op string) error {
	return &gateway.Error{Op: op, Kind: gateway.ErrNetwork, Err: fmt.Errorf("simulated")}
}

func (f *FakeGateway) FetchUsers(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	f.record("FetchUsers")
	block, fail := f.Block, f.FailUsers
	out := append([]model.User(nil), f.Users...)
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, netErr("fetch users")
	}
	return out, nil
}

func (f *FakeGateway) FetchTodos(ctx context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchTodos")
	if f.FailTodos {
		return nil, netErr("fetch todos")
	}
	return append([]model.Todo(nil), f.Todos...), nil
}

func (f *FakeGateway) FetchPostsByUser(ctx context.Context, userID int) ([]model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchPostsByUser")
	if f.FailPosts {
		return nil, netErr("fetch posts")
	}
	var out []model.Post
	for _, p := range f.Posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakeGateway) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdatePost")
	if f.FailUpdate {
		return model.Post{}, netErr("update post")
	}
	f.Updated = append(f.Updated, post)
	return post, nil
}

func (f *FakeGateway) DeletePost(ctx context.Context, postID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeletePost")
	if f.FailDelete {
		return netErr("delete post")
	}
	f.Deleted = append(f.Deleted, postID)
	return nil
}

// SampleUsers returns the first two JSONPlaceholder users.
func SampleUsers() []model.User {
	return []model.User{
		{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"},
		{ID: 2, Name: "Ervin Howell", Email: "Shanna@melissa.tv"},
	}
}

// SampleTodos returns n todos owned alternately by users 1 and 2,
// with the first `completed` of them marked completed.
func SampleTodos(n, completed int) []model.Todo {
	out := make([]model.Todo, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Todo{
			ID:        i,
			Title:     fmt.Sprintf("todo %02d", i),
			Completed: i <= completed,
			UserID:    1 + (i-1)%2,
		})
	}
	return out
}

// SamplePosts returns posts 1..n for userID.
func SamplePosts(userID, n int) []model.Post {
	out := make([]model.Post, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, model.Post{
			ID:     i,
			Title:  fmt.Sprintf("post %d", i),
			Body:   fmt.Sprintf("body %d", i),
			UserID: userID,
		})
	}
	return out
}
