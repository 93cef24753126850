package service

import (
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Users is served by the auth service.
type Users struct {
	client *rest.Client
}

func NewUsers(c *rest.Client) *Users {
	return &Users{client: c}
}

// Current returns the user the access token was issued to.
func (s *Users) Current() async.Call[model.Wrapped[model.User]] {
	return rest.GetItem[model.User](s.client, rest.Path("users", "_current"), nil)
}
