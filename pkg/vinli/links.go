package vinli

import (
	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
	"github.com/vinli/vinli-net/pkg/protocol"
)

// Links returned by services are followed with the App's token. Pagination links resolve against
// the service that returned the page or series; other relative links resolve against the platform
// service. Following an absent link fails with [protocol.ErrNoLink].

// NextPage returns the page after p.
func NextPage[T any](a *App, p *model.Page[T]) async.Call[*model.Page[T]] {
	if p == nil {
		return async.Fail[*model.Page[T]](protocol.ErrNoLink)
	}
	return rest.FollowPage[T](a.linkLoader().From(p.Source), p.Meta.Links.Next)
}

// PrevPage returns the page before p.
func PrevPage[T any](a *App, p *model.Page[T]) async.Call[*model.Page[T]] {
	if p == nil {
		return async.Fail[*model.Page[T]](protocol.ErrNoLink)
	}
	return rest.FollowPage[T](a.linkLoader().From(p.Source), p.Meta.Links.Prev)
}

// NextSeries returns the window of newer items after s.
func NextSeries[T any](a *App, s *model.TimeSeries[T]) async.Call[*model.TimeSeries[T]] {
	if s == nil {
		return async.Fail[*model.TimeSeries[T]](protocol.ErrNoLink)
	}
	return rest.FollowSeries[T](a.linkLoader().From(s.Source), s.Meta.Links.Next)
}

// PriorSeries returns the window of older items before s.
func PriorSeries[T any](a *App, s *model.TimeSeries[T]) async.Call[*model.TimeSeries[T]] {
	if s == nil {
		return async.Fail[*model.TimeSeries[T]](protocol.ErrNoLink)
	}
	return rest.FollowSeries[T](a.linkLoader().From(s.Source), s.Meta.Links.Prior)
}

// FollowItem fetches the resource at link, such as a value from [model.Links].
func FollowItem[T any](a *App, link string) async.Call[T] {
	return async.Map(rest.FollowItem[T](a.linkLoader(), link), model.PluckItem[T])
}
