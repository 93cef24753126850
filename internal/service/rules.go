package service

import (
	"net/http"

	"github.com/vinli/vinli-net/internal/rest"
	"github.com/vinli/vinli-net/pkg/async"
	"github.com/vinli/vinli-net/pkg/model"
)

// Rules is served by the rules service.
type Rules struct {
	client *rest.Client
}

func NewRules(c *rest.Client) *Rules {
	return &Rules{client: c}
}

func (s *Rules) ForDevice(deviceID string, limit, offset *int) async.Call[*model.Page[model.Rule]] {
	return rest.GetPage[model.Rule](s.client, rest.Path("devices", deviceID, "rules"), model.PageValues(limit, offset))
}

func (s *Rules) Get(ruleID string) async.Call[model.Wrapped[model.Rule]] {
	return rest.GetItem[model.Rule](s.client, rest.Path("rules", ruleID), nil)
}

func (s *Rules) Create(deviceID string, seed model.RuleSeed) async.Call[model.Wrapped[model.Rule]] {
	return rest.SendItem[model.Rule](s.client, http.MethodPost, rest.Path("devices", deviceID, "rules"), seed)
}

func (s *Rules) Delete(ruleID string) async.Call[struct{}] {
	return rest.Delete(s.client, rest.Path("rules", ruleID))
}
