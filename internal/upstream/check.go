package upstream

import (
	"github.com/sony/gobreaker/v2"
	"github.com/tavsec/gin-healthcheck/checks"
)

type breakerCheck struct {
	client *Client
}

// Check reports unhealthy only while the breaker is fully open.
func (c *Client) Check() checks.Check {
	return &breakerCheck{client: c}
}

func (check *breakerCheck) Pass() bool {
	return check.client.State() != gobreaker.StateOpen
}

func (check *breakerCheck) Name() string {
	return "upstream-" + check.client.Name()
}
