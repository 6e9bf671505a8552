// Package consul locates the car-rental backend through HashiCorp Consul and
// registers the front-end so the load balancer can health-check it.
package consul

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// Client wraps the Consul API client
type Client struct {
	api *consulapi.Client
}

// NewClient creates a Consul client. addr may carry an http:// or https:// scheme.
func NewClient(addr, token string) (*Client, error) {
	config := consulapi.DefaultConfig()
	config.Address = addr
	if token != "" {
		config.Token = token
	}

	client, err := consulapi.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("consul: failed to create client: %w", err)
	}
	return &Client{api: client}, nil
}
