package consul

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"

	consulapi "github.com/hashicorp/consul/api"
)

// ErrNoInstances is returned when a service has no healthy instance
var ErrNoInstances = errors.New("consul: no healthy instances")

// Instance is one healthy instance of a service
type Instance struct {
	ID      string
	Address string
	Port    int
}

// Host returns the instance as host:port
func (i Instance) Host() string {
	return net.JoinHostPort(i.Address, strconv.Itoa(i.Port))
}

// Discover returns the healthy instances of service
func (c *Client) Discover(ctx context.Context, service string) ([]Instance, error) {
	opts := (&consulapi.QueryOptions{}).WithContext(ctx)

	entries, _, err := c.api.Health().Service(service, "", true, opts)
	if err != nil {
		return nil, fmt.Errorf("consul: failed to discover %s: %w", service, err)
	}

	instances := make([]Instance, 0, len(entries))
	for _, entry := range entries {
		if entry.Service == nil {
			continue
		}
		inst := Instance{
			ID:      entry.Service.ID,
			Address: entry.Service.Address,
			Port:    entry.Service.Port,
		}
		// agents register services without an address on the node address
		if inst.Address == "" && entry.Node != nil {
			inst.Address = entry.Node.Address
		}
		instances = append(instances, inst)
	}

	if len(instances) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoInstances, service)
	}
	return instances, nil
}

// ServiceURL picks a random healthy instance of service and returns its base
// URL with basePath appended, e.g. http://10.0.0.5:8080/api.
func (c *Client) ServiceURL(ctx context.Context, service, basePath string) (string, error) {
	instances, err := c.Discover(ctx, service)
	if err != nil {
		return "", err
	}

	inst := instances[rand.IntN(len(instances))]
	return "http://" + inst.Host() + "/" + strings.Trim(basePath, "/"), nil
}
