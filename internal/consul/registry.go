package consul

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
)

// Registration describes this front-end instance
type Registration struct {
	ID   string
	Name string
	Host string
	Port int
	Tags []string
}

// ServiceID is the stable id of the instance on host. A restarted instance
// replaces its previous registration instead of duplicating it.
func ServiceID(name, host string, port int) string {
	return fmt.Sprintf("%s-%s-%d", name, host, port)
}

// Register registers the instance with an HTTP health check on /health
func (c *Client) Register(reg Registration) error {
	registration := &consulapi.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Host,
		Port:    reg.Port,
		Tags:    reg.Tags,
		Check: &consulapi.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(reg.Host, strconv.Itoa(reg.Port)) + "/health",
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := c.api.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("consul: failed to register %s: %w", reg.ID, err)
	}
	return nil
}

// Deregister removes the instance
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("consul: failed to deregister %s: %w", serviceID, err)
	}
	return nil
}
