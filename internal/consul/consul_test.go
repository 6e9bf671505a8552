package consul

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeAgent answers the few Consul HTTP endpoints the client uses
type fakeAgent struct {
	mu           sync.Mutex
	entries      string
	registered   map[string]any
	deregistered string
}

func (f *fakeAgent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/v1/health/service/"):
		if r.URL.Query().Get("passing") == "" {
			http.Error(w, "expected passing filter", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.entries))
	case r.URL.Path == "/v1/agent/service/register":
		json.NewDecoder(r.Body).Decode(&f.registered)
	case strings.HasPrefix(r.URL.Path, "/v1/agent/service/deregister/"):
		f.deregistered = strings.TrimPrefix(r.URL.Path, "/v1/agent/service/deregister/")
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, agent *fakeAgent) *Client {
	t.Helper()

	server := httptest.NewServer(agent)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestDiscover(t *testing.T) {
	agent := &fakeAgent{entries: `[
		{"Node": {"Node": "n1", "Address": "10.0.0.5"}, "Service": {"ID": "api-1", "Service": "carrental-api", "Address": "", "Port": 8080}},
		{"Node": {"Node": "n2", "Address": "10.0.0.6"}, "Service": {"ID": "api-2", "Service": "carrental-api", "Address": "api.internal", "Port": 9090}}
	]`}
	client := newTestClient(t, agent)

	instances, err := client.Discover(context.Background(), "carrental-api")
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("Expected 2 instances, got %d", len(instances))
	}
	if instances[0].Host() != "10.0.0.5:8080" {
		t.Errorf("Expected node address fallback, got %s", instances[0].Host())
	}
	if instances[1].Host() != "api.internal:9090" {
		t.Errorf("Expected service address, got %s", instances[1].Host())
	}
}

func TestServiceURL(t *testing.T) {
	agent := &fakeAgent{entries: `[{"Node": {"Address": "10.0.0.5"}, "Service": {"ID": "api-1", "Port": 8080}}]`}
	client := newTestClient(t, agent)

	url, err := client.ServiceURL(context.Background(), "carrental-api", "/api/")
	if err != nil {
		t.Fatalf("ServiceURL() error = %v", err)
	}
	if url != "http://10.0.0.5:8080/api" {
		t.Errorf("Expected http://10.0.0.5:8080/api, got %s", url)
	}
}

func TestDiscover_NoInstances(t *testing.T) {
	client := newTestClient(t, &fakeAgent{entries: `[]`})

	_, err := client.Discover(context.Background(), "carrental-api")
	if !errors.Is(err, ErrNoInstances) {
		t.Errorf("Expected ErrNoInstances, got %v", err)
	}
}

func TestRegisterAndDeregister(t *testing.T) {
	agent := &fakeAgent{}
	client := newTestClient(t, agent)

	id := ServiceID("carrental-web", "web-1", 3000)
	if id != "carrental-web-web-1-3000" {
		t.Errorf("Unexpected service id %s", id)
	}

	err := client.Register(Registration{ID: id, Name: "carrental-web", Host: "web-1", Port: 3000, Tags: []string{"web"}})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	agent.mu.Lock()
	check, _ := agent.registered["Check"].(map[string]any)
	name := agent.registered["Name"]
	agent.mu.Unlock()

	if name != "carrental-web" {
		t.Errorf("Expected name carrental-web, got %v", name)
	}
	if check == nil || check["HTTP"] != "http://web-1:3000/health" {
		t.Errorf("Expected a /health check, got %v", check)
	}

	if err := client.Deregister(id); err != nil {
		t.Fatalf("Deregister() error = %v", err)
	}
	agent.mu.Lock()
	defer agent.mu.Unlock()
	if agent.deregistered != id {
		t.Errorf("Expected %s to be deregistered, got %q", id, agent.deregistered)
	}
}
