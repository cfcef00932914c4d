package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/crmarques/cortexops/config"
	"github.com/crmarques/cortexops/faults"
)

func testGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Gateway{
		host:    "test",
		baseURL: server.URL,
		token:   "pat-token",
		role:    "SYSADMIN",
		client:  server.Client(),
	}
}

func TestNewDerivesHostFromAccount(t *testing.T) {
	t.Setenv(config.HostEnvVar, "")
	t.Setenv(config.PATTokenEnvVar, "")

	gateway, err := New(config.Settings{Account: "MyOrg_Cloud", PATToken: "tok"})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if gateway.Host() != "myorg-cloud.snowflakecomputing.com" {
		t.Fatalf("host derivation: got %q", gateway.Host())
	}
}

func TestNewExplicitHostIsNormalized(t *testing.T) {
	t.Parallel()

	gateway, err := New(config.Settings{Host: "My_Org.Snowflakecomputing.com", PATToken: "tok"})
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if gateway.Host() != "my-org.snowflakecomputing.com" {
		t.Fatalf("host normalization: got %q", gateway.Host())
	}
}

func TestNewRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := New(config.Settings{Account: "acct"})
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("missing token must be a config error, got %v", err)
	}
}

func TestNewRequiresHostOrAccount(t *testing.T) {
	t.Parallel()

	_, err := New(config.Settings{PATToken: "tok"})
	if !faults.IsCategory(err, faults.ConfigError) {
		t.Fatalf("missing host and account must be a config error, got %v", err)
	}
}

func TestCreateAgentOmitsRoleHeaderWhenRoleUnset(t *testing.T) {
	t.Setenv(config.RoleEnvVar, "")
	t.Setenv(config.HostEnvVar, "")
	t.Setenv(config.AccountEnvVar, "")
	t.Setenv(config.PATTokenEnvVar, "")

	resolved := config.Resolve(config.Settings{Account: "acct", PATToken: "tok"}, config.Settings{})
	gateway, err := New(resolved)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	var rolePresent bool
	var roleValue string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, rolePresent = r.Header["X-Snowflake-Role"]
		roleValue = r.Header.Get("X-Snowflake-Role")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))
	t.Cleanup(server.Close)
	gateway.baseURL = server.URL
	gateway.client = server.Client()

	if _, err := gateway.CreateAgent(context.Background(), "DB", "S", "a", map[string]any{}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rolePresent {
		t.Fatalf("no role was configured but the request carried X-Snowflake-Role: %q", roleValue)
	}
}

func TestCreateAgentEmbedsName(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	var capturedPath, capturedRole, capturedAuth string

	gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedRole = r.Header.Get("X-Snowflake-Role")
		capturedAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))

	result, err := gateway.CreateAgent(context.Background(), "MYDB", "PUBLIC", "my_agent", map[string]any{"instructions": "x"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if capturedPath != "/api/v2/databases/MYDB/schemas/PUBLIC/agents" {
		t.Fatalf("unexpected path %q", capturedPath)
	}
	if captured["name"] != "my_agent" {
		t.Fatalf("name must be embedded in the create payload, got %v", captured)
	}
	if capturedRole != "SYSADMIN" {
		t.Fatalf("role header missing, got %q", capturedRole)
	}
	if capturedAuth != "Bearer pat-token" {
		t.Fatalf("bearer auth missing, got %q", capturedAuth)
	}
	if result["status"] != "created" {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestCreateAgentDoesNotMutateCallerBody(t *testing.T) {
	t.Parallel()

	gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	body := map[string]any{"instructions": "x"}
	if _, err := gateway.CreateAgent(context.Background(), "D", "S", "n", body); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, ok := body["name"]; ok {
		t.Fatalf("caller body must not gain a name key")
	}
}

func TestUpdateAgentTargetsResourceURL(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	var capturedPath, capturedMethod string

	gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.WriteHeader(http.StatusOK)
	}))

	_, err := gateway.UpdateAgent(context.Background(), "MYDB", "PUBLIC", "my_agent", map[string]any{"instructions": "x"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if capturedMethod != http.MethodPut {
		t.Fatalf("expected PUT, got %s", capturedMethod)
	}
	if capturedPath != "/api/v2/databases/MYDB/schemas/PUBLIC/agents/my_agent" {
		t.Fatalf("unexpected path %q", capturedPath)
	}
	if _, ok := captured["name"]; ok {
		t.Fatalf("update payload must not embed the name, got %v", captured)
	}
}

func TestEmptySuccessBodyYieldsSyntheticAck(t *testing.T) {
	t.Parallel()

	gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	result, err := gateway.CreateAgent(context.Background(), "D", "S", "n", map[string]any{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result["status"] != "success" {
		t.Fatalf("expected synthetic acknowledgment, got %v", result)
	}
}

func TestNonJSONSuccessBodyIsWrapped(t *testing.T) {
	t.Parallel()

	gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK: agent stored"))
	}))

	result, err := gateway.CreateAgent(context.Background(), "D", "S", "n", map[string]any{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result["raw_response"] != "OK: agent stored" {
		t.Fatalf("raw body must be preserved as preview, got %v", result)
	}
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status   int
		category faults.ErrorCategory
	}{
		{http.StatusConflict, faults.ConflictError},
		{http.StatusUnauthorized, faults.AuthError},
		{http.StatusForbidden, faults.AuthError},
		{http.StatusNotFound, faults.NotFoundError},
		{http.StatusBadRequest, faults.TransportError},
		{http.StatusInternalServerError, faults.TransportError},
	}

	for _, tc := range cases {
		tc := tc
		gateway := testGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		}))

		_, err := gateway.CreateAgent(context.Background(), "D", "S", "n", map[string]any{})
		if !faults.IsCategory(err, tc.category) {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.category, err)
		}
	}
}
