//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/smartcontractkit/chainlink-testing-framework/framework"
	"github.com/spf13/cast"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ecadlabs/taco-shop/config"
	"github.com/ecadlabs/taco-shop/types"
)

const (
	defaultConfigs = "config/sandbox.toml"
	rpcPort        = "20000/tcp"
	environment    = "sandbox"
	shopAlias      = "hello-tacos"
)

// Config defines the sandbox and the accounts it is bootstrapped with.
type Config struct {
	Sandbox struct {
		Image          string `toml:"image"`
		Script         string `toml:"script"`
		BlockTime      int    `toml:"block_time"`
		StartupTimeout string `toml:"startup_timeout"`
	} `toml:"sandbox"`
	Settings struct {
		Admin    string `toml:"admin"`
		Customer string `toml:"customer"`
		Accounts map[string]struct {
			PublicKeyHash string `toml:"public_key_hash"`
			SecretKey     string `toml:"secret_key"`
		} `toml:"accounts"`
	} `toml:"settings"`
}

// Sandbox is a running flextesa node.
type Sandbox struct {
	Container testcontainers.Container
	RPCURL    string
	Config
}

// StartSandbox loads the configuration named by CTF_CONFIGS and starts the node it describes.
func StartSandbox(t *testing.T) *Sandbox {
	t.Helper()

	if os.Getenv("CTF_CONFIGS") == "" {
		t.Setenv("CTF_CONFIGS", defaultConfigs)
	}
	in, err := framework.Load[Config](t)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Secret keys may be kept out of the config file
	for alias, acc := range in.Settings.Accounts {
		if acc.SecretKey != "" {
			continue
		}
		if err = godotenv.Load("../.env"); err != nil {
			t.Logf("Failed to load .env file: %v", err)
		}
		acc.SecretKey = os.Getenv("SECRET_KEY_" + strings.ToUpper(alias))
		if acc.SecretKey == "" {
			t.Fatalf("No secret key for %s in config, .env or env variables", alias)
		}
		in.Settings.Accounts[alias] = acc
	}

	startupTimeout, err := cast.ToDurationE(in.Sandbox.StartupTimeout)
	if err != nil {
		t.Fatalf("Invalid startup_timeout: %v", err)
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: in.Sandbox.Image,
			Cmd:   []string{in.Sandbox.Script, "start"},
			Env: map[string]string{
				"block_time":                cast.ToString(in.Sandbox.BlockTime),
				"flextesa_node_cors_origin": "*",
			},
			ExposedPorts: []string{rpcPort},
			WaitingFor: wait.ForHTTP("/chains/main/blocks/head/header").
				WithPort(rpcPort).
				WithStartupTimeout(startupTimeout),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start sandbox: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to read sandbox host: %v", err)
	}
	port, err := container.MappedPort(ctx, rpcPort)
	if err != nil {
		t.Fatalf("Failed to read sandbox port: %v", err)
	}

	return &Sandbox{
		Container: container,
		RPCURL:    fmt.Sprintf("http://%s:%s", host, port.Port()),
		Config:    *in,
	}
}

// Profile resolves the sandbox through the regular configuration path, with the shop deployed
// at address.
func (s *Sandbox) Profile(t *testing.T, address string) *types.NetworkProfile {
	t.Helper()

	accounts := make(map[string]types.Account, len(s.Settings.Accounts))
	for alias, acc := range s.Settings.Accounts {
		accounts[alias] = types.Account{PublicKeyHash: acc.PublicKeyHash, SecretKey: acc.SecretKey}
	}
	doc, err := json.Marshal(config.Document{
		environment: {
			RPCURL:   s.RPCURL,
			Accounts: accounts,
			Aliases:  map[string]string{shopAlias: address},
		},
	})
	if err != nil {
		t.Fatalf("Failed to encode configuration: %v", err)
	}

	profile, err := config.Resolve(map[string]string{
		config.EnvActive: environment,
		config.EnvConfig: string(doc),
	}, "")
	if err != nil {
		t.Fatalf("Failed to resolve configuration: %v", err)
	}

	return profile
}
