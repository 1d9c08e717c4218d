package config

import (
	"encoding/base64"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
)

const (
	testConfigFile = "testdata/config.json"
	shopAddress    = "KT19otbQ8ZAv2UVDj9ZfR6ohPhXC6VgYH54t"
)

func Test_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		env         map[string]string
		prefix      string
		required    []string
		wantName    string
		wantRPC     string
		wantTimeout time.Duration
		wantErr     string
	}{
		{
			name:        "success: development",
			env:         map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile},
			required:    []string{"hello-tacos"},
			wantName:    "development",
			wantRPC:     "http://localhost:20000",
			wantTimeout: 90 * time.Second,
		},
		{
			name:        "success: prefixed variables",
			env:         map[string]string{"APP_TAQ_ENV": "testing", "APP_TAQ_CONFIG_FILE": testConfigFile, "TAQ_ENV": "development"},
			prefix:      "APP_",
			wantName:    "testing",
			wantRPC:     "https://ghostnet.ecadinfra.com",
			wantTimeout: 45 * time.Second,
		},
		{
			name:        "success: list with a single entry",
			env:         map[string]string{"TAQ_ENV": " testing , ", "TAQ_CONFIG_FILE": testConfigFile},
			wantName:    "testing",
			wantRPC:     "https://ghostnet.ecadinfra.com",
			wantTimeout: 45 * time.Second,
		},
		{
			name:        "success: timeout in seconds",
			env:         map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile, "TAQ_CONFIRMATION_TIMEOUT": "30"},
			wantName:    "development",
			wantRPC:     "http://localhost:20000",
			wantTimeout: 30 * time.Second,
		},
		{
			name:        "success: timeout as duration",
			env:         map[string]string{"TAQ_ENV": "testing", "TAQ_CONFIG_FILE": testConfigFile, "TAQ_CONFIRMATION_TIMEOUT": "2m"},
			wantName:    "testing",
			wantRPC:     "https://ghostnet.ecadinfra.com",
			wantTimeout: 2 * time.Minute,
		},
		{
			name:    "failure: no environment selected",
			env:     map[string]string{"TAQ_CONFIG_FILE": testConfigFile},
			wantErr: "config error: no environment selected: set TAQ_ENV",
		},
		{
			name:    "failure: no prefixed environment selected",
			env:     map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile},
			prefix:  "APP_",
			wantErr: "config error: no environment selected: set APP_TAQ_ENV",
		},
		{
			name:    "failure: ambiguous environment",
			env:     map[string]string{"TAQ_ENV": "development,testing", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: "config error: ambiguous environment: TAQ_ENV names development, testing",
		},
		{
			name:    "failure: unknown environment",
			env:     map[string]string{"TAQ_ENV": "production", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: `config error: environment "production" is not configured (known: bad-account, bad-alias, bad-url, development, no-rpc, testing)`,
		},
		{
			name:    "failure: no rpc url",
			env:     map[string]string{"TAQ_ENV": "no-rpc", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: "config error: No RPC url has been configured for your environment",
		},
		{
			name:    "failure: malformed rpc url",
			env:     map[string]string{"TAQ_ENV": "bad-url", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: "config error: invalid environment: ",
		},
		{
			name:    "failure: malformed account address",
			env:     map[string]string{"TAQ_ENV": "bad-account", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: `config error: account "eve": invalid address`,
		},
		{
			name:    "failure: malformed contract address",
			env:     map[string]string{"TAQ_ENV": "bad-alias", "TAQ_CONFIG_FILE": testConfigFile},
			wantErr: `config error: contract alias "hello-tacos": `,
		},
		{
			name:     "failure: required alias not deployed",
			env:      map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile},
			required: []string{"hello-tacos", "tacos-v2"},
			wantErr:  `config error: contract alias "tacos-v2" has no address in environment "development"`,
		},
		{
			name:     "failure: required alias absent",
			env:      map[string]string{"TAQ_ENV": "testing", "TAQ_CONFIG_FILE": testConfigFile},
			required: []string{"hello-tacos"},
			wantErr:  `config error: contract alias "hello-tacos" has no address in environment "testing"`,
		},
		{
			name:    "failure: malformed timeout",
			env:     map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile, "TAQ_CONFIRMATION_TIMEOUT": "soon"},
			wantErr: "config error: invalid TAQ_CONFIRMATION_TIMEOUT: ",
		},
		{
			name:    "failure: negative timeout",
			env:     map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile, "TAQ_CONFIRMATION_TIMEOUT": "-5"},
			wantErr: `config error: invalid TAQ_CONFIRMATION_TIMEOUT: negative timeout "-5"`,
		},
		{
			name:    "failure: missing file",
			env:     map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": "testdata/missing.json"},
			wantErr: "config error: read configuration testdata/missing.json: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(tt.env, tt.prefix, tt.required...)

			if tt.wantErr != "" {
				var configErr *sdkerrors.ConfigError
				require.ErrorAs(t, err, &configErr)
				require.ErrorContains(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name())
			assert.Equal(t, tt.wantRPC, got.RPCURL())
			assert.Equal(t, tt.wantTimeout, got.ConfirmationTimeout())
		})
	}
}

func Test_Resolve_Profile(t *testing.T) {
	t.Parallel()

	got, err := Resolve(map[string]string{"TAQ_ENV": "development", "TAQ_CONFIG_FILE": testConfigFile}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, got.AccountAliases())
	assert.Equal(t, []string{"hello-tacos", "tacos-v2"}, got.ContractAliases())

	address, ok := got.Address("hello-tacos")
	assert.True(t, ok)
	assert.Equal(t, shopAddress, address)

	_, ok = got.Address("tacos-v2")
	assert.False(t, ok)

	alice, ok := got.Account("alice")
	require.True(t, ok)
	assert.Equal(t, "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb", alice.PublicKeyHash)
	assert.NotEmpty(t, alice.SecretKey)
}

func Test_Resolve_LocalOverlay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "testdata/config.local.testing.json", LocalConfigFile(testConfigFile, "testing"))

	got, err := Resolve(map[string]string{"TAQ_ENV": "testing", "TAQ_CONFIG_FILE": testConfigFile}, "", "tacos-v2")
	require.NoError(t, err)

	// fields absent from the overlay are kept
	assert.Equal(t, []string{"joe"}, got.AccountAliases())
	address, ok := got.Address("tacos-v2")
	assert.True(t, ok)
	assert.Equal(t, shopAddress, address)
	assert.Equal(t, 45*time.Second, got.ConfirmationTimeout())

	// inline documents have no overlay
	doc, err := os.ReadFile(testConfigFile)
	require.NoError(t, err)
	got, err = Resolve(map[string]string{"TAQ_ENV": "testing", "TAQ_CONFIG": string(doc)}, "")
	require.NoError(t, err)
	assert.Zero(t, got.ConfirmationTimeout())
}

func Test_Resolve_InlineConfig(t *testing.T) {
	t.Parallel()

	doc, err := os.ReadFile(testConfigFile)
	require.NoError(t, err)

	tests := []struct {
		name    string
		give    string
		wantErr string
	}{
		{name: "success: json", give: string(doc)},
		{name: "success: base64", give: base64.StdEncoding.EncodeToString(doc)},
		{name: "failure: garbage", give: "not a config", wantErr: "config error: TAQ_CONFIG is neither JSON nor base64"},
		{name: "failure: truncated json", give: "{", wantErr: "config error: invalid configuration document"},
		{name: "failure: no environment", give: "{}", wantErr: "config error: configuration document defines no environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// the inline document takes precedence over the file
			got, err := Resolve(map[string]string{
				"TAQ_ENV":         "development",
				"TAQ_CONFIG":      tt.give,
				"TAQ_CONFIG_FILE": "testdata/missing.json",
			}, "")

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:20000", got.RPCURL())
		})
	}
}

func Test_Resolve_DefaultFile(t *testing.T) {
	t.Chdir("testdata")

	got, err := Resolve(map[string]string{"TAQ_ENV": "development"}, "", "hello-tacos")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, got.AccountAliases())
	assert.Zero(t, got.ConfirmationTimeout())
}

func Test_LoadEnv(t *testing.T) {
	t.Setenv("TAQ_ENV", "testing")
	t.Setenv("TAQ_CONFIG", "")

	env, err := LoadEnv("testdata/test.env", "testdata/override.env", "testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, "testing", env["TAQ_ENV"])
	assert.Equal(t, testConfigFile, env["TAQ_CONFIG_FILE"])
	assert.Equal(t, "from-file", env["TACOS_TEST_ONLY_IN_FILE"])
	assert.Equal(t, "second", env["TACOS_TEST_SECOND"])

	got, err := Resolve(env, "")
	require.NoError(t, err)
	assert.Equal(t, "testing", got.Name())
}

func Test_LoadEnv_Unreadable(t *testing.T) {
	t.Parallel()

	_, err := LoadEnv("testdata/.taq")

	var configErr *sdkerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	require.ErrorContains(t, err, "read testdata/.taq")
}
