// Package config resolves the active network profile from a taqueria style configuration
// document and the process environment.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	jsonutil "github.com/ecadlabs/taco-shop/internal/utils/json"
	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

// Variable names, read with the caller's prefix.
const (
	EnvConfig              = "TAQ_CONFIG"
	EnvConfigFile          = "TAQ_CONFIG_FILE"
	EnvActive              = "TAQ_ENV"
	EnvConfirmationTimeout = "TAQ_CONFIRMATION_TIMEOUT"
)

// DefaultConfigFile is read, relative to the working directory, when the environment names no
// configuration.
const DefaultConfigFile = ".taq/config.json"

const errNoRPCURL = "No RPC url has been configured for your environment"

// Environment is the configuration of one network.
type Environment struct {
	RPCURL   string                   `json:"rpcUrl" validate:"http_url"`
	Accounts map[string]types.Account `json:"accounts" validate:"dive"`
	// Aliases maps contract names to addresses. An empty address marks a contract that is not
	// deployed yet.
	Aliases             map[string]string `json:"aliases"`
	ConfirmationTimeout *types.Duration   `json:"confirmationTimeout,omitempty"`
}

// Document maps environment names to their configuration.
type Document map[string]Environment

// Names returns the environment names in sorted order.
func (d Document) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// Parse decodes a configuration document.
func Parse(b []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, sdkerrors.WrapConfigError("invalid configuration document", err)
	}
	if len(doc) == 0 {
		return nil, sdkerrors.NewConfigError("configuration document defines no environment")
	}

	return doc, nil
}

// Load reads the configuration document from the first source present: the inline document
// (JSON or base64 of it), the file it names, or DefaultConfigFile.
func Load(env map[string]string, prefix string) (Document, error) {
	doc, _, err := load(env, prefix)

	return doc, err
}

// load also returns the path of the file read, empty for an inline document.
func load(env map[string]string, prefix string) (Document, string, error) {
	if inline := strings.TrimSpace(env[prefix+EnvConfig]); inline != "" {
		if !strings.HasPrefix(inline, "{") {
			decoded, err := base64.StdEncoding.DecodeString(inline)
			if err != nil {
				return nil, "", sdkerrors.WrapConfigError(prefix+EnvConfig+" is neither JSON nor base64", err)
			}
			inline = string(decoded)
		}
		doc, err := Parse([]byte(inline))

		return doc, "", err
	}

	path := DefaultConfigFile
	if file := strings.TrimSpace(env[prefix+EnvConfigFile]); file != "" {
		path = file
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", sdkerrors.WrapConfigError("read configuration "+path, err)
	}
	doc, err := Parse(b)

	return doc, path, err
}

// LocalConfigFile returns the overlay of environment name kept next to the configuration file
// at path. Its top-level fields replace those of the environment.
func LocalConfigFile(path, name string) string {
	return filepath.Join(filepath.Dir(path), "config.local."+name+".json")
}

func overlay(e Environment, path string) (Environment, error) {
	local, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return e, nil
	}
	if err != nil {
		return e, sdkerrors.WrapConfigError("read configuration "+path, err)
	}

	base, err := json.Marshal(e)
	if err != nil {
		return e, err
	}
	merged, err := jsonutil.Merge(base, local)
	if err != nil {
		return e, sdkerrors.WrapConfigError("invalid configuration "+path, err)
	}

	var out Environment
	if err = json.Unmarshal(merged, &out); err != nil {
		return e, sdkerrors.WrapConfigError("invalid configuration "+path, err)
	}

	return out, nil
}

// Resolve returns the profile of the active environment. The environment must name exactly one
// environment of the document, and every required contract alias must have an address. When
// the document comes from a file, the environment's LocalConfigFile is applied over it.
func Resolve(env map[string]string, prefix string, required ...string) (*types.NetworkProfile, error) {
	name, err := activeEnvironment(env, prefix)
	if err != nil {
		return nil, err
	}

	doc, path, err := load(env, prefix)
	if err != nil {
		return nil, err
	}
	e, ok := doc[name]
	if !ok {
		return nil, sdkerrors.NewConfigErrorf("environment %q is not configured (known: %s)", name, strings.Join(doc.Names(), ", "))
	}
	if path != "" {
		if e, err = overlay(e, LocalConfigFile(path, name)); err != nil {
			return nil, err
		}
	}
	if err = e.validate(); err != nil {
		return nil, err
	}

	for _, alias := range required {
		if e.Aliases[alias] == "" {
			return nil, sdkerrors.NewConfigErrorf("contract alias %q has no address in environment %q", alias, name)
		}
	}

	var timeout time.Duration
	if e.ConfirmationTimeout != nil {
		timeout = e.ConfirmationTimeout.Duration
	}
	if raw, ok := env[prefix+EnvConfirmationTimeout]; ok && strings.TrimSpace(raw) != "" {
		if timeout, err = parseTimeout(raw); err != nil {
			return nil, sdkerrors.WrapConfigError("invalid "+prefix+EnvConfirmationTimeout, err)
		}
	}

	return types.NewNetworkProfile(name, e.RPCURL, e.Accounts, e.Aliases, timeout), nil
}

func activeEnvironment(env map[string]string, prefix string) (string, error) {
	var names []string
	for _, name := range strings.Split(env[prefix+EnvActive], ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	switch len(names) {
	case 0:
		return "", sdkerrors.NewConfigErrorf("no environment selected: set %s", prefix+EnvActive)
	case 1:
		return names[0], nil
	default:
		return "", sdkerrors.NewConfigErrorf("ambiguous environment: %s names %s", prefix+EnvActive, strings.Join(names, ", "))
	}
}

var validate = validator.New()

func (e Environment) validate() error {
	if strings.TrimSpace(e.RPCURL) == "" {
		return sdkerrors.NewConfigError(errNoRPCURL)
	}
	if err := validate.Struct(e); err != nil {
		return sdkerrors.WrapConfigError("invalid environment", err)
	}

	for alias, acc := range e.Accounts {
		if err := tezos.ValidateAddress(acc.PublicKeyHash); err != nil {
			return sdkerrors.WrapConfigError(fmt.Sprintf("account %q", alias), err)
		}
	}
	for alias, address := range e.Aliases {
		if address == "" {
			continue
		}
		if err := tezos.ValidateAddress(address); err != nil {
			return sdkerrors.WrapConfigError(fmt.Sprintf("contract alias %q", alias), err)
		}
	}

	return nil
}

// parseTimeout reads a duration string ("90s") or a number of seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if seconds, err := cast.ToFloat64E(raw); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative timeout %q", raw)
		}

		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := cast.ToDurationE(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %q", raw)
	}

	return d, nil
}

// LoadEnv returns the process environment completed with the variables of the given dotenv
// files. Process variables win over file ones, and earlier files win over later ones. Missing
// files are skipped.
func LoadEnv(files ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	for _, file := range files {
		vars, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, sdkerrors.WrapConfigError("read "+file, err)
		}
		for k, v := range vars {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}

	return env, nil
}
