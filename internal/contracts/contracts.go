// Package contracts embeds the Michelson code of the contracts the module originates.
package contracts

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

//go:embed hello_tacos.json
var helloTacos []byte

// HelloTacosCode returns the code of the taco shop. Its storage is `pair (address %admin) (nat
// %available_tacos)`.
func HelloTacosCode() (types.Micheline, error) {
	var code types.Micheline
	if err := json.Unmarshal(helloTacos, &code); err != nil {
		return types.Micheline{}, fmt.Errorf("decode hello tacos code: %w", err)
	}

	return code, nil
}

// HelloTacosScript returns the script originating a taco shop with the given initial storage.
func HelloTacosScript(storage types.Micheline) (tezos.Script, error) {
	code, err := HelloTacosCode()
	if err != nil {
		return tezos.Script{}, err
	}

	return tezos.Script{Code: code, Storage: storage}, nil
}
