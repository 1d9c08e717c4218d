package tacos

import (
	"encoding/hex"

	"github.com/ecadlabs/taco-shop/sdk/tezos"
	"github.com/ecadlabs/taco-shop/types"
)

// DecodeStorage decodes the storage of either taco shop version: `Pair admin available_tacos`,
// possibly written as a two-element sequence, or the bare natural number of the first version.
// The admin address may be given in readable or binary form.
func DecodeStorage(m types.Micheline) (types.ContractStorage, error) {
	if m.Int != nil {
		tacos, err := m.Uint64()
		if err != nil {
			return types.ContractStorage{}, NewStorageDecodeError("%v", err)
		}

		return types.ContractStorage{AvailableTacos: tacos}, nil
	}

	var fields []types.Micheline
	switch {
	case m.IsSeq:
		fields = m.Seq
	case m.Prim == "Pair":
		fields = m.Args
	default:
		return types.ContractStorage{}, NewStorageDecodeError("expected pair or int")
	}
	if len(fields) != 2 {
		return types.ContractStorage{}, NewStorageDecodeError("expected 2 fields, got %d", len(fields))
	}

	admin, err := decodeAddress(fields[0])
	if err != nil {
		return types.ContractStorage{}, err
	}
	tacos, err := fields[1].Uint64()
	if err != nil {
		return types.ContractStorage{}, NewStorageDecodeError("available_tacos: %v", err)
	}

	return types.ContractStorage{Admin: admin, AvailableTacos: tacos}, nil
}

func decodeAddress(m types.Micheline) (string, error) {
	switch {
	case m.String != nil:
		if err := tezos.ValidateAddress(*m.String); err != nil {
			return "", NewStorageDecodeError("admin: %v", err)
		}

		return *m.String, nil
	case m.Bytes != nil:
		raw, err := hex.DecodeString(*m.Bytes)
		if err != nil {
			return "", NewStorageDecodeError("admin: %v", err)
		}
		address, err := tezos.AddressFromBytes(raw)
		if err != nil {
			return "", NewStorageDecodeError("admin: %v", err)
		}

		return address, nil
	default:
		return "", NewStorageDecodeError("admin: expected address")
	}
}

// EncodeStorage returns the initial storage of a contract holding s. An empty admin selects the
// first contract version.
func EncodeStorage(s types.ContractStorage) types.Micheline {
	if s.Admin == "" {
		return types.NewInt(s.AvailableTacos)
	}

	return types.NewPrim("Pair", types.NewString(s.Admin), types.NewInt(s.AvailableTacos))
}
