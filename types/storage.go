package types

import "fmt"

// ContractStorage is the typed storage of the taco shop contract. Clients only ever hold a
// read-only copy of it, replaced wholesale after each read.
type ContractStorage struct {
	// Admin is the account allowed to call the make entry point. It is empty for the first
	// version of the contract, whose storage is a bare natural number.
	Admin string `json:"admin"`

	AvailableTacos uint64 `json:"available_tacos"`
}

// String implements fmt.Stringer.
func (s ContractStorage) String() string {
	if s.Admin == "" {
		return fmt.Sprintf("available_tacos=%d", s.AvailableTacos)
	}

	return fmt.Sprintf("admin=%s available_tacos=%d", s.Admin, s.AvailableTacos)
}
