package types

import "time"

// OperationHandle identifies an operation that has been broadcast but not necessarily
// included yet.
type OperationHandle struct {
	Hash string `json:"hash"`
	// Branch is the block hash the operation was forged against.
	Branch string `json:"branch"`
	// Level is the head level at broadcast time. Inclusion can only happen above it.
	Level       int64     `json:"level"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Confirmation is the observation that an operation has been included and applied.
type Confirmation struct {
	Hash      string `json:"hash"`
	BlockHash string `json:"blockHash"`
	Level     int64  `json:"level"`
	// OriginatedContracts lists the contracts created by the operation, if any.
	OriginatedContracts []string `json:"originatedContracts,omitempty"`
}
