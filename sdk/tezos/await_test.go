package tezos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/ecadlabs/taco-shop/sdk/errors"
	"github.com/ecadlabs/taco-shop/types"
)

func Test_awaitOutcome(t *testing.T) {
	t.Parallel()

	included := types.Confirmation{Hash: "ooHash", BlockHash: "BLockHash", Level: 7}
	unavailable := sdkerrors.NewChainUnavailableError("http://localhost:20000", errors.New("refused"))

	tests := []struct {
		name        string
		err         error
		ctxErr      error
		want        types.Confirmation
		wantTimeout bool
		wantErr     error
	}{
		{name: "included", want: included},
		{name: "included as the deadline passes", ctxErr: context.DeadlineExceeded, want: included},
		{name: "deadline", err: errNotIncluded, ctxErr: context.DeadlineExceeded, wantTimeout: true, wantErr: context.DeadlineExceeded},
		{name: "cancelled", err: context.Canceled, ctxErr: context.Canceled, wantTimeout: true, wantErr: context.Canceled},
		{name: "node error", err: unavailable, wantErr: unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := awaitOutcome("ooHash", time.Second, included, tt.err, tt.ctxErr)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)

				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, got)
			var timeout *sdkerrors.ConfirmationTimeoutError
			assert.Equal(t, tt.wantTimeout, errors.As(err, &timeout))
		})
	}
}
