package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Merge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		overlay string
		want    string
		wantErr string
	}{
		{
			name:    "overlay replaces top-level fields",
			base:    `{"rpcUrl": "http://localhost:20000", "aliases": {"a": "KT1", "b": ""}}`,
			overlay: `{"aliases": {"c": "KT2"}, "confirmationTimeout": 45}`,
			want:    `{"aliases":{"c":"KT2"},"confirmationTimeout":45,"rpcUrl":"http://localhost:20000"}`,
		},
		{
			name:    "large numbers keep their precision",
			base:    `{"balance": 18446744073709551615}`,
			overlay: `{}`,
			want:    `{"balance":18446744073709551615}`,
		},
		{
			name:    "null base",
			base:    `null`,
			overlay: `{"a": 1}`,
			want:    `{"a":1}`,
		},
		{
			name:    "base is not an object",
			base:    `[1]`,
			overlay: `{}`,
			wantErr: "base: ",
		},
		{
			name:    "malformed overlay",
			base:    `{}`,
			overlay: `{`,
			wantErr: "overlay: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Merge([]byte(tt.base), []byte(tt.overlay))

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
