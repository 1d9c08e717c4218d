package tacos

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecadlabs/taco-shop/types"
)

const (
	alicePKH = "tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb"
	// binary form of alicePKH
	aliceBytes = "00006b82198cb179e8306c1bedd08f12dc863f328886"
)

func TestDecodeStorage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		want    types.ContractStorage
		wantErr string
	}{
		{
			name: "pair with readable admin",
			give: `{"prim":"Pair","args":[{"string":"` + alicePKH + `"},{"int":"100"}]}`,
			want: types.ContractStorage{Admin: alicePKH, AvailableTacos: 100},
		},
		{
			name: "pair as sequence",
			give: `[{"string":"` + alicePKH + `"},{"int":"0"}]`,
			want: types.ContractStorage{Admin: alicePKH, AvailableTacos: 0},
		},
		{
			name: "legacy bare nat",
			give: `{"int":"42"}`,
			want: types.ContractStorage{AvailableTacos: 42},
		},
		{
			name:    "negative count",
			give:    `{"int":"-1"}`,
			wantErr: "unexpected contract storage: invalid natural number",
		},
		{
			name:    "unit",
			give:    `{"prim":"Unit"}`,
			wantErr: "unexpected contract storage: expected pair or int",
		},
		{
			name:    "three fields",
			give:    `{"prim":"Pair","args":[{"string":"` + alicePKH + `"},{"int":"1"},{"int":"2"}]}`,
			wantErr: "expected 2 fields, got 3",
		},
		{
			name:    "invalid admin",
			give:    `{"prim":"Pair","args":[{"string":"tz1nope"},{"int":"1"}]}`,
			wantErr: "unexpected contract storage: admin:",
		},
		{
			name:    "admin as int",
			give:    `{"prim":"Pair","args":[{"int":"1"},{"int":"1"}]}`,
			wantErr: "admin: expected address",
		},
		{
			name:    "count as string",
			give:    `{"prim":"Pair","args":[{"string":"` + alicePKH + `"},{"string":"100"}]}`,
			wantErr: "available_tacos: expected int literal, got string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var m types.Micheline
			require.NoError(t, json.Unmarshal([]byte(tt.give), &m))

			got, err := DecodeStorage(m)

			if tt.wantErr != "" {
				var decodeErr *StorageDecodeError
				require.ErrorAs(t, err, &decodeErr)
				require.ErrorContains(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeStorage() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeStorage_BinaryAdmin(t *testing.T) {
	t.Parallel()

	got, err := DecodeStorage(types.NewPrim("Pair", types.NewBytes(aliceBytes), types.NewInt(7)))
	require.NoError(t, err)
	assert.Equal(t, types.ContractStorage{Admin: alicePKH, AvailableTacos: 7}, got)

	_, err = DecodeStorage(types.NewPrim("Pair", types.NewBytes("zz"), types.NewInt(7)))
	require.ErrorContains(t, err, "admin:")
}

func TestEncodeStorage(t *testing.T) {
	t.Parallel()

	for _, s := range []types.ContractStorage{
		{Admin: alicePKH, AvailableTacos: 100},
		{AvailableTacos: 42},
	} {
		got, err := DecodeStorage(EncodeStorage(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
