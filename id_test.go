package sleigh_test

import (
	"testing"

	"github.com/konkers/sleigh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    sleigh.ID
		wantErr bool
		err     string
	}{
		{
			name:    "Should not be able to decode an all zeros ID",
			id:      "0000000000000000",
			wantErr: true,
			err:     sleigh.ErrInvalidID.Error(),
		},
		{
			name: "Should be able to decode an all f ID",
			id:   "ffffffffffffffff",
			want: sleigh.ID(0xffffffffffffffff),
		},
		{
			name: "Should be able to decode an ID",
			id:   "020f755c3c082000",
			want: sleigh.ID(0x020f755c3c082000),
		},
		{
			name:    "Should not be able to decode a non hex ID",
			id:      "gggggggggggggggg",
			wantErr: true,
			err:     `strconv.ParseUint: parsing "gggggggggggggggg": invalid syntax`,
		},
		{
			name:    "Should not be able to decode inputs with length less than 16 bytes",
			id:      "abc",
			wantErr: true,
			err:     sleigh.ErrInvalidIDLength.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sleigh.IDFromString(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.err, err.Error())
				assert.Equal(t, sleigh.EInvalidEncoding, sleigh.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "020f755c3c082000", sleigh.ID(0x020f755c3c082000).String())
	assert.Equal(t, "", sleigh.InvalidID().String())
}

func TestID_Valid(t *testing.T) {
	assert.False(t, sleigh.InvalidID().Valid())
	assert.True(t, sleigh.ID(1).Valid())

	_, err := sleigh.InvalidID().Encode()
	assert.Equal(t, sleigh.ErrInvalidID, err)
}
