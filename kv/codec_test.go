package kv_test

import (
	"testing"

	"github.com/konkers/sleigh/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	var c kv.JSONCodec

	b, err := c.Encode(&Widget{ID: 3, Name: "sprocket"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"name":"sprocket"}`, string(b))

	tests := []struct {
		name    string
		in      string
		want    Widget
		wantErr bool
	}{
		{name: "valid", in: `{"id":3,"name":"sprocket"}`, want: Widget{ID: 3, Name: "sprocket"}},
		{name: "trailing whitespace", in: "{\"id\":3}\n", want: Widget{ID: 3}},
		{name: "missing fields", in: `{}`, want: Widget{}},
		{name: "unknown field", in: `{"id":3,"colour":"red"}`, wantErr: true},
		{name: "trailing value", in: `{"id":3}{"id":4}`, wantErr: true},
		{name: "truncated", in: `{"id":3`, wantErr: true},
		{name: "empty", in: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Widget
			err := c.Decode([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYAMLCodec(t *testing.T) {
	var c kv.YAMLCodec

	b, err := c.Encode(&Widget{ID: 3, Name: "sprocket"})
	require.NoError(t, err)
	assert.YAMLEq(t, "id: 3\nname: sprocket\n", string(b))

	var got Widget
	require.NoError(t, c.Decode(b, &got))
	assert.Equal(t, Widget{ID: 3, Name: "sprocket"}, got)

	err = c.Decode([]byte("id: 3\ncolour: red\n"), &got)
	assert.Error(t, err)
}
