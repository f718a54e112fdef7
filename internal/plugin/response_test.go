package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    *Response
		wantErr bool
	}{
		{
			name: "full success payload",
			body: `{"ResponseCode":0,"Username":"u","Password":"p","Message":null,"AuthenticationTypes":["Basic"]}`,
			want: &Response{
				ResponseCode:        ResponseCodeSuccess,
				Username:            "u",
				Password:            "p",
				AuthenticationTypes: []string{"Basic"},
			},
		},
		{
			name: "message only",
			body: `{"ResponseCode":1,"Message":"no credentials for this feed"}`,
			want: &Response{ResponseCode: ResponseCodeError, Message: "no credentials for this feed"},
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
		{
			name:    "not json",
			body:    "segmentation fault",
			wantErr: true,
		},
		{
			name:    "response code out of range",
			body:    `{"ResponseCode":7}`,
			wantErr: true,
		},
		{
			name:    "auth types with wrong element type",
			body:    `{"ResponseCode":0,"AuthenticationTypes":[1,2]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			resp, err := ParseResponse(tt.body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp)
			assert.True(t, resp.IsValid())
		})
	}
}
