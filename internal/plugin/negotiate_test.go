package plugin

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/feedauth/internal/logging"
	"github.com/systmms/feedauth/pkg/credential"
)

func TestNegotiate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		response     *Response
		wantCreds    []credential.Credential
		wantWarnings int
	}{
		{
			name:     "nil auth types defaults to basic",
			response: &Response{Username: "u", Password: "p"},
			wantCreds: []credential.Credential{
				{Username: "u", Password: "p", AuthType: credential.AuthTypeBasic},
			},
		},
		{
			name:     "empty auth types defaults to basic",
			response: &Response{Username: "u", Password: "p", AuthenticationTypes: []string{}},
			wantCreds: []credential.Credential{
				{Username: "u", Password: "p", AuthType: credential.AuthTypeBasic},
			},
		},
		{
			name:     "mixed supported and bogus keeps only supported",
			response: &Response{Username: "u", Password: "p", AuthenticationTypes: []string{"NTLM", "bogus"}},
			wantCreds: []credential.Credential{
				{Username: "u", Password: "p", AuthType: credential.AuthTypeNTLM},
			},
			wantWarnings: 1,
		},
		{
			name:      "only bogus types yields empty sequence",
			response:  &Response{Username: "u", Password: "p", AuthenticationTypes: []string{"bogus"}},
			wantCreds:    nil,
			wantWarnings: 1,
		},
		{
			name:     "case-insensitive matching and fan-out order preserved",
			response: &Response{Username: "u", Password: "p", AuthenticationTypes: []string{"basic", "ntlm"}},
			wantCreds: []credential.Credential{
				{Username: "u", Password: "p", AuthType: credential.AuthTypeBasic},
				{Username: "u", Password: "p", AuthType: credential.AuthTypeNTLM},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			var buf bytes.Buffer
			logger := logging.New(false, false, true)
			logger.SetOutput(&buf)

			creds := Negotiate(tt.response, logger)
			assert.Equal(t, tt.wantCreds, creds)

			warnings := bytes.Count(buf.Bytes(), []byte("⚠"))
			require.Equal(t, tt.wantWarnings, warnings)
		})
	}
}
