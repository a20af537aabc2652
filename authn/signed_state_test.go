package authn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/authn"
)

const stateSecret = "test-state-signing-secret"

func TestSignedStateRoundTrip(t *testing.T) {
	signed := authn.SignState("state-id-12345", stateSecret)
	require.Equal(t, "state-id-12345", signed.StateID)
	require.NotEmpty(t, signed.Signature)

	encoded, err := signed.Encode()
	require.NoError(t, err)

	decoded, err := authn.DecodeState(encoded, stateSecret)
	require.NoError(t, err)
	require.Equal(t, signed.StateID, decoded.StateID)
	require.Equal(t, signed.Timestamp, decoded.Timestamp)
}

func TestDecodeStateWrongSecret(t *testing.T) {
	signed := authn.SignState("state-id-12345", stateSecret)
	encoded, err := signed.Encode()
	require.NoError(t, err)

	_, err = authn.DecodeState(encoded, "some-other-secret")
	require.ErrorIs(t, err, authn.InvalidSignatureErr)
}

func TestDecodeStateTampered(t *testing.T) {
	signed := authn.SignState("state-id-12345", stateSecret)
	encoded, err := signed.Encode()
	require.NoError(t, err)

	// Flip a single character of the encoded payload.
	tampered := []byte(encoded)
	if tampered[10] == 'A' {
		tampered[10] = 'B'
	} else {
		tampered[10] = 'A'
	}

	_, err = authn.DecodeState(string(tampered), stateSecret)
	require.Error(t, err)
}

func TestDecodeStateGarbage(t *testing.T) {
	_, err := authn.DecodeState("not base64url json!!", stateSecret)
	require.ErrorIs(t, err, authn.DecodeErr)
}

func TestSignatureCoversTimestamp(t *testing.T) {
	first := authn.SignState("state-id-12345", stateSecret)
	time.Sleep(1100 * time.Millisecond)
	second := authn.SignState("state-id-12345", stateSecret)

	if first.Timestamp != second.Timestamp {
		require.NotEqual(t, first.Signature, second.Signature)
	}
}
