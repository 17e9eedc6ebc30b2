package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeEntryToken(t *testing.T) {
	token := EncodeEntryToken(42)
	assert.NotEmpty(t, token, "Token should not be empty")

	n, err := DecodeEntryToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, int64(42), n)
}

func TestEncodeDecodeLedgerToken(t *testing.T) {
	seq, err := DecodeLedgerToken(EncodeLedgerToken(9001))
	assert.NoError(t, err)
	assert.Equal(t, int64(9001), seq)
}

func TestDecodeTokenErrors(t *testing.T) {
	_, err := DecodeEntryToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeEntryToken(base64.URLEncoding.EncodeToString([]byte("entry")))
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeEntryToken(EncodeLedgerToken(5))
	assert.Error(t, err, "A ledger token must not decode as an entry token")
	assert.Contains(t, err.Error(), "kind")

	_, err = DecodeEntryToken(EncodeMultiFieldToken("entry", "abc"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry parse")
}

func TestEncodeMultiFieldToken(t *testing.T) {
	fields, err := DecodeMultiFieldToken(EncodeMultiFieldToken("a", "b", "c|d"), 3)
	assert.NoError(t, err)
	// the last field keeps any further separators
	assert.Equal(t, []string{"a", "b", "c|d"}, fields)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0, 100))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3, 100))
	assert.Equal(t, 100, NormalizeLimit(1000, 100))
	assert.Equal(t, 7, NormalizeLimit(7, 100))
}
