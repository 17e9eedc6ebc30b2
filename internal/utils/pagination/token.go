package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// DefaultLimit is used when a caller asks for a page without a size.
const DefaultLimit = 20

// NormalizeLimit clamps limit into [1, max], substituting DefaultLimit for zero.
func NormalizeLimit(limit, max int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > max {
		limit = max
	}
	return limit
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into exactly n fields.
func DecodeMultiFieldToken(token string, n int) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", n)
	if len(parts) != n {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}
	return parts, nil
}

// EncodeSequenceToken creates a cursor of the given kind positioned after n.
func EncodeSequenceToken(kind string, n int64) string {
	return EncodeMultiFieldToken(kind, strconv.FormatInt(n, 10))
}

// DecodeSequenceToken parses a cursor produced by EncodeSequenceToken for kind.
func DecodeSequenceToken(token, kind string) (int64, error) {
	parts, err := DecodeMultiFieldToken(token, 2)
	if err != nil {
		return 0, err
	}
	if parts[0] != kind {
		return 0, fmt.Errorf("invalid pagination token format (kind %q)", parts[0])
	}
	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (%s parse): %w", kind, err)
	}
	return n, nil
}

// EncodeEntryToken creates a cursor positioned after the entry with the given number.
// Entries page newest first, so the next page holds smaller numbers.
func EncodeEntryToken(entryNumber int64) string {
	return EncodeSequenceToken("entry", entryNumber)
}

// DecodeEntryToken parses a cursor produced by EncodeEntryToken.
func DecodeEntryToken(token string) (int64, error) {
	return DecodeSequenceToken(token, "entry")
}

// EncodeLedgerToken creates a cursor positioned after the ledger row with sequence seq.
// Rows page in posting order.
func EncodeLedgerToken(seq int64) string {
	return EncodeSequenceToken("ledger", seq)
}

// DecodeLedgerToken parses a cursor produced by EncodeLedgerToken.
func DecodeLedgerToken(token string) (int64, error) {
	return DecodeSequenceToken(token, "ledger")
}
