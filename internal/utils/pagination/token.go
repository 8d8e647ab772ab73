package pagination

import (
	"encoding/base64"
	"fmt"
)

// EncodeKeyToken creates an opaque token from the sort key of the last item on a page.
func EncodeKeyToken(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// DecodeKeyToken parses a token created by EncodeKeyToken.
func DecodeKeyToken(token string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	if len(decoded) == 0 {
		return "", fmt.Errorf("invalid pagination token format (empty key)")
	}
	return string(decoded), nil
}

// Page returns up to limit items whose key sorts after the key in token, plus the token for the
// next page, or nil on the last page. items must already be sorted by key. A limit of zero or
// less returns everything after the token.
func Page[T any](items []T, key func(T) string, token string, limit int) ([]T, *string, error) {
	start := 0
	if token != "" {
		after, err := DecodeKeyToken(token)
		if err != nil {
			return nil, nil, err
		}
		for start < len(items) && key(items[start]) <= after {
			start++
		}
	}

	rest := items[start:]
	if limit <= 0 || len(rest) <= limit {
		return rest, nil, nil
	}
	page := rest[:limit]
	next := EncodeKeyToken(key(page[len(page)-1]))
	return page, &next, nil
}
