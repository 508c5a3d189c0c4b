// Package idparse turns raw user text into a deduplicated, ordered
// list of token IDs.
package idparse

import (
	"strconv"
	"strings"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

const DefaultDelimiter = ","

type Parser struct {
	delimiter string
}

func New(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Parser{delimiter: delimiter}
}

// Parse splits raw input on the delimiter, trims whitespace, drops
// empty tokens and parses the rest as non-negative integers, keeping
// first-seen order and collapsing duplicates. Any malformed non-empty
// token rejects the whole batch: a partial parse failure usually means
// the user pasted something broken, not that the token should be
// skipped.
func (p *Parser) Parse(raw string) ([]uint64, error) {
	tokens := strings.Split(raw, p.delimiter)

	ids := make([]uint64, 0, len(tokens))
	seen := make(map[uint64]struct{}, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, &serviceerrs.InvalidInputError{
				Token:  token,
				Reason: "not a non-negative integer",
			}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, &serviceerrs.InvalidInputError{
			Reason: "no token IDs found",
		}
	}
	return ids, nil
}
