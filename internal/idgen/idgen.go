// Package idgen generates short, URL-safe IDs for boards and their parts.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// ID prefixes per entity
const (
	BoardPrefix     = "b_"
	SectionPrefix   = "s_"
	ItemPrefix      = "i_"
	PromotionPrefix = "p_"
)

// Alphabet is the character set of the random part of an ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters, excluding the prefix.
var Length = 10

// WithPrefix returns a new ID with the given prefix.
func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Must is WithPrefix for callers that cannot handle an error. Generation only
// fails when Alphabet or Length are misconfigured.
func Must(prefix string) string {
	id, err := WithPrefix(prefix)
	if err != nil {
		panic(err)
	}
	return id
}

// Func returns a generator bound to prefix.
func Func(prefix string) func() string {
	return func() string { return Must(prefix) }
}
