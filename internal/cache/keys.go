package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// KeyPrefix namespaces every key this service writes.
const KeyPrefix = "triviagen"

// Key joins parts under KeyPrefix with ":".
func Key(parts ...string) string {
	return strings.Join(append([]string{KeyPrefix}, parts...), ":")
}

// QuestionsKey addresses the questions generated for an extracted text. The
// text is stored as its SHA-256 so keys stay short for large documents; the
// count is part of the key because one text yields a different set per count.
func QuestionsKey(text string, numQuestions int) string {
	sum := sha256.Sum256([]byte(text))
	return Key("questions", hex.EncodeToString(sum[:]), strconv.Itoa(numQuestions))
}
