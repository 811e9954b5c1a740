// Package audit provides content hashing and tamper-evident frontmatter
// for linking generated artifacts to the prompts that produced them.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// frontmatterPattern matches a delimiter-bounded block at the very start
// of the content. (?s) lets the body span lines; (?U) keeps it lazy.
var frontmatterPattern = regexp.MustCompile(`(?sU)^---[ \t]*\n(.*)\n---[ \t]*\n`)

// Hash returns the hex-encoded SHA-256 digest of the text's UTF-8 bytes.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// BuildFrontmatter produces the canonical audit metadata block for a result.
// Line order is fixed: feature, agent, prompt_spec_version, generated_at,
// prompt_hash, output_hash, then conversation_id only when supplied, so
// consumers unaware of conversations keep parsing unchanged.
func BuildFrontmatter(feature, agent, promptHash, outputHash, specVersion, conversationID string, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("feature: " + feature + "\n")
	b.WriteString("agent: " + agent + "\n")
	b.WriteString("prompt_spec_version: " + specVersion + "\n")
	b.WriteString("generated_at: " + generatedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00") + "\n")
	b.WriteString("prompt_hash: " + promptHash + "\n")
	b.WriteString("output_hash: " + outputHash + "\n")
	if conversationID != "" {
		b.WriteString("conversation_id: " + conversationID + "\n")
	}
	b.WriteString("---\n")
	return b.String()
}

// ParseFrontmatter extracts the metadata mapping from a leading frontmatter
// block. Content without a block yields an empty map, not an error, so
// undecorated content remains consumable.
func ParseFrontmatter(content string) map[string]string {
	metadata := make(map[string]string)

	match := frontmatterPattern.FindStringSubmatch(content)
	if match == nil {
		return metadata
	}

	for _, line := range strings.Split(match[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		metadata[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return metadata
}

// StripFrontmatter removes exactly one leading frontmatter block, if present.
func StripFrontmatter(content string) string {
	if loc := frontmatterPattern.FindStringIndex(content); loc != nil {
		return content[loc[1]:]
	}
	return content
}

// Verify recomputes the hash of the content body, with any leading
// frontmatter removed and surrounding whitespace trimmed, and compares it
// against expectedHash. It detects any mutation of the body; mutation of
// the frontmatter itself is out of scope here and is caught by comparing
// the recorded hashes against the prompt file instead.
func Verify(content, expectedHash string) bool {
	body := strings.TrimSpace(StripFrontmatter(content))
	return Hash(body) == expectedHash
}
