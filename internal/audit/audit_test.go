package audit

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Hash("hello world"), Hash("hello world"))
	})

	t.Run("known value", func(t *testing.T) {
		// sha256("hello")
		assert.Equal(t,
			"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
			Hash("hello"))
	})

	t.Run("length and format", func(t *testing.T) {
		h := Hash("anything")
		assert.Len(t, h, 64)
		assert.Equal(t, strings.ToLower(h), h)
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			Hash(""))
	})

	t.Run("unicode", func(t *testing.T) {
		assert.NotEqual(t, Hash("héllo"), Hash("hello"))
		assert.Equal(t, Hash("日本語"), Hash("日本語"))
	})

	t.Run("different inputs differ", func(t *testing.T) {
		assert.NotEqual(t, Hash("a"), Hash("b"))
	})
}

func TestBuildFrontmatter(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 123456000, time.UTC)

	t.Run("canonical line order", func(t *testing.T) {
		block := BuildFrontmatter("feat-auth", "00-meta", "ph", "oh", "1.0.0", "", now)

		lines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
		require.Equal(t, []string{
			"---",
			"feature: feat-auth",
			"agent: 00-meta",
			"prompt_spec_version: 1.0.0",
			"generated_at: 2024-06-01T12:30:45.123456Z",
			"prompt_hash: ph",
			"output_hash: oh",
			"---",
		}, lines)
	})

	t.Run("conversation id only when supplied", func(t *testing.T) {
		without := BuildFrontmatter("f", "a", "ph", "oh", "1.0.0", "", now)
		assert.NotContains(t, without, "conversation_id")

		with := BuildFrontmatter("f", "a", "ph", "oh", "1.0.0", "f-a", now)
		assert.Contains(t, with, "conversation_id: f-a\n")
	})

	t.Run("utc with zero offset marker", func(t *testing.T) {
		loc := time.FixedZone("JST", 9*3600)
		block := BuildFrontmatter("f", "a", "ph", "oh", "1.0.0", "", now.In(loc))
		assert.Contains(t, block, "generated_at: 2024-06-01T12:30:45.123456Z")
	})
}

func TestParseFrontmatter(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
		block := BuildFrontmatter("feat-auth", "00-meta", "ph", "oh", "2.1.0", "feat-auth-00-meta", now)

		meta := ParseFrontmatter(block + "body text")
		assert.Equal(t, "feat-auth", meta["feature"])
		assert.Equal(t, "00-meta", meta["agent"])
		assert.Equal(t, "2.1.0", meta["prompt_spec_version"])
		assert.Equal(t, "ph", meta["prompt_hash"])
		assert.Equal(t, "oh", meta["output_hash"])
		assert.Equal(t, "feat-auth-00-meta", meta["conversation_id"])
	})

	t.Run("no frontmatter yields empty map", func(t *testing.T) {
		meta := ParseFrontmatter("just some plain content")
		assert.NotNil(t, meta)
		assert.Empty(t, meta)
	})

	t.Run("frontmatter not at start is ignored", func(t *testing.T) {
		content := "preamble\n---\nfeature: x\n---\nbody"
		assert.Empty(t, ParseFrontmatter(content))
	})

	t.Run("colon in value", func(t *testing.T) {
		content := "---\nnote: time: 12:30\n---\nbody"
		meta := ParseFrontmatter(content)
		assert.Equal(t, "time: 12:30", meta["note"])
	})

	t.Run("missing closing delimiter", func(t *testing.T) {
		assert.Empty(t, ParseFrontmatter("---\nfeature: x\nno closing"))
	})
}

func TestVerify(t *testing.T) {
	now := time.Now().UTC()

	t.Run("content without frontmatter", func(t *testing.T) {
		body := "plain output text"
		assert.True(t, Verify(body, Hash(body)))
	})

	t.Run("content with frontmatter", func(t *testing.T) {
		body := "Architecture design document"
		block := BuildFrontmatter("f", "a", "ph", Hash(body), "1.0.0", "", now)
		assert.True(t, Verify(block+body, Hash(body)))
	})

	t.Run("body mutation detected", func(t *testing.T) {
		body := "Architecture design document"
		block := BuildFrontmatter("f", "a", "ph", Hash(body), "1.0.0", "", now)
		assert.False(t, Verify(block+body+"!", Hash(body)))
	})

	t.Run("frontmatter mutation is invisible", func(t *testing.T) {
		body := "Architecture design document"
		block := BuildFrontmatter("f", "a", "ph", Hash(body), "1.0.0", "", now)
		later := BuildFrontmatter("f", "a", "ph", Hash(body), "1.0.0", "", now.Add(time.Hour))
		assert.True(t, Verify(later+body, Hash(body)))
		_ = block
	})

	t.Run("surrounding whitespace trimmed", func(t *testing.T) {
		body := "output"
		assert.True(t, Verify("\n\n  "+body+"  \n", Hash(body)))
	})

	t.Run("wrong hash fails", func(t *testing.T) {
		assert.False(t, Verify("output", Hash("different")))
	})

	t.Run("multiline content", func(t *testing.T) {
		body := "line one\nline two\n\nline four"
		block := BuildFrontmatter("f", "a", "ph", Hash(body), "1.0.0", "", now)
		assert.True(t, Verify(block+body, Hash(body)))
	})
}

func TestStripFrontmatter(t *testing.T) {
	now := time.Now().UTC()
	block := BuildFrontmatter("f", "a", "ph", "oh", "1.0.0", "", now)

	t.Run("strips exactly one block", func(t *testing.T) {
		inner := "---\nkey: value\n---\nreal body"
		got := StripFrontmatter(block + inner)
		assert.Equal(t, inner, got)
	})

	t.Run("no block is a no-op", func(t *testing.T) {
		assert.Equal(t, "plain", StripFrontmatter("plain"))
	})
}
