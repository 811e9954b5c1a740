package queue

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weftlabs/weft/internal/audit"
	"github.com/weftlabs/weft/internal/domain"
)

// delimiter bounds the metadata block in prompt and result files.
const delimiter = "---"

// MarshalPrompt serializes a prompt task to its on-disk form: a
// delimiter-bounded metadata block, a blank line, then the raw body.
func MarshalPrompt(task domain.PromptTask) string {
	specVersion := task.SpecVersion
	if specVersion == "" {
		specVersion = domain.DefaultSpecVersion
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.WriteString("feature: " + task.FeatureID + "\n")
	b.WriteString("agent: " + task.AgentID + "\n")
	// Quoted so versions like "1.0" survive yaml parsing as strings.
	b.WriteString("prompt_spec_version: " + strconv.Quote(specVersion) + "\n")
	if task.Revision > 0 {
		b.WriteString("revision: " + strconv.Itoa(task.Revision) + "\n")
	}
	if task.ConversationID != "" {
		b.WriteString("conversation_id: " + task.ConversationID + "\n")
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(task.PromptText)
	return b.String()
}

// UnmarshalPrompt parses the on-disk form back into a prompt task.
// Missing delimiters, an unparsable metadata block, or absent mandatory
// keys return ErrInvalidFormat. The body is trimmed of surrounding
// whitespace; metadata fields round-trip exactly.
func UnmarshalPrompt(content string) (domain.PromptTask, error) {
	parts := strings.SplitN(content, delimiter, 3)
	if len(parts) < 3 {
		return domain.PromptTask{}, fmt.Errorf("%w: missing frontmatter delimiters", domain.ErrInvalidFormat)
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return domain.PromptTask{}, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	if meta == nil {
		return domain.PromptTask{}, fmt.Errorf("%w: empty frontmatter", domain.ErrInvalidFormat)
	}

	feature, ok := metaString(meta, "feature")
	if !ok {
		return domain.PromptTask{}, fmt.Errorf("%w: missing required field %q", domain.ErrInvalidFormat, "feature")
	}
	agent, ok := metaString(meta, "agent")
	if !ok {
		return domain.PromptTask{}, fmt.Errorf("%w: missing required field %q", domain.ErrInvalidFormat, "agent")
	}

	task := domain.PromptTask{
		FeatureID:   feature,
		AgentID:     agent,
		PromptText:  strings.TrimSpace(parts[2]),
		SpecVersion: domain.DefaultSpecVersion,
	}
	if v, ok := metaString(meta, "prompt_spec_version"); ok {
		task.SpecVersion = v
	}
	if v, ok := metaInt(meta, "revision"); ok {
		task.Revision = v
	}
	if v, ok := metaString(meta, "conversation_id"); ok {
		task.ConversationID = v
	}
	return task, nil
}

// MarshalResult serializes a result task: the audit frontmatter block
// immediately followed by the output body, no extra separator.
func MarshalResult(task domain.ResultTask) string {
	frontmatter := audit.BuildFrontmatter(
		task.FeatureID,
		task.AgentID,
		task.PromptHash,
		task.OutputHash,
		domain.DefaultSpecVersion,
		task.ConversationID,
		task.Timestamp,
	)
	return frontmatter + task.OutputText
}

func metaString(meta map[string]any, key string) (string, bool) {
	v, ok := meta[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return fmt.Sprint(v), true
	}
}

func metaInt(meta map[string]any, key string) (int, bool) {
	v, ok := meta[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
