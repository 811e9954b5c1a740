package queue

import (
	"regexp"
	"strings"

	"github.com/weftlabs/weft/internal/domain"
)

// codeFencePattern matches fenced code blocks that carry a path
// attribute and an optional action attribute:
//
//	```go path=internal/server/server.go action=update
//	...
//	```
var codeFencePattern = regexp.MustCompile("(?s)```(\\w+)[ \t]+path=([^\\s]+)(?:[ \t]+action=(\\w+))?[ \t]*\n(.*?)```")

// ExtractArtifact extracts the structured code artifact from a result
// body. Fences without a path attribute are prose examples and are
// ignored. Returns nil when the body carries no code patches.
func ExtractArtifact(body string) *domain.CodeArtifact {
	matches := codeFencePattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	patches := make([]domain.CodePatch, 0, len(matches))
	for _, m := range matches {
		action := domain.PatchAction(strings.ToLower(m[3]))
		switch action {
		case domain.PatchCreate, domain.PatchUpdate, domain.PatchDelete:
		default:
			action = domain.PatchCreate
		}
		patches = append(patches, domain.CodePatch{
			Language: m[1],
			FilePath: m[2],
			Action:   action,
			Content:  strings.TrimRight(m[4], "\n"),
		})
	}

	return &domain.CodeArtifact{Patches: patches}
}

// HasCodePatches reports whether a result body carries any code patch.
func HasCodePatches(body string) bool {
	return codeFencePattern.MatchString(body)
}
