package domain

// PatchAction is the action to take for a code patch.
type PatchAction string

const (
	PatchCreate PatchAction = "create"
	PatchUpdate PatchAction = "update"
	PatchDelete PatchAction = "delete"
)

// CodePatch is one file-level change carried by an agent result.
// Content holds the full file content, not a diff.
type CodePatch struct {
	FilePath string      `yaml:"file_path"`
	Content  string      `yaml:"content"`
	Language string      `yaml:"language,omitempty"`
	Action   PatchAction `yaml:"action"`
}

// CodeArtifact is the structured code output attached to a result:
// one or more patches plus a human-readable summary.
type CodeArtifact struct {
	Patches []CodePatch `yaml:"patches"`
	Summary string      `yaml:"summary,omitempty"`
}

// FileCount returns the number of files affected by this artifact.
func (a *CodeArtifact) FileCount() int {
	return len(a.Patches)
}

// FilePaths returns all file paths in this artifact.
func (a *CodeArtifact) FilePaths() []string {
	paths := make([]string, 0, len(a.Patches))
	for _, p := range a.Patches {
		paths = append(paths, p.FilePath)
	}
	return paths
}
