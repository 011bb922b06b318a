package domain

import "fmt"

// Artifact is a binary media payload plus its MIME type.
type Artifact struct {
	Bytes []byte `json:"-"`
	MIME  string `json:"mime"`
}

// Clone returns an independent copy of the artifact. The underlying bytes are
// copied, never aliased, so mutating one copy can't be observed from the other.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	b := make([]byte, len(a.Bytes))
	copy(b, a.Bytes)
	return &Artifact{Bytes: b, MIME: a.MIME}
}

// ArtifactLocator is the serving path for a stored artifact. Callers embed it
// in messages without inspecting its structure.
func ArtifactLocator(sessionID, artifactID string) string {
	return fmt.Sprintf("/api/v1/artifacts/%s/%s", sessionID, artifactID)
}
