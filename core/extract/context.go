package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// docExtensions are the file extensions considered documentation when
// collecting README-style files from the repository root.
var docExtensions = map[string]struct{}{
	"":          {},
	".md":       {},
	".markdown": {},
	".rst":      {},
	".txt":      {},
}

// docPrefixes mark first-level files whose contents feed the project context.
var docPrefixes = []string{"README", "CHANGELOG"}

// GatherContext reads the repository's first-level tree at HEAD and builds
// the project context handed to technology detection: root documentation
// files, a flat structure listing, and the last commit date.
func (e *Extractor) GatherContext(ctx context.Context, repoPath string) (*schema.ProjectContext, error) {
	entries, err := e.client.ListTree(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list repository tree: %w", err)
	}

	pc := &schema.ProjectContext{
		ReadmeFiles: make(map[string]string),
	}
	var listing []string
	for _, entry := range entries {
		if entry.IsDir {
			listing = append(listing, "[DIR] "+entry.Name)
			continue
		}
		listing = append(listing, "[FILE] "+entry.Name)
		if !isDocFile(entry.Name) {
			continue
		}
		blob, err := e.client.ReadBlob(ctx, repoPath, entry.Name)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("failed to read %s, skipping", entry.Name), err)
			continue
		}
		pc.ReadmeFiles[entry.Name] = string(blob)
	}
	sort.Strings(listing)
	pc.Structure = strings.Join(listing, "\n")

	if last, err := e.client.GetLastCommitTime(ctx, repoPath); err == nil {
		pc.LastCommitDate = last
	}
	return pc, nil
}

// isDocFile reports whether a first-level file name counts as root
// documentation.
func isDocFile(name string) bool {
	upper := strings.ToUpper(name)
	ext := filepath.Ext(upper)
	if _, ok := docExtensions[strings.ToLower(ext)]; !ok {
		return false
	}
	base := strings.TrimSuffix(upper, ext)
	for _, prefix := range docPrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
