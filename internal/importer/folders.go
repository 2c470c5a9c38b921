// internal/importer/folders.go
package importer

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/vaultimg/internal/config"
)

// FolderMatch is the result of looking up a predefined folder by name.
type FolderMatch struct {
	Folder config.Folder
	Score  float64
	Exact  bool
}

// minFolderScore is the Jaro-Winkler similarity below which no folder is suggested.
const minFolderScore = 0.80

// MatchFolder finds the predefined folder whose name (or path) best matches
// query. Exact case-insensitive matches win; otherwise the closest name by
// Jaro-Winkler similarity is returned if it clears minFolderScore.
func MatchFolder(folders []config.Folder, query string) (FolderMatch, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return FolderMatch{}, false
	}
	for _, f := range folders {
		if strings.ToLower(f.Name) == q || strings.ToLower(f.Path) == strings.Trim(q, "/") {
			return FolderMatch{Folder: f, Score: 1, Exact: true}, true
		}
	}

	var best FolderMatch
	for _, f := range folders {
		score := float64(edlib.JaroWinklerSimilarity(q, strings.ToLower(f.Name)))
		if score > best.Score {
			best = FolderMatch{Folder: f, Score: score}
		}
	}
	if best.Score < minFolderScore {
		return FolderMatch{}, false
	}
	return best, true
}
