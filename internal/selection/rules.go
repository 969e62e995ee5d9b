package selection

import (
	"path"
	"sort"
	"strings"

	"github.com/thomas-vilte/matereview/internal/config"
	"github.com/thomas-vilte/matereview/internal/models"
)

// Rules decides which tree entries are worth reviewing.
type Rules struct {
	primary      map[string]struct{}
	secondary    map[string]struct{}
	ignored      []string
	maxFileBytes int
}

func NewRules(cfg config.SelectionConfig) Rules {
	return Rules{
		primary:      extensionSet(cfg.PrimaryExtensions),
		secondary:    extensionSet(cfg.SecondaryExtensions),
		ignored:      append([]string(nil), cfg.IgnoredDirs...),
		maxFileBytes: cfg.MaxFileBytes,
	}
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

// Classify returns the entry as a candidate, or false when it is not a blob,
// lives under an ignored directory, has no known extension, or is known to
// exceed the per-file cap.
func (r Rules) Classify(entry models.TreeEntry) (models.CandidateFile, bool) {
	if entry.Kind != models.EntryBlob {
		return models.CandidateFile{}, false
	}

	for _, prefix := range r.ignored {
		if strings.HasPrefix(entry.Path, prefix) {
			return models.CandidateFile{}, false
		}
	}

	ext := strings.ToLower(path.Ext(entry.Path))
	if ext == "" {
		return models.CandidateFile{}, false
	}

	var tier models.Tier
	if _, ok := r.primary[ext]; ok {
		tier = models.TierPrimary
	} else if _, ok := r.secondary[ext]; ok {
		tier = models.TierSecondary
	} else {
		return models.CandidateFile{}, false
	}

	if entry.SizeKnown() && *entry.Size > r.maxFileBytes {
		return models.CandidateFile{}, false
	}

	return models.CandidateFile{TreeEntry: entry, Tier: tier}, true
}

// Classify filters a tree listing down to review candidates, keeping the
// listing order.
func Classify(entries []models.TreeEntry, rules Rules) []models.CandidateFile {
	candidates := make([]models.CandidateFile, 0, len(entries))
	for _, entry := range entries {
		if c, ok := rules.Classify(entry); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Order returns a new slice with primary files first and paths ascending
// (byte-wise) inside each tier.
func Order(candidates []models.CandidateFile) []models.CandidateFile {
	ordered := make([]models.CandidateFile, len(candidates))
	copy(ordered, candidates)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Tier != ordered[j].Tier {
			return ordered[i].Tier < ordered[j].Tier
		}
		return ordered[i].Path < ordered[j].Path
	})

	return ordered
}
