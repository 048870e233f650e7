package git

import (
	"bytes"
	"fmt"
	"strings"
)

// ChangeKind is the record type of a porcelain v2 status entry
type ChangeKind byte

const (
	// KindOrdinary is an ordinary changed entry ("1")
	KindOrdinary ChangeKind = '1'
	// KindRenamed is a renamed or copied entry ("2")
	KindRenamed ChangeKind = '2'
	// KindUnmerged is an unmerged entry ("u")
	KindUnmerged ChangeKind = 'u'
	// KindUntracked is an untracked path ("?")
	KindUntracked ChangeKind = '?'
	// KindIgnored is an ignored path ("!")
	KindIgnored ChangeKind = '!'
)

// String returns the kind's porcelain marker
func (k ChangeKind) String() string {
	return string(rune(k))
}

// StatusEntry is one parsed porcelain v2 record
type StatusEntry struct {
	Kind ChangeKind
	// XY holds the index and worktree status letters
	XY string
	// IndexMode is the octal mode recorded in the index
	IndexMode string
	Path      string
	// OrigPath is the source path of a rename or copy
	OrigPath string
}

// IndexStatus returns the index half of XY
func (e StatusEntry) IndexStatus() byte {
	if e.XY == "" {
		return '.'
	}
	return e.XY[0]
}

// ChangeSetEntry is a staged file that may be reformatted
type ChangeSetEntry struct {
	Mode string
	Path string
}

// Field counts per record kind, including the kind marker itself.
const (
	ordinaryFields = 9  // 1 XY sub mH mI mW hH hI path
	renamedFields  = 10 // 2 XY sub mH mI mW hH hI Xscore path
	unmergedFields = 11 // u XY sub m1 m2 m3 mW h1 h2 h3 path
)

// ParseStatus parses the output of git status --porcelain=v2 -z
func ParseStatus(data []byte) ([]StatusEntry, error) {
	records := bytes.Split(data, []byte{0})
	var entries []StatusEntry

	for i := 0; i < len(records); i++ {
		rec := string(records[i])
		if rec == "" || rec[0] == '#' {
			continue
		}

		switch ChangeKind(rec[0]) {
		case KindOrdinary:
			f, err := splitRecord(rec, ordinaryFields)
			if err != nil {
				return nil, err
			}
			entries = append(entries, StatusEntry{
				Kind:      KindOrdinary,
				XY:        f[1],
				IndexMode: f[4],
				Path:      f[8],
			})

		case KindRenamed:
			f, err := splitRecord(rec, renamedFields)
			if err != nil {
				return nil, err
			}
			// The original path follows as its own NUL terminated record
			i++
			if i >= len(records) || len(records[i]) == 0 {
				return nil, fmt.Errorf("malformed status record %q: missing original path", rec)
			}
			entries = append(entries, StatusEntry{
				Kind:      KindRenamed,
				XY:        f[1],
				IndexMode: f[4],
				Path:      f[9],
				OrigPath:  string(records[i]),
			})

		case KindUnmerged:
			f, err := splitRecord(rec, unmergedFields)
			if err != nil {
				return nil, err
			}
			entries = append(entries, StatusEntry{
				Kind: KindUnmerged,
				XY:   f[1],
				Path: f[10],
			})

		case KindUntracked, KindIgnored:
			if len(rec) < 3 || rec[1] != ' ' {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			entries = append(entries, StatusEntry{
				Kind: ChangeKind(rec[0]),
				Path: rec[2:],
			})

		default:
			return nil, fmt.Errorf("unknown status record kind %q", rec[0])
		}
	}

	return entries, nil
}

// StagedChanges keeps ordinary and renamed entries whose index status is
// modified, added, renamed or copied. Renames report the new path.
func StagedChanges(entries []StatusEntry) []ChangeSetEntry {
	var out []ChangeSetEntry
	for _, e := range entries {
		if e.Kind != KindOrdinary && e.Kind != KindRenamed {
			continue
		}
		if !strings.ContainsRune("MARC", rune(e.IndexStatus())) {
			continue
		}
		out = append(out, ChangeSetEntry{Mode: e.IndexMode, Path: e.Path})
	}
	return out
}

func splitRecord(rec string, n int) ([]string, error) {
	f := strings.SplitN(rec, " ", n)
	if len(f) != n || f[n-1] == "" {
		return nil, fmt.Errorf("malformed status record %q: want %d fields, got %d", rec, n, len(f))
	}
	if len(f[1]) != 2 {
		return nil, fmt.Errorf("malformed status record %q: bad XY %q", rec, f[1])
	}
	return f, nil
}
