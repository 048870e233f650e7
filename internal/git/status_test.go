package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	oidA = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	oidB = "5716ca5987cbf97d6bb54920bea6adde242d87e6"
	oid0 = "0000000000000000000000000000000000000000"
)

func nul(records ...string) []byte {
	return []byte(strings.Join(records, "\x00") + "\x00")
}

func TestParseStatus(t *testing.T) {
	data := nul(
		"# branch.oid "+oidA,
		"1 M. N... 100644 100644 100644 "+oidA+" "+oidB+" src/main.c",
		"1 A. N... 000000 100755 100755 "+oid0+" "+oidB+" src/with space.c",
		"2 R. N... 100644 100644 100644 "+oidA+" "+oidA+" R100 src/b.c",
		"src/a.c",
		"u UU N... 100644 100644 100644 100644 "+oidA+" "+oidB+" "+oidA+" src/conflict.c",
		"? notes.txt",
		"! build/out.o",
	)

	entries, err := ParseStatus(data)
	require.NoError(t, err)

	assert.Equal(t, []StatusEntry{
		{Kind: KindOrdinary, XY: "M.", IndexMode: "100644", Path: "src/main.c"},
		{Kind: KindOrdinary, XY: "A.", IndexMode: "100755", Path: "src/with space.c"},
		{Kind: KindRenamed, XY: "R.", IndexMode: "100644", Path: "src/b.c", OrigPath: "src/a.c"},
		{Kind: KindUnmerged, XY: "UU", Path: "src/conflict.c"},
		{Kind: KindUntracked, Path: "notes.txt"},
		{Kind: KindIgnored, Path: "build/out.o"},
	}, entries)
}

func TestParseStatus_Empty(t *testing.T) {
	entries, err := ParseStatus(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseStatus_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "ordinary too short", data: nul("1 M. N... 100644 100644")},
		{name: "rename without original", data: []byte("2 R. N... 100644 100644 100644 " + oidA + " " + oidA + " R100 src/b.c\x00")},
		{name: "unknown kind", data: nul("x what is this")},
		{name: "bad XY", data: nul("1 M N... 100644 100644 100644 " + oidA + " " + oidB + " src/main.c")},
		{name: "untracked without path", data: nul("?")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStatus(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestStagedChanges(t *testing.T) {
	entries := []StatusEntry{
		{Kind: KindOrdinary, XY: "M.", IndexMode: "100644", Path: "src/modified.c"},
		{Kind: KindOrdinary, XY: "MM", IndexMode: "100644", Path: "src/partly.c"},
		{Kind: KindOrdinary, XY: "A.", IndexMode: "100755", Path: "src/added.sh"},
		{Kind: KindOrdinary, XY: "D.", IndexMode: "000000", Path: "src/deleted.c"},
		{Kind: KindOrdinary, XY: ".M", IndexMode: "100644", Path: "src/unstaged.c"},
		{Kind: KindOrdinary, XY: "T.", IndexMode: "120000", Path: "src/typechange"},
		{Kind: KindRenamed, XY: "R.", IndexMode: "100644", Path: "src/b.c", OrigPath: "src/a.c"},
		{Kind: KindRenamed, XY: "C.", IndexMode: "100644", Path: "src/copy.c", OrigPath: "src/orig.c"},
		{Kind: KindUnmerged, XY: "AA", Path: "src/conflict.c"},
		{Kind: KindUntracked, Path: "src/untracked.c"},
	}

	assert.Equal(t, []ChangeSetEntry{
		{Mode: "100644", Path: "src/modified.c"},
		{Mode: "100644", Path: "src/partly.c"},
		{Mode: "100755", Path: "src/added.sh"},
		{Mode: "100644", Path: "src/b.c"},
		{Mode: "100644", Path: "src/copy.c"},
	}, StagedChanges(entries))
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "1", KindOrdinary.String())
	assert.Equal(t, "2", KindRenamed.String())
	assert.Equal(t, "u", KindUnmerged.String())
}
