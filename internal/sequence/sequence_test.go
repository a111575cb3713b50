package sequence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type letters string

func (l letters) Has(sym byte) bool {
	return strings.IndexByte(string(l), sym) >= 0
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		residues string
		wantErr  bool
	}{
		{"valid protein", "MKVLAAGIVG", false},
		{"single residue", "W", false},
		{"empty sequence", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := New("sp|P1 test", tt.residues)
			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, &EmptySequenceError{}, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.residues, rec.Sequence)
			assert.Equal(t, len(tt.residues), rec.Len())
		})
	}
}

func TestRecordID(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"id with text", "sp|P69905|HBA_HUMAN Hemoglobin subunit alpha", "sp|P69905|HBA_HUMAN"},
		{"id only", "query1", "query1"},
		{"leading space", " padded name", "padded"},
		{"blank", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{Description: tt.description, Sequence: "A"}
			assert.Equal(t, tt.want, rec.ID())
		})
	}
}

func TestSubsequence(t *testing.T) {
	rec := &Record{Description: "p", Sequence: "MKVLAAG"}

	sub, err := rec.Subsequence(1, 4)
	require.NoError(t, err)
	assert.Equal(t, "KVL", sub.Sequence)
	assert.Equal(t, "p", sub.Description)

	_, err = rec.Subsequence(-1, 2)
	require.Error(t, err)
	_, err = rec.Subsequence(3, 3)
	require.Error(t, err)
	_, err = rec.Subsequence(0, 8)
	require.Error(t, err)
}

func TestToFASTA(t *testing.T) {
	rec := &Record{Description: "p1 kinase", Sequence: "MKV"}
	assert.Equal(t, ">p1 kinase\nMKV\n", rec.ToFASTA())
	assert.Equal(t, ">p1 kinase\nMKV", rec.String())
	assert.Equal(t, "MKV", (&Record{Sequence: "MKV"}).String())
}

func TestEqual(t *testing.T) {
	a := &Record{Description: "x", Sequence: "MK"}
	assert.True(t, a.Equal(&Record{Description: "x", Sequence: "MK"}))
	assert.False(t, a.Equal(&Record{Description: "y", Sequence: "MK"}))
	assert.False(t, a.Equal(nil))
}

func TestValidate(t *testing.T) {
	alphabet := letters("ARNDCQEGHILKMFPSTWYV")

	tests := []struct {
		name     string
		residues string
		errType  interface{}
		position int
	}{
		{"valid", "MKVLA", nil, 0},
		{"invalid residue", "MKJLA", &InvalidResidueError{}, 2},
		{"lowercase is not normalized", "mkv", &InvalidResidueError{}, 0},
		{"empty", "", &EmptySequenceError{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.residues, alphabet)
			if tt.errType == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.IsType(t, tt.errType, err)
			if ire, ok := err.(*InvalidResidueError); ok {
				assert.Equal(t, tt.position, ire.Position)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "MKV", Normalize("  mkV\n"))
}
