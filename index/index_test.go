package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	fi := FileIndex{
		Records: []FileRecord{
			{
				ID:   1,
				Name: "hello.txt",
				BlockRefs: []BlockRef{
					{ContentHash: [32]byte{0x01}, ArchiveOffset: 256, IntraLength: 5},
				},
				OriginalSize:   5,
				CompressedSize: 5,
			},
		},
	}
	fi.ComputeRootHash()

	b, err := fi.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	require.Equal(t, fi, got)
}

func TestComputeRootHashIsOrderSensitive(t *testing.T) {
	a := FileIndex{Records: []FileRecord{
		{ID: 1, BlockRefs: []BlockRef{{ContentHash: [32]byte{0x01}}, {ContentHash: [32]byte{0x02}}}},
	}}
	b := FileIndex{Records: []FileRecord{
		{ID: 1, BlockRefs: []BlockRef{{ContentHash: [32]byte{0x02}}, {ContentHash: [32]byte{0x01}}}},
	}}

	ha := a.ComputeRootHash()
	hb := b.ComputeRootHash()
	require.NotEqual(t, ha, hb)
}

func TestComputeRootHashDeterministic(t *testing.T) {
	fi := FileIndex{Records: []FileRecord{
		{ID: 1, BlockRefs: []BlockRef{{ContentHash: [32]byte{0x09}}}},
	}}

	h1 := fi.ComputeRootHash()
	h2 := fi.ComputeRootHash()
	require.Equal(t, h1, h2)
}

func TestByIDAndByName(t *testing.T) {
	fi := FileIndex{Records: []FileRecord{
		{ID: 1, Name: "a.txt"},
		{ID: 2, Name: "b.txt"},
	}}

	rec, ok := fi.ByID(2)
	require.True(t, ok)
	require.Equal(t, "b.txt", rec.Name)

	rec, ok = fi.ByName("a.txt")
	require.True(t, ok)
	require.EqualValues(t, 1, rec.ID)

	_, ok = fi.ByID(99)
	require.False(t, ok)
}
