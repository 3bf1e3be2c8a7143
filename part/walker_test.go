package part_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailcore/part"
)

const nested = `X-Where: A
Content-Type: multipart/mixed; boundary=aaaaaaa

--aaaaaaa
X-Where: B
Content-Type: multipart/mixed; boundary=bbbbbbb

--bbbbbbb
X-Where: E
Content-Type: text/plain

--bbbbbbb
X-Where: F
Content-Type: text/html

--bbbbbbb--
--aaaaaaa
X-Where: C
Content-Type: multipart/mixed; boundary=ccccccc

--ccccccc
X-Where: G
Content-Type: image/png

--ccccccc
X-Where: H
Content-Type: text/plain

--ccccccc--
--aaaaaaa
X-Where: D
Content-Type: multipart/mixed; boundary=ddddddd

--ddddddd
X-Where: I
Content-Type: text/plain

--ddddddd
X-Where: J
Content-Type: application/pdf

--ddddddd--
--aaaaaaa--
`

func parseNested(t *testing.T) *part.Part {
	t.Helper()

	root, err := part.NewParser(nil).Parse(context.Background(), []byte(nested))
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func where(t *testing.T, p *part.Part) string {
	t.Helper()

	w, err := p.Header().Get("X-Where")
	assert.NoError(t, err)
	return w
}

func TestWalker_Walk(t *testing.T) {
	t.Parallel()

	root := parseNested(t)

	expectOrder := []string{"A", "B", "E", "F", "C", "G", "H", "D", "I", "J"}
	expectDepth := []int{0, 1, 2, 2, 1, 2, 2, 1, 2, 2}
	expectIndex := []int{0, 0, 0, 1, 1, 0, 1, 2, 0, 1}
	i := 0
	var w part.Walker = func(depth, j int, p *part.Part) error {
		assert.Equal(t, expectOrder[i], where(t, p))
		assert.Equal(t, expectDepth[i], depth)
		assert.Equal(t, expectIndex[i], j)
		i++
		return nil
	}

	assert.NoError(t, w.Walk(root))
	assert.Equal(t, len(expectOrder), i)
}

func TestWalker_WalkLeaves(t *testing.T) {
	t.Parallel()

	root := parseNested(t)

	var got []string
	var w part.Walker = func(_, _ int, p *part.Part) error {
		got = append(got, where(t, p))
		return nil
	}

	assert.NoError(t, w.WalkLeaves(root))
	assert.Equal(t, []string{"E", "F", "G", "H", "I", "J"}, got)
}

func TestWalker_WalkContainers(t *testing.T) {
	t.Parallel()

	root := parseNested(t)

	var got []string
	var w part.Walker = func(_, _ int, p *part.Part) error {
		got = append(got, where(t, p))
		return nil
	}

	assert.NoError(t, w.WalkContainers(root))
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestWalker_Stop(t *testing.T) {
	t.Parallel()

	root := parseNested(t)
	stop := errors.New("stop")

	n := 0
	var w part.Walker = func(_, _ int, _ *part.Part) error {
		n++
		if n == 3 {
			return stop
		}
		return nil
	}

	assert.ErrorIs(t, w.Walk(root), stop)
	assert.Equal(t, 3, n)
}

func TestWalker_Nil(t *testing.T) {
	t.Parallel()

	var w part.Walker = func(_, _ int, _ *part.Part) error {
		t.Fatal("walker called for nil root")
		return nil
	}
	assert.NoError(t, w.Walk(nil))
}

func TestCollect(t *testing.T) {
	t.Parallel()

	root := parseNested(t)

	names := func(ps []*part.Part) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = where(t, p)
		}
		return out
	}

	assert.Equal(t, []string{"E", "H", "I"}, names(part.Collect(root, part.KindText)))
	assert.Equal(t, []string{"F"}, names(part.Collect(root, part.KindHTML)))
	assert.Equal(t, []string{"G", "J"}, names(part.Collect(root, part.KindAttachment)))
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(part.Collect(root, part.KindContainer)))
	assert.Empty(t, part.Collect(nil, part.KindText))
}
