package loc

import (
	"testing"

	"github.com/gluster/glusterfs-sub025/iatt"
	"github.com/stretchr/testify/require"
)

func TestIsRoot(t *testing.T) {
	require.True(t, Loc{Gfid: iatt.RootGfid}.IsRoot())
	require.True(t, Loc{Path: "/"}.IsRoot())
	require.False(t, Loc{Path: "/a"}.IsRoot())
}

func TestTouchupFillsNameFromPath(t *testing.T) {
	l := Loc{Path: "/a/b/c"}.Touchup()
	require.Equal(t, "c", l.Name)
}

func TestTouchupFillsPathFromName(t *testing.T) {
	l := Loc{Name: "foo"}.Touchup()
	require.Equal(t, "foo", l.Path)
}

func TestBuildChildJoinsPath(t *testing.T) {
	parent := Loc{Path: "/a", Gfid: iatt.Gfid{1}}
	child := BuildChild(parent, "b")
	require.Equal(t, "/a/b", child.Path)
	require.Equal(t, parent.Gfid, child.ParGfid)
}

func TestCopyIsIndependentValue(t *testing.T) {
	a := Loc{Path: "/x"}
	b := a.Copy()
	b.Path = "/y"
	require.Equal(t, "/x", a.Path)
}
