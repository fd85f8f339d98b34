package atomtable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviserver-project/naviserver-sub001/atomtable"
	coreerrors "github.com/naviserver-project/naviserver-sub001/errors"
)

func TestNewTableAssignsStableCoreIDs(t *testing.T) {
	tbl := atomtable.NewTable("server", "method", "url")

	id, ok := tbl.AtomID("method")
	require.True(t, ok)
	assert.Equal(t, atomtable.ID(1), id)
	assert.Equal(t, "method", tbl.AtomName(id))
}

func TestAtomRegisterDedupes(t *testing.T) {
	tbl := atomtable.NewTable("server")

	id1, err := tbl.AtomRegister("custom")
	require.NoError(t, err)

	id2, err := tbl.AtomRegister("custom")
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
}

func TestAtomRegisterFailsAfterSeal(t *testing.T) {
	tbl := atomtable.NewTable("server")
	tbl.Seal()

	_, err := tbl.AtomRegister("late")
	require.ErrorIs(t, err, coreerrors.ErrSealed)
	assert.True(t, tbl.Sealed())
}

func TestAtomObjUsesCache(t *testing.T) {
	tbl := atomtable.NewTable("server")
	id, err := tbl.AtomRegister("dyn")
	require.NoError(t, err)

	cache := atomtable.NewCache()
	defer atomtable.PutCache(cache)

	obj1 := tbl.AtomObj(id, cache)
	obj2 := tbl.AtomObj(id, cache)

	require.NotNil(t, obj1)
	assert.Same(t, obj1, obj2, "second lookup should hit the per-goroutine cache")
	assert.Equal(t, "dyn", obj1.Name)
}

func TestAtomNameUnknownIDReturnsEmpty(t *testing.T) {
	tbl := atomtable.NewTable("server")
	assert.Equal(t, "", tbl.AtomName(atomtable.ID(99)))
}
