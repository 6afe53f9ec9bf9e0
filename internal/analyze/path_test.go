package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypePath(t *testing.T) {
	root := NewTypePath("store.Order")
	assert.Equal(t, "store.Order", root.String())

	items := root.Field("Items")
	assert.Equal(t, "store.Order.Items", items.String())
	assert.Equal(t, "store.Order.Items[]", items.Elem().String())
	assert.Equal(t, "store.Order.Items[].ProductID", items.Elem().Field("ProductID").String())
	assert.Equal(t, "store.Order.Notes{}", root.Field("Notes").Value().String())

	assert.Equal(t, "store.Order", root.String(), "paths are immutable")
	assert.Equal(t, "[]", (&TypePath{}).Elem().String())

	var none *TypePath
	assert.Empty(t, none.String())
}
