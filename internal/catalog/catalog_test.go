package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePackageName(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		storedName string
		want       string
	}{
		{name: "subscription tier", id: "foreman", want: "Foreman"},
		{name: "mini draw package", id: "mini-pack-2", storedName: "old name", want: "Mini Pack 2"},
		{name: "retired with stored name", id: "legacy-pack", storedName: "Legacy Pack", want: "Legacy Pack"},
		{name: "retired without stored name", id: "legacy-pack", want: "legacy-pack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePackageName(tt.id, tt.storedName))
		})
	}
}

func TestGetPackageByIDAndType(t *testing.T) {
	p, ok := GetPackageByIDAndType("boss", TypeSubscription)
	assert.True(t, ok)
	assert.Equal(t, "Boss", p.Name)

	_, ok = GetPackageByIDAndType("boss", TypeOneTime)
	assert.False(t, ok)

	_, ok = GetPackageByIDAndType("missing", TypeSubscription)
	assert.False(t, ok)
}

func TestMiniDrawPackagesIsACopy(t *testing.T) {
	list := MiniDrawPackages()
	list[0].Entries = 1000

	p, _ := GetMiniDrawPackageByID(list[0].ID)
	assert.NotEqual(t, 1000, p.Entries)
}
