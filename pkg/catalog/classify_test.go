package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name string
		obs  observable
		want kind
	}{
		{
			name: "list of URIs is a collection",
			obs:  observable{list: []string{"http://example.com", dir}},
			want: kindCollection,
		},
		{
			name: "empty list is still a collection",
			obs:  observable{list: []string{}},
			want: kindCollection,
		},
		{
			name: "http URL is remote",
			obs:  observable{uri: "http://catalog.example.com:5000"},
			want: kindRemote,
		},
		{
			name: "https URL is remote",
			obs:  observable{uri: "https://catalog.example.com"},
			want: kindRemote,
		},
		{
			name: "existing directory is a directory",
			obs:  observable{uri: dir},
			want: kindDirectory,
		},
		{
			name: "yml suffix is local",
			obs:  observable{uri: "/nonexistent/catalog.yml"},
			want: kindLocal,
		},
		{
			name: "yaml suffix is local",
			obs:  observable{uri: "catalog.yaml"},
			want: kindLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := classify(tt.obs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
	}{
		{name: "unknown suffix", uri: "/nonexistent/catalog.txt"},
		{name: "empty string", uri: ""},
		{name: "nonexistent extensionless path", uri: "/nonexistent/data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := classify(observable{uri: tt.uri})
			require.Error(t, err)

			var unsupported *UnsupportedObservableError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.uri, unsupported.Observable)
		})
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, flatten([]string{"a", "", "b"}))
	assert.Empty(t, flatten(nil))
}

func TestClampTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), clampTTL(-time.Second))
	assert.Equal(t, time.Second, clampTTL(time.Second))
}
