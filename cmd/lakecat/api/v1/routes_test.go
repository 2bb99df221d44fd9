package v1_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/datapond/lakecat/cmd/lakecat/api/v1"
	"github.com/datapond/lakecat/pkg/catalog"
)

const tripsYAML = `name: trips
sources:
  - name: yellow
    driver: csv
    description: Yellow taxi trip records
    args:
      urlpath: ./data/yellow.csv
  - name: green
    driver: csv
`

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trips.yml")
	require.NoError(t, os.WriteFile(path, []byte(tripsYAML), 0o600))

	cat, err := catalog.New(context.Background(), path)
	require.NoError(t, err)
	return cat
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(v1.NewServer(newTestCatalog(t)))
	server.Config.SetKeepAlivesEnabled(false)
	t.Cleanup(server.Close)
	return server
}

func getCBOR(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		assert.Equal(t, v1.ContentType, resp.Header.Get("Content-Type"))
		require.NoError(t, cbor.Unmarshal(body, out))
	}
	return resp.StatusCode
}

func TestGetInfo(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)

	var info v1.InfoResponse
	status := getCBOR(t, server.URL+"/v1/info", &info)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "trips", info.Name)
	require.Len(t, info.Sources, 2)

	names := make([]string, 0, len(info.Sources))
	for _, src := range info.Sources {
		name, _ := src["name"].(string)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"yellow", "green"}, names)
}

func TestGetSource(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)

	var src map[string]any
	status := getCBOR(t, server.URL+"/v1/source?name=yellow", &src)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "yellow", src["name"])
	assert.Equal(t, "csv", src["driver"])
	assert.Equal(t, "Yellow taxi trip records", src["description"])
	assert.Equal(t, "./data/yellow.csv", src["urlpath"])
}

func TestGetSource_Errors(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)

	status := getCBOR(t, server.URL+"/v1/source", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = getCBOR(t, server.URL+"/v1/source?name=purple", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := newCatalogServer(t)
	status := getCBOR(t, server.URL+"/health", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

// TestRemoteCatalogRoundTrip points a remote-backed catalog at a served
// local catalog and checks the entries survive the wire unchanged.
func TestRemoteCatalogRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server := newCatalogServer(t)

	remote, err := catalog.New(ctx, server.URL)
	require.NoError(t, err)

	names, err := remote.EntryNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"green", "yellow"}, names)

	entry, err := remote.GetEntry(ctx, "yellow")
	require.NoError(t, err)
	assert.Equal(t, "csv", entry.Driver)
	assert.Equal(t, "Yellow taxi trip records", entry.Description)
	assert.Equal(t, server.URL+"/v1/source", entry.URL)
	assert.Equal(t, map[string]any{"urlpath": "./data/yellow.csv"}, entry.Args)
}
