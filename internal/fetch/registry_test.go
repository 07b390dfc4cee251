package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "ico,nazev,udaje\n45274649,Avast Software s.r.o.,\n"

func ckanServer(t *testing.T, downloads *int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/package_list", func(w http.ResponseWriter, r *http.Request) {
		year := strconv.Itoa(time.Now().Year())
		fmt.Fprintf(w, `{"success":true,"result":["or-archiv-2015","or-plny-%s"]}`, year)
	})
	mux.HandleFunc("/package_show", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"success":true,"result":{"resources":[`+
			`{"format":"XML","url":"%s/data.xml"},`+
			`{"format":"CSV","url":"%s/data.csv"}]}}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/data.csv", func(w http.ResponseWriter, r *http.Request) {
		if downloads != nil {
			*downloads++
		}
		fmt.Fprint(w, testCSV)
	})
	srv = httptest.NewServer(mux)
	return srv
}

func TestLatestDataset(t *testing.T) {
	srv := ckanServer(t, nil)
	defer srv.Close()
	c := NewRegistryClient(srv.URL, t.TempDir(), time.Hour)

	name, err := c.LatestDataset(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "or-plny-"+strconv.Itoa(time.Now().Year()), name)
}

func TestFetchDataset(t *testing.T) {
	downloads := 0
	srv := ckanServer(t, &downloads)
	defer srv.Close()
	c := NewRegistryClient(srv.URL, t.TempDir(), time.Hour)

	path, err := c.FetchDataset(context.Background(), "or-plny-2026")

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testCSV, string(data))
	assert.Equal(t, 1, downloads)

	// A fresh cached copy short-circuits the next fetch.
	again, err := c.FetchDataset(context.Background(), "or-plny-2026")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, downloads)
}

func TestFetchDataset_StaleCacheRedownloaded(t *testing.T) {
	downloads := 0
	srv := ckanServer(t, &downloads)
	defer srv.Close()
	c := NewRegistryClient(srv.URL, t.TempDir(), time.Hour)

	path, err := c.FetchDataset(context.Background(), "or-plny-2026")
	require.NoError(t, err)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	_, err = c.FetchDataset(context.Background(), "or-plny-2026")
	require.NoError(t, err)
	assert.Equal(t, 2, downloads)
}

func TestFetchDataset_NoCSVResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"result":{"resources":[{"format":"XML","url":"http://x/data.xml"}]}}`)
	}))
	defer srv.Close()
	c := NewRegistryClient(srv.URL, t.TempDir(), time.Hour)

	_, err := c.FetchDataset(context.Background(), "or-plny-2026")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no CSV resource")
}
