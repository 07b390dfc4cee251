package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeignCompany(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/cy/HE123", r.URL.Path)
		fmt.Fprint(w, `{"results":{"company":{
			"name":"Cyprus Holdings Ltd.",
			"current_status":"Active",
			"registered_address":{"locality":"Nicosia"}}}}`)
	}))
	defer srv.Close()
	c := NewForeignRegistryClient(srv.URL, time.Minute)

	company, err := c.Company(context.Background(), "cy", "HE123")

	require.NoError(t, err)
	assert.Equal(t, "CYHE123", company.ID)
	assert.Equal(t, "Cyprus Holdings Ltd.", company.Name)
	assert.Equal(t, "Nicosia", company.City)
	assert.Equal(t, "CY", company.Country)
	assert.False(t, company.Insolvent)

	d := company.Details()
	assert.Equal(t, "CY", d.Country)
	assert.Equal(t, "Cyprus Holdings Ltd.", d.Name)
}

func TestForeignCompany_DissolvedMarkedInsolvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":{"company":{"name":"Gone Ltd.","current_status":"Dissolved"}}}`)
	}))
	defer srv.Close()
	c := NewForeignRegistryClient(srv.URL, time.Minute)

	company, err := c.Company(context.Background(), "gb", "1")

	require.NoError(t, err)
	assert.True(t, company.Insolvent)
}

func TestForeignCompany_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":{}}`)
	}))
	defer srv.Close()
	c := NewForeignRegistryClient(srv.URL, time.Minute)

	_, err := c.Company(context.Background(), "cy", "HE999")

	assert.Error(t, err)
}

func TestSplitForeignID(t *testing.T) {
	jur, num, ok := SplitForeignID("CY123456")
	assert.True(t, ok)
	assert.Equal(t, "cy", jur)
	assert.Equal(t, "123456", num)

	_, _, ok = SplitForeignID("45274649")
	assert.False(t, ok)

	_, _, ok = SplitForeignID("CY")
	assert.False(t, ok)
}

func TestForeignCompany_Cached(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"results":{"company":{"name":"Cyprus Holdings Ltd."}}}`)
	}))
	defer srv.Close()
	c := NewForeignRegistryClient(srv.URL, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := c.Company(context.Background(), "cy", "HE123")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, hits)
}
