package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeListings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadListingsCSV(t *testing.T) {
	path := writeListings(t,
		"title,price\n"+
			"2024 Topps Mike Trout Baseball Card #27,12.50\n"+
			"Nike Air Max Size 10 Shoes,89.99\n")

	listings, err := readListingsCSV(path)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "2024 Topps Mike Trout Baseball Card #27", listings[0].Title)
	assert.Equal(t, 12.50, listings[0].Price)
}

func TestReadListingsCSV_NoHeader(t *testing.T) {
	path := writeListings(t, "2024 Topps Mike Trout Baseball Card #27,12.50\n")

	listings, err := readListingsCSV(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 12.50, listings[0].Price)
}

func TestReadListingsCSV_MissingPrice(t *testing.T) {
	path := writeListings(t, "2024 Topps Mike Trout Baseball Card #27\n")

	listings, err := readListingsCSV(path)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Zero(t, listings[0].Price)
}

func TestReadListingsCSV_BadPrice(t *testing.T) {
	path := writeListings(t,
		"title,price\n"+
			"2024 Topps Mike Trout Baseball Card #27,twelve\n")

	_, err := readListingsCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad price")
}

func TestReadListingsCSV_MissingFile(t *testing.T) {
	_, err := readListingsCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
