package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadLocations(t *testing.T) {
	csv := "nombre\nNorte\n  Sur  \nnorte\n\nO'Higgins,extra\n"
	got, err := readLocations(strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Norte", "O'Higgins", "Sur"}, got)
}

func TestReadLocations_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("Bogotá\nMedellín\n")
	require.NoError(t, err)

	got, err := readLocations(strings.NewReader(raw), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bogotá", "Medellín"}, got)
}

func TestWriteSeed(t *testing.T) {
	var buf bytes.Buffer
	err := writeSeed(&buf, seedInput{
		Locations:  []string{"O'Higgins"},
		AdminName:  "Root",
		AdminEmail: " Root@SalesTrack.co ",
		AdminHash:  "$2a$10$hash",
	})
	require.NoError(t, err)

	sql := buf.String()
	assert.Contains(t, sql, "SELECT 'O''Higgins' WHERE NOT EXISTS")
	assert.Contains(t, sql, "'root@salestrack.co'")
	assert.Contains(t, sql, "ON CONFLICT ((lower(email))) DO NOTHING")
	assert.NotContains(t, sql, "CREATE TABLE")

	buf.Reset()
	require.NoError(t, writeSeed(&buf, seedInput{Schema: true, AdminEmail: "a@b.co"}))
	assert.Contains(t, buf.String(), "CREATE TABLE IF NOT EXISTS users")
}
