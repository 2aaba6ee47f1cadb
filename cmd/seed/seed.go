package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/salestrack-api/internal/infrastructure/postgres"
)

type seedInput struct {
	Schema     bool
	Locations  []string
	AdminName  string
	AdminEmail string
	AdminHash  string
}

// readLocations devuelve los nombres únicos (sin distinguir mayúsculas) ordenados.
// Ignora la cabecera "name"/"nombre" y las filas vacías.
func readLocations(r io.Reader, latin1 bool) ([]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	seen := map[string]string{}
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("registro %d: %w", n, err)
		}
		if len(rec) == 0 {
			continue
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		if n == 1 && (strings.EqualFold(name, "name") || strings.EqualFold(name, "nombre")) {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; !ok {
			seen[key] = name
		}
	}

	names := make([]string, 0, len(seen))
	for _, n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func writeSeed(w io.Writer, in seedInput) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("-- Datos iniciales de SalesTrack\n\n")
	if in.Schema {
		bw.WriteString(postgres.Schema)
		bw.WriteString("\n")
	}

	bw.WriteString("-- Sedes\n")
	for _, name := range in.Locations {
		n := escapeSQL(name)
		fmt.Fprintf(bw, "INSERT INTO locations (name)\nSELECT '%s' WHERE NOT EXISTS (SELECT 1 FROM locations WHERE lower(name) = lower('%s'));\n", n, n)
	}

	bw.WriteString("\n-- Super-admin (sin sede)\n")
	fmt.Fprintf(bw, "INSERT INTO users (name, email, password_hash, role_id, location_id)\nVALUES ('%s', '%s', '%s', 1, NULL)\nON CONFLICT ((lower(email))) DO NOTHING;\n",
		escapeSQL(in.AdminName), escapeSQL(strings.ToLower(strings.TrimSpace(in.AdminEmail))), escapeSQL(in.AdminHash))
	return bw.Flush()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
