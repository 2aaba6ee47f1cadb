// seed genera un script SQL para poblar una base SalesTrack vacía: roles,
// sedes leídas de un CSV y el primer super-admin.
//
// Uso: go run ./cmd/seed -in sedes.csv [-latin1] [-schema] [-out seed.sql]
// La contraseña del super-admin se lee de SEED_ADMIN_PASSWORD.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jhoicas/salestrack-api/internal/infrastructure/security"
)

func main() {
	in := flag.String("in", "sedes.csv", "CSV con una sede por fila (primera columna)")
	latin1 := flag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	withSchema := flag.Bool("schema", false, "incluir el DDL antes de los datos")
	outPath := flag.String("out", "", "archivo de salida (por defecto stdout)")
	adminName := flag.String("admin-name", "Administrador", "nombre del super-admin")
	adminEmail := flag.String("admin-email", "admin@salestrack.local", "email del super-admin")
	flag.Parse()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD debe tener al menos 8 caracteres")
		os.Exit(1)
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	locations, err := readLocations(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	hash, err := security.BcryptHasher{}.Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}

	err = writeSeed(out, seedInput{
		Schema:     *withSchema,
		Locations:  locations,
		AdminName:  *adminName,
		AdminEmail: *adminEmail,
		AdminHash:  hash,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d sedes, super-admin %s\n", len(locations), *adminEmail)
}
