package postgres

import _ "embed"

// Schema es el DDL de referencia (tablas, índices únicos parciales y roles).
//
//go:embed schema.sql
var Schema string
