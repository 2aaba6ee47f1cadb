package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/salestrack-api/internal/domain/repository"
)

func TestContainsPattern_EscapaComodines(t *testing.T) {
	cases := map[string]string{
		"acme":    "%acme%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`c:\temp`: `%c:\\temp%`,
		"":        "%%",
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestCustomerWhere_BusquedaLiteral(t *testing.T) {
	b := customerWhere(psql.Select("id").From("customers"), repository.CustomerFilter{Search: "10%_off"})
	_, args, err := b.ToSql()
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{`%10\%\_off%`, `%10\%\_off%`, `%10\%\_off%`}, args)
}
