package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Table{
		Columns: []string{"Unidade", "Aluno"},
		Rows: [][]string{
			{"Campinas", "João Silva"},
			{"Valinhos", "Lia, Costa"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Unidade,Aluno\nCampinas,João Silva\nValinhos,\"Lia, Costa\"\n", string(payload))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"only one"}},
	})
	assert.Error(t, err)
}

func TestCSVExporterRequiresColumns(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()

	payload, err := exporter.Render(Table{
		Columns: []string{"Unidade", "Aluno"},
		Rows:    [][]string{{"Campinas", "João"}},
	}, "Inscrições")
	require.NoError(t, err)

	assert.True(t, len(payload) > 0)
	assert.Equal(t, "%PDF", string(payload[:4]))
}
