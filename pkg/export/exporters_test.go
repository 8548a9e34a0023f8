package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleGrid() Grid {
	return Grid{
		Headers: []string{"Hora", "Lunes", "Martes"},
		Rows: []GridRow{
			{Label: "08:00", Cells: [][]string{{"PROG1 - CONF\nJuan Pérez\nA101"}, nil}},
			{Label: "09:00", Cells: [][]string{nil, {"CALC1 - CONF\nMaría García\nA102", "FIS1 - CP\nCarlos López\nA201"}}},
		},
	}
}

func TestXLSXExporterRender(t *testing.T) {
	payload, err := NewXLSXExporter().Render(sampleGrid(), "Horario Semanal 2024-1")
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "Horario Semanal 2024-1", sheets[0])

	header, err := f.GetCellValue(sheets[0], "B1")
	require.NoError(t, err)
	assert.Equal(t, "Lunes", header)

	label, err := f.GetCellValue(sheets[0], "A2")
	require.NoError(t, err)
	assert.Equal(t, "08:00", label)

	cell, err := f.GetCellValue(sheets[0], "B2")
	require.NoError(t, err)
	assert.Equal(t, "PROG1 - CONF\nJuan Pérez\nA101", cell)

	// Two slots sharing a cell are stacked.
	stacked, err := f.GetCellValue(sheets[0], "C3")
	require.NoError(t, err)
	assert.Equal(t, "CALC1 - CONF\nMaría García\nA102\nFIS1 - CP\nCarlos López\nA201", stacked)
}

func TestXLSXExporterSheetNameSanitised(t *testing.T) {
	payload, err := NewXLSXExporter().Render(sampleGrid(), "Horario: 2024/1 con un nombre demasiado largo")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	assert.NotContains(t, sheets[0], ":")
	assert.NotContains(t, sheets[0], "/")
	assert.LessOrEqual(t, len(sheets[0]), 31)
}

func TestXLSXExporterEmptyHeaders(t *testing.T) {
	_, err := NewXLSXExporter().Render(Grid{}, "Horario")
	require.Error(t, err)
}

func TestCSVExporterRender(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleGrid())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Hora", "Lunes", "Martes"}, records[0])
	assert.Equal(t, "08:00", records[1][0])
	assert.Equal(t, "PROG1 - CONF\nJuan Pérez\nA101", records[1][1])
	assert.Equal(t, "", records[1][2])
	assert.Equal(t, "CALC1 - CONF\nMaría García\nA102\nFIS1 - CP\nCarlos López\nA201", records[2][2])
}

func TestPDFExporterRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleGrid(), "Horario Semanal 2024-1")
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestPDFExporterEmptyHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Grid{}, "Horario")
	require.Error(t, err)
}
