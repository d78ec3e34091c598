package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-market/internal/infrastructure/catalog"
)

func TestReadCSV_ParseaFilas(t *testing.T) {
	in := "codigo,nombre,precio,stock,stock_minimo\n" +
		"agua-625,Agua 625ml,2.50,48,12\n" +
		"\n" +
		"PROT-BAR,Barra de proteína,\"6,50\",,\n"

	items, err := catalog.ReadCSV(strings.NewReader(in), catalog.Options{})
	require.NoError(t, err)
	require.Len(t, items, 2, "la fila vacía se ignora")

	assert.Equal(t, "AGUA-625", items[0].SKU, "el código se normaliza a mayúsculas")
	assert.Equal(t, "2.5", items[0].Price.String())
	assert.Equal(t, 48, items[0].Stock)
	assert.Equal(t, 12, items[0].ReorderPoint)

	assert.Equal(t, "6.5", items[1].Price.String(), "acepta coma decimal")
	assert.Zero(t, items[1].Stock, "stock vacío es cero")
}

func TestReadCSV_Latin1(t *testing.T) {
	// "Proteína" en ISO-8859-1: í = 0xED
	in := []byte("codigo;nombre;precio\nP1;Prote\xedna;5\n")

	items, err := catalog.ReadCSV(bytes.NewReader(in), catalog.Options{Latin1: true, Separator: ';'})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Proteína", items[0].Name)
}

func TestReadCSV_DetectaCodificacion(t *testing.T) {
	latin1 := []byte("codigo,nombre,precio\nT1,Toalla peque\xf1a,15\nC1,Candado de acero inoxidable,12\n")
	items, err := catalog.ReadCSV(bytes.NewReader(latin1), catalog.Options{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Toalla pequeña", items[0].Name, "sin BOM ni UTF-8 válido se decodifica como Latin-1")

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("codigo,nombre,precio\nA,Agua,2\n")...)
	items, err = catalog.ReadCSV(bytes.NewReader(withBOM), catalog.Options{})
	require.NoError(t, err)
	require.Len(t, items, 1, "el BOM no rompe el encabezado")
}

func TestReadCSV_FaltaColumna(t *testing.T) {
	_, err := catalog.ReadCSV(strings.NewReader("codigo,nombre\nA,B\n"), catalog.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precio")
}

func TestReadCSV_PrecioInvalido_IndicaLinea(t *testing.T) {
	in := "codigo,nombre,precio\nA,Agua,1\nB,Barra,abc\n"
	_, err := catalog.ReadCSV(strings.NewReader(in), catalog.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 3")
}
