// Package catalog lee catálogos de productos exportados desde hojas de cálculo.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/caja-market/internal/application/inventory"
)

// Encabezado esperado (orden libre): codigo, nombre, precio, stock, stock_minimo.
var requiredColumns = []string{"codigo", "nombre", "precio"}

// Options opciones de lectura.
type Options struct {
	Latin1    bool // fuerza ISO-8859-1; si no, la codificación se detecta
	Separator rune // 0 = ','
}

// ReadCSV parsea el catálogo. Filas vacías se ignoran; cualquier otra fila inválida aborta
// con el número de línea.
func ReadCSV(r io.Reader, opts Options) ([]inventory.CatalogItem, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	} else {
		var err error
		if r, err = utf8Reader(r); err != nil {
			return nil, err
		}
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if opts.Separator != 0 {
		cr.Comma = opts.Separator
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var items []inventory.CatalogItem
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}
		item, err := parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRow(rec []string, cols map[string]int) (inventory.CatalogItem, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	item := inventory.CatalogItem{
		SKU:  strings.ToUpper(get("codigo")),
		Name: get("nombre"),
	}
	if item.SKU == "" || item.Name == "" {
		return item, fmt.Errorf("codigo y nombre son obligatorios")
	}
	// Acepta coma decimal ("12,50").
	price, err := decimal.NewFromString(strings.ReplaceAll(get("precio"), ",", "."))
	if err != nil {
		return item, fmt.Errorf("precio inválido %q", get("precio"))
	}
	item.Price = price
	if item.Stock, err = optionalInt(get("stock")); err != nil {
		return item, fmt.Errorf("stock inválido: %w", err)
	}
	if item.ReorderPoint, err = optionalInt(get("stock_minimo")); err != nil {
		return item, fmt.Errorf("stock_minimo inválido: %w", err)
	}
	return item, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// utf8Reader decodifica a UTF-8: respeta BOM, deja pasar UTF-8 válido y para el resto
// usa chardet; sin resultado útil asume Windows-1252.
func utf8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	buf, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case utf8.Valid(buf):
		return br, nil
	}
	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil && res.Charset == "ISO-8859-1" {
		return transform.NewReader(br, charmap.ISO8859_1.NewDecoder()), nil
	}
	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
