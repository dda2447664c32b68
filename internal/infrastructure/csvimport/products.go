// Package csvimport lee exportaciones CSV de productos (UTF-8 o ISO-8859-1).
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/caioaugustofs/api-vendas/internal/domain/entity"
)

// Options formato del archivo.
type Options struct {
	Sep    rune // separador de columnas; 0 = ';'
	Latin1 bool // el archivo está en ISO-8859-1
}

// ParseProducts lee el CSV (con cabecera sku;nome;preco;fabricante;descricao) y devuelve
// los productos activos a crear. El precio acepta coma decimal ("12,50").
func ParseProducts(r io.Reader, opts Options) ([]*entity.Product, error) {
	sep := opts.Sep
	if sep == 0 {
		sep = ';'
	}
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	var out []*entity.Product
	seen := make(map[string]int)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperan al menos sku, nome y preco", line)
		}
		sku := strings.TrimSpace(rec[0])
		if sku == "" {
			continue
		}
		if prev, ok := seen[sku]; ok {
			return nil, fmt.Errorf("línea %d: SKU %s repetido (línea %d)", line, sku, prev)
		}
		seen[sku] = line

		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: preco inválido %q", line, rec[2])
		}
		p := &entity.Product{
			SKU:    sku,
			Name:   strings.TrimSpace(rec[1]),
			Price:  price,
			Active: true,
		}
		if len(rec) > 3 {
			p.Manufacturer = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			p.Description = strings.TrimSpace(rec[4])
		}
		out = append(out, p)
	}
	return out, nil
}
