package stock

import (
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Campos ordenables expuestos por la búsqueda. Cualquier otro valor es un
// error del caller, nunca se ignora en silencio.
var sortableFields = map[string]bool{
	"id":        true,
	"sku":       true,
	"name":      true,
	"balance":   true,
	"min_stock": true,
	"category":  true,
	"unit":      true,
}

// ParseSort convierte "balance,id" + "desc,asc" en la lista de claves de
// ordenamiento. Las direcciones faltantes se completan con asc; un campo o
// dirección desconocidos fallan con ErrInvalidSortKey.
// defaultField se usa cuando sortBy viene vacío.
func ParseSort(sortBy, sortDir, defaultField string) ([]repository.SortKey, error) {
	fields := splitCSV(sortBy)
	if len(fields) == 0 {
		fields = []string{defaultField}
	}
	dirs := splitCSV(sortDir)

	keys := make([]repository.SortKey, 0, len(fields))
	for i, f := range fields {
		f = strings.ToLower(f)
		if !sortableFields[f] {
			return nil, domain.ErrInvalidSortKey
		}
		desc := false
		if i < len(dirs) {
			switch strings.ToLower(dirs[i]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return nil, domain.ErrInvalidSortKey
			}
		}
		keys = append(keys, repository.SortKey{Field: f, Desc: desc})
	}
	return keys, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
