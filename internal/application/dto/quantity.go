package dto

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/inventory"
)

// RequestedQuantity cantidad tal como la escribe el operador: acepta número JSON o texto.
// Un valor no numérico equivale a 0 (la política de cantidades lo recorta).
type RequestedQuantity string

// UnmarshalJSON acepta 3, 3.5, "3" o "abc".
func (q *RequestedQuantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = RequestedQuantity(s)
		return nil
	}
	*q = RequestedQuantity(data)
	return nil
}

// Decimal interpreta la cantidad.
func (q RequestedQuantity) Decimal() decimal.Decimal {
	return inventory.ParseRequestedQuantity(string(q))
}
