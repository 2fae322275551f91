package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseRequestedQuantity interpreta la cantidad escrita por el operador.
// Texto vacío o no numérico equivale a cero.
func ParseRequestedQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ClampQuantity lleva la cantidad solicitada a unidades enteras dentro de [0, max].
// Las cantidades son discretas: 7.9 se trunca a 7. Negativos quedan en 0.
func ClampQuantity(requested decimal.Decimal, max int) int {
	if max <= 0 || !requested.IsPositive() {
		return 0
	}
	whole := requested.Truncate(0)
	if whole.GreaterThanOrEqual(decimal.NewFromInt(int64(max))) {
		return max
	}
	return int(whole.IntPart())
}

// ComputeReorderShortage calcula cuántas unidades faltan para alcanzar el umbral de reorden,
// descontando lo que ya está en tránsito.
//
//	threshold <= 0            → 0 (sin política)
//	available >= threshold    → 0 (suficiente)
//	inTransit >= faltante     → 0 (ya se está reponiendo)
//	en otro caso              → threshold - available
func ComputeReorderShortage(available, threshold, inTransit int) int {
	if threshold <= 0 || available >= threshold {
		return 0
	}
	shortfall := threshold - available
	if inTransit >= shortfall {
		return 0
	}
	return shortfall
}
