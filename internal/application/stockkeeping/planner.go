package stockkeeping

import (
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// TransferBatch lote de traslado: una llamada remota por par (origen, destino).
type TransferBatch struct {
	FromWarehouseID string
	ToWarehouseID   string
	Items           []entity.SubmissionItem
	LineIDs         []string
}

// ReconciliationBatch lote único de conciliación con destinos mezclados.
type ReconciliationBatch struct {
	Items   []entity.SubmissionItem
	LineIDs []string
}

type routeKey struct{ from, to string }

// PlanTransferBatches agrupa las líneas por (origen, destino) en el orden en que aparece
// cada par. Las líneas con cantidad cero se descartan sin aviso; si no queda ningún lote
// devuelve domain.ErrNoValidLines en lugar de planificar llamadas vacías.
func PlanTransferBatches(lines []entity.StockLine) ([]TransferBatch, error) {
	index := make(map[routeKey]int)
	var batches []TransferBatch
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		key := routeKey{from: l.SourceWarehouseID, to: l.DestinationWarehouseID}
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, TransferBatch{FromWarehouseID: key.from, ToWarehouseID: key.to})
		}
		batches[i].Items = append(batches[i].Items, entity.SubmissionItem{VariantID: l.VariantID, Quantity: l.Quantity})
		batches[i].LineIDs = append(batches[i].LineIDs, l.ID())
	}
	if len(batches) == 0 {
		return nil, domain.ErrNoValidLines
	}
	return batches, nil
}

// PlanReconciliationBatch arma el lote único de conciliación.
func PlanReconciliationBatch(lines []entity.ReconciliationLine) (*ReconciliationBatch, error) {
	batch := &ReconciliationBatch{}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		batch.Items = append(batch.Items, entity.SubmissionItem{
			VariantID:   l.VariantID,
			WarehouseID: l.TargetWarehouseID,
			Quantity:    l.Quantity,
		})
		batch.LineIDs = append(batch.LineIDs, l.ID())
	}
	if len(batch.Items) == 0 {
		return nil, domain.ErrNoValidLines
	}
	return batch, nil
}
