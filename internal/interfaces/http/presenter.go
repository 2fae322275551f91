package http

import (
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

func warehouseResponse(w entity.Warehouse) dto.WarehouseResponse {
	return dto.WarehouseResponse{ID: w.ID, Name: w.Name, Code: w.Code, IsActive: w.IsActive}
}

func displayResponse(d entity.LineDisplay) dto.LineDisplayResponse {
	return dto.LineDisplayResponse{
		ProductName: d.ProductName,
		SKU:         d.SKU,
		SizeText:    d.SizeText,
		ColorText:   d.ColorText,
		Image:       d.Image,
	}
}

func validationResponse(blocker string, problems []stockkeeping.LineProblem) dto.ValidationResponse {
	out := dto.ValidationResponse{
		Submittable: blocker == stockkeeping.BlockerNone,
		Blocker:     blocker,
		Problems:    make([]dto.LineIssueResponse, 0, len(problems)),
	}
	for _, p := range problems {
		out.Problems = append(out.Problems, dto.LineIssueResponse{
			LineID:  p.LineID,
			Code:    string(p.Issue),
			Message: p.Issue.Message(),
		})
	}
	return out
}

func transferStateResponse(st stockkeeping.TransferState) dto.TransferSessionResponse {
	out := dto.TransferSessionResponse{
		SessionID:         st.SessionID,
		SourceWarehouseID: st.SourceWarehouseID,
		Lines:             make([]dto.TransferLineResponse, 0, len(st.Lines)),
		Validation:        validationResponse(st.Validation.Blocker, st.Validation.Problems),
		Fetching:          st.Activity.Fetching,
		Submitting:        st.Activity.Submitting,
	}
	for _, l := range st.Lines {
		out.Lines = append(out.Lines, dto.TransferLineResponse{
			LineID:                 l.ID(),
			VariantID:              l.VariantID,
			SourceWarehouseID:      l.SourceWarehouseID,
			DestinationWarehouseID: l.DestinationWarehouseID,
			Available:              l.Available,
			Quantity:               l.Quantity,
			Display:                displayResponse(l.Display),
			Issue:                  string(st.Validation.Issues[l.ID()]),
		})
	}
	return out
}

func reconciliationStateResponse(st stockkeeping.ReconciliationState) dto.ReconciliationSessionResponse {
	out := dto.ReconciliationSessionResponse{
		SessionID:  st.SessionID,
		SearchTerm: st.SearchTerm,
		Lines:      make([]dto.ReconciliationLineResponse, 0, len(st.Lines)),
		Validation: validationResponse(st.Validation.Blocker, st.Validation.Problems),
		Fetching:   st.Activity.Fetching,
		Submitting: st.Activity.Submitting,
	}
	for _, l := range st.Lines {
		out.Lines = append(out.Lines, dto.ReconciliationLineResponse{
			LineID:            l.ID(),
			VariantID:         l.VariantID,
			UnallocatedOnHand: l.UnallocatedOnHand,
			TargetWarehouseID: l.TargetWarehouseID,
			Quantity:          l.Quantity,
			Display:           displayResponse(l.Display),
			Issue:             string(st.Validation.Issues[l.ID()]),
		})
	}
	return out
}

func sourceStockResponse(snap *stockkeeping.WarehouseSnapshot) dto.SourceStockResponse {
	entries := snap.Entries()
	out := dto.SourceStockResponse{
		WarehouseID: snap.WarehouseID,
		FetchedAt:   snap.FetchedAt,
		Rows:        make([]dto.StockEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Rows = append(out.Rows, dto.StockEntryResponse{
			VariantID: e.VariantID,
			OnHand:    e.OnHand,
			Display:   displayResponse(e.Variant.Display()),
		})
	}
	return out
}

func unallocatedResponse(term string, rows []entity.UnallocatedVariant) dto.UnallocatedSearchResponse {
	out := dto.UnallocatedSearchResponse{Term: term, Rows: make([]dto.UnallocatedRowResponse, 0, len(rows))}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.UnallocatedRowResponse{
			VariantID:         r.VariantID,
			UnallocatedOnHand: r.UnallocatedOnHand,
			Display:           displayResponse(r.Display()),
		})
	}
	return out
}

func batchResponse(b stockkeeping.BatchOutcome) dto.BatchResponse {
	ids := b.LineIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.BatchResponse{
		SubmissionID:    b.SubmissionID,
		FromWarehouseID: b.FromWarehouseID,
		ToWarehouseID:   b.ToWarehouseID,
		LineIDs:         ids,
		ItemsSubmitted:  b.ItemsSubmitted,
		ItemsProcessed:  b.ItemsProcessed,
		Status:          b.Status,
		Message:         b.Message,
	}
}

func breakdownResponse(v *stockkeeping.BreakdownView) dto.BreakdownResponse {
	out := dto.BreakdownResponse{
		ProductID:                v.ProductID,
		ProductName:              v.ProductName,
		Scope:                    string(v.Scope),
		Rows:                     make([]dto.BreakdownRowResponse, 0, len(v.Breakdown.Rows)),
		Variants:                 make([]dto.VariantSummaryResponse, 0, len(v.Breakdown.Variants)),
		VariantCount:             v.Breakdown.VariantCount,
		WarehouseCount:           v.Breakdown.WarehouseCount,
		TotalOnHand:              v.Breakdown.TotalOnHand,
		DefaultSourceWarehouseID: v.DefaultSourceWarehouseID,
	}
	for _, r := range v.Breakdown.Rows {
		out.Rows = append(out.Rows, dto.BreakdownRowResponse{
			VariantID:     r.VariantID,
			SKU:           r.SKU,
			WarehouseID:   r.WarehouseID,
			WarehouseName: r.WarehouseName,
			WarehouseCode: r.WarehouseCode,
			OnHand:        r.OnHand,
		})
	}
	for _, s := range v.Breakdown.Variants {
		out.Variants = append(out.Variants, dto.VariantSummaryResponse{
			VariantID:        s.VariantID,
			SKU:              s.SKU,
			OnHand:           s.OnHand,
			ReorderThreshold: s.ReorderThreshold,
			InTransit:        s.InTransit,
			Shortage:         s.Shortage,
		})
	}
	return out
}
