package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa InventoryGateway.
var _ ports.InventoryGateway = (*Client)(nil)

// maxBody límite de lectura de una respuesta (listados de existencias incluidos).
const maxBody = 8 << 20

// Client adaptador HTTP/JSON del servicio remoto de inventario.
// Usa net/http de la librería estándar; el servicio no publica un SDK.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el adaptador. token es el bearer de servicio (puede ir vacío
// si el servicio está detrás de una red privada).
func NewClient(baseURL, token string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ListWarehouses GET /warehouses.
func (c *Client) ListWarehouses(ctx context.Context) ([]entity.Warehouse, error) {
	var resp warehouseListResponse
	if err := c.do(ctx, http.MethodGet, "/warehouses", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.Warehouse, 0, len(resp.Rows))
	for _, w := range resp.Rows {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// GetProduct GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	var resp productJSON
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.toEntity(), nil
}

// WarehouseStock GET /warehouse-stock/{id}.
func (c *Client) WarehouseStock(ctx context.Context, warehouseID string) (*ports.WarehouseStock, error) {
	var resp warehouseStockResponse
	if err := c.do(ctx, http.MethodGet, "/warehouse-stock/"+url.PathEscape(warehouseID), nil, &resp); err != nil {
		return nil, err
	}
	out := &ports.WarehouseStock{Warehouse: resp.Warehouse.toEntity()}
	if out.Warehouse.ID == "" {
		out.Warehouse.ID = warehouseID
	}
	for _, row := range resp.Stock {
		variantID := row.ProductVariantID
		if variantID == "" {
			variantID = row.ProductVariant.ID
		}
		variant := row.ProductVariant.toEntity(row.Product.ID, row.Product.Name)
		variant.ID = variantID
		out.Entries = append(out.Entries, entity.StockEntry{
			VariantID:   variantID,
			WarehouseID: warehouseID,
			OnHand:      row.Quantity,
			Variant:     variant,
		})
	}
	return out, nil
}

// UnallocatedVariants GET /unallocated-variants?search=.
func (c *Client) UnallocatedVariants(ctx context.Context, search string) ([]entity.UnallocatedVariant, error) {
	path := "/unallocated-variants"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var resp unallocatedResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]entity.UnallocatedVariant, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		out = append(out, entity.UnallocatedVariant{
			VariantID:         r.ProductVariantID,
			ProductName:       r.ProductName,
			SKU:               r.SKU,
			SizeText:          r.SizeText,
			ColorText:         r.ColorText,
			UnallocatedOnHand: r.UnallocatedOnHand,
			Images:            r.Images,
		})
	}
	return out, nil
}

// TransferStockBulk POST /transfer-stock-bulk.
func (c *Client) TransferStockBulk(ctx context.Context, req ports.TransferRequest) (*ports.SubmitResult, error) {
	body := transferRequestJSON{
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Reason:          req.Reason,
		Items:           itemsJSON(req.Items),
	}
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/transfer-stock-bulk", body, &resp); err != nil {
		return nil, err
	}
	return &ports.SubmitResult{ItemsProcessed: resp.ItemsProcessed}, nil
}

// ReconcileStock POST /reconcile-stock.
func (c *Client) ReconcileStock(ctx context.Context, req ports.ReconcileRequest) (*ports.SubmitResult, error) {
	body := reconcileRequestJSON{Reason: req.Reason, Items: itemsJSON(req.Items)}
	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/reconcile-stock", body, &resp); err != nil {
		return nil, err
	}
	return &ports.SubmitResult{ItemsProcessed: resp.ItemsProcessed}, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

// do ejecuta la llamada y decodifica la respuesta en out. Una respuesta no 2xx se
// devuelve como *ports.RemoteError con el mensaje del servicio sin modificar.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("inventario: serializar request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("inventario: crear HTTP request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("inventario: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("inventario: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("inventario: leer respuesta: %w", err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("llamada al servicio de inventario")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("inventario: parsear respuesta %s: %w", path, err)
	}
	return nil
}

func remoteError(status int, raw []byte) *ports.RemoteError {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return &ports.RemoteError{StatusCode: status, Message: body.Message}
		}
		if body.Error != "" {
			return &ports.RemoteError{StatusCode: status, Message: body.Error}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &ports.RemoteError{StatusCode: status, Message: fmt.Sprintf("inventario HTTP %d: %s", status, msg)}
}
