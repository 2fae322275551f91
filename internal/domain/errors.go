package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrBusy              = errors.New("hay una operación en curso")
	ErrClosed            = errors.New("la sesión fue cerrada")
	ErrFetchFailed       = errors.New("no se pudo consultar el inventario remoto")
	ErrSuperseded        = errors.New("respuesta descartada por una búsqueda más reciente")
	ErrNotSubmittable    = errors.New("el lote no es enviable")
	ErrNoValidLines      = errors.New("no hay líneas válidas para enviar")
	ErrSubmitFailed      = errors.New("el envío al inventario remoto falló")
	ErrInactiveWarehouse = errors.New("la bodega no está activa")
)
