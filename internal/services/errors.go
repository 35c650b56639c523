package services

import "errors"

// Sentinel errors the handlers translate into HTTP status codes. Anything
// else coming out of a service is a store or driver failure and maps to 500.
var (
	ErrTableNotFound   = errors.New("mesa no encontrada")
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrLineNotFound    = errors.New("producto no encontrado en el pedido")
	ErrImageNotFound   = errors.New("imagen no encontrada")
	ErrInvalidQuantity = errors.New("la cantidad debe ser un entero positivo")
)
