package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnknownResource    = errors.New("recurso de pantalla desconocido")
	ErrConfirmationNeeded = errors.New("la eliminación requiere confirmación explícita")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
)
