package repository

import "errors"

// ErrNotFound se devuelve cuando la fila buscada no existe.
var ErrNotFound = errors.New("record not found")
