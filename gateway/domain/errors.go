package domain

import "errors"

// Taxonomia de falhas do gateway. As camadas superiores classificam com
// errors.Is e traduzem para o status HTTP correspondente (503/504/500).
var (
	// ErrStoreUnavailable indica que o contador distribuído está inalcançável.
	ErrStoreUnavailable = errors.New("counter store unavailable")

	// ErrBackendUnavailable indica falha de conexão/transporte com o backend.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendTimeout indica que o backend estourou o timeout da chamada.
	ErrBackendTimeout = errors.New("backend timeout")
)
