package domain

// Recorder acumula os contadores agregados do gateway.
//
// Implementações devem ser seguras para uso concorrente; o caminho de decisão
// do rate limit chama Recorder em toda requisição.
type Recorder interface {
	// RecordProcessed conta uma requisição que chegou ao rate limiter.
	RecordProcessed()
	// RecordBlocked conta uma rejeição (429). Nunca é chamada em admissão.
	RecordBlocked()
}

// MetricsSnapshot é a leitura pontual dos contadores, exposta pelo /health.
type MetricsSnapshot struct {
	TotalRequestsProcessed int64 `json:"total_requests_processed"`
	TotalRequestsBlocked   int64 `json:"total_requests_blocked"`
}
