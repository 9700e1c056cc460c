// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - RedisStore: contador atômico de janela fixa compartilhado entre instâncias
//   - MemoryStore: mesmo contrato em memória, para dev e testes
//   - LocalStore: token bucket por chave (x/time/rate), freio local de fallback
//   - ChanPool: semáforo simples para limite de concorrência
//   - Metrics: contadores agregados com snapshot + espelho Prometheus
package infra
