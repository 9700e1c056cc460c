// Package gateway fornece os adapters HTTP (net/http) do gateway: middleware de
// rate limit, middleware de concorrência, forwarder para o backend e health check.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (contador Redis/memória, semáforo, métricas)
//   - gateway (este pacote): middlewares HTTP + extração de identidade + forwarder
//     + tradução para status/headers
//
// Fluxo por requisição:
//
//  1. Extrai a identidade do cliente (IP remoto, opcionalmente XFF confiável)
//  2. Chama a camada application para a decisão de rate limit
//  3. Se bloqueado, responde 429 com o corpo JSON de detalhe e Retry-After
//  4. Se permitido, adquire vaga no pool de concorrência (pode esperar)
//  5. Encaminha ao backend e devolve a resposta dele (status/headers/corpo)
//
// Variáveis de ambiente do binário gateway (cmd/gateway) controlam o
// comportamento, como RATE_LIMITS, TIME_WINDOW, MAX_CONCURRENT_REQUESTS e
// FORWARD_TIMEOUT.
package gateway
