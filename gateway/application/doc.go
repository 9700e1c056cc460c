// Package application contém os casos de uso (regras de aplicação) do gateway:
// decisão de rate limit por método e aquisição de vaga de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(ctx, identity, method) retorna uma Decision
// (allow/deny + limite violado + retry-after).
package application
