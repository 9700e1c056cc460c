// Package domain define contratos e tipos de domínio do gateway: contador
// distribuído de janela fixa, pool de vagas de concorrência, decisão de
// admissão e métricas agregadas.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar regras de negócio
// de detalhes de infraestrutura.
package domain
