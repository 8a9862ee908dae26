package kv

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cliente redis opcional. Sem REDIS configurado tudo aqui vira no-op e o
// sistema segue funcionando só com o banco relacional.
var client *redis.Client

func Init(addr string) {
	if addr == "" {
		log.Println("redis desabilitado (redis_addr vazio)")
		return
	}
	client = redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis indisponível (%v), seguindo sem cache", err)
		client = nil
	}
}

func Enabled() bool {
	return client != nil
}

// SetNX marca a chave se ela ainda não existir. Devolve true quando a marca
// foi criada agora (ou quando o redis está desabilitado, para não bloquear
// fluxos que usam isso como trava best-effort).
func SetNX(ctx context.Context, key string, ttl time.Duration) bool {
	if client == nil {
		return true
	}
	ok, err := client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		log.Printf("redis setnx error: %v", err)
		return true
	}
	return ok
}

// Seen devolve true se a chave já foi marcada antes (dedup de webhooks).
// Só consulta, não marca: a marca é responsabilidade de Mark, depois que o
// processamento deu certo. Com redis desabilitado sempre devolve false: o
// dedup cai para a checagem condicional no banco.
func Seen(ctx context.Context, key string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("redis seen error: %v", err)
		return false
	}
	return n > 0
}

// Mark grava a chave de dedup. Chamar apenas quando o efeito já está
// persistido; marcar antes descartaria a reentrega após uma falha transiente.
func Mark(ctx context.Context, key string, ttl time.Duration) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, key, "1", ttl).Err(); err != nil {
		log.Printf("redis mark error: %v", err)
	}
}
