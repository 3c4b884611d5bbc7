package customHttpClient

import (
	"net/http"
	"sync"
	"time"

	"github.com/akolanti/PolicyRAG/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var once sync.Once
var pooledClient *http.Client

// GetPooledClient returns the shared outbound client. Everything that talks
// to the chat platform reuses its connections.
func GetPooledClient() *http.Client {
	once.Do(func() {
		pooledClient = &http.Client{
			Transport: customTransport,
			Timeout:   15 * time.Second,
		}
	})
	return pooledClient
}
