package middleware

import "github.com/aretw0/tendril/pkg/ports"

// Middleware allows wrapping a StorageBackend to add behavior.
type Middleware func(ports.StorageBackend) ports.StorageBackend
