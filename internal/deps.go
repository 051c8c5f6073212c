//go:build deps
// +build deps

// Anchors the direct dependency surface so `go mod tidy` keeps the stack
// stable while individual packages are refactored.
package internal

import (
	_ "github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5"
	_ "github.com/prometheus/client_golang/prometheus"
	_ "github.com/redis/go-redis/v9"
	_ "github.com/segmentio/kafka-go"
	_ "github.com/spf13/cobra"
	_ "github.com/spf13/viper"
	_ "go.uber.org/zap"
	_ "golang.org/x/sync/errgroup"
)
