package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/posts-crud/internal/posts"
)

const (
	appName   = "posts-crud"
	namespace = "posts"
)

func New(logger *slog.Logger, manager *posts.Manager) *zenrpc.Server {
	rpcService := NewPostService(manager)
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register(namespace, rpcService)
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, appName, nil))

	return rpcServer
}
