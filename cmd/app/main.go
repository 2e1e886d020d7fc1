package main

import (
	"go.uber.org/fx"

	"pubhub/internal/app/server"
)

func main() {
	fx.New(server.Module()).Run()
}
