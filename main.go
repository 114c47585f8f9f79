// @title Escola Gestão API
// @version 1.0
// @description API de autenticação, resolução de escola e controle de acesso por papel.

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"escola-gestao/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
