package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Portfolio Ledger API
// @version         0.1.0
// @description     Cash and stock positions, market-price trade execution, and history.
// @host            localhost:3000
// @BasePath        /
// @schemes         http
