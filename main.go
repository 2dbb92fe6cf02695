/*
Copyright © 2025 tieubaoca
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/tieubaoca/coredna-chatbot/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional; config has defaults and reads the real environment.
	_ = godotenv.Load()
}
