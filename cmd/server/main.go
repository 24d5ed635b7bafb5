package main

import "paygen/internal/app/server"

func main() {
	server.Run()
}
