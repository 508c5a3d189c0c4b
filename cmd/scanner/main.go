package main

import "github.com/Mrudul2k/yeet-magic-scanner/internal/service"

func main() {
	service.RunServer()
}
