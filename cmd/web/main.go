package main

import "eventhub_backend/internal/app"

func main() {
	app.Run()
}
