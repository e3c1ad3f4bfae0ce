// File path: cmd/coddog/main.go
package main

import "os"

func main() {
	os.Exit(Execute())
}
