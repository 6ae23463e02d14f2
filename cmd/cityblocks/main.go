// main.go
//
// Entry point, the commands live in root.go, generate.go & batch.go

package main

func main() {
	Execute()
}
